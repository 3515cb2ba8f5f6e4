// Command menuimages mirrors the storefront menu's remote photos onto
// Cloudinary. It reads a menu JSON file, downloads each http(s) image, uploads
// it with eager optimization, and writes an original|hosted mapping file. With
// -apply the mapping is rewritten into the menu file (a .backup copy is kept).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"calabash/pkg/cloudinary"

	"go.uber.org/zap"
)

type menuItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func main() {
	menuPath := flag.String("menu", "menu.json", "path to the menu JSON file")
	mappingPath := flag.String("mapping", "mapping.txt", "path to write the original|hosted mapping")
	folder := flag.String("folder", "calabash/menu", "Cloudinary folder for uploaded images")
	apply := flag.Bool("apply", false, "rewrite image URLs in the menu file from the mapping")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if *apply {
		if err := applyMapping(*menuPath, *mappingPath); err != nil {
			logger.Fatal("apply mapping", zap.Error(err))
		}
		logger.Info("mapping applied", zap.String("menu", *menuPath))
		return
	}

	client, err := cloudinary.NewClientFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		logger.Fatal("cloudinary client", zap.Error(err))
	}

	raw, err := os.ReadFile(*menuPath)
	if err != nil {
		logger.Fatal("read menu", zap.Error(err))
	}
	var items []menuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Fatal("parse menu", zap.Error(err))
	}
	logger.Info("menu loaded", zap.Int("items", len(items)))

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx := context.Background()

	out, err := os.Create(*mappingPath)
	if err != nil {
		logger.Fatal("create mapping file", zap.Error(err))
	}
	defer out.Close()

	var uploaded, skipped, failed int
	for _, item := range items {
		img := item.Image
		if img == "" || strings.HasPrefix(img, "data:") || !strings.HasPrefix(strings.ToLower(img), "http") {
			skipped++
			continue
		}
		publicID := fmt.Sprintf("menu-%d-%s", item.ID, slugify(item.Name))
		url, err := mirror(ctx, httpClient, client, img, *folder, publicID)
		if err != nil {
			logger.Error("mirror failed", zap.Int("id", item.ID), zap.Error(err))
			failed++
			continue
		}
		fmt.Fprintf(out, "%s|%s\n", img, url)
		logger.Info("mirrored", zap.Int("id", item.ID), zap.String("url", url))
		uploaded++
	}
	logger.Info("done", zap.Int("uploaded", uploaded), zap.Int("skipped", skipped), zap.Int("failed", failed))
}

func mirror(ctx context.Context, httpClient *http.Client, client cloudinary.Client, imageURL, folder, publicID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", imageURL, resp.StatusCode)
	}
	url, _, err := client.UploadImage(ctx, resp.Body, folder, publicID)
	return url, err
}

// applyMapping rewrites every quoted original URL in the menu file with its
// hosted counterpart, keeping a .backup copy of the input.
func applyMapping(menuPath, mappingPath string) error {
	mapping, err := os.ReadFile(mappingPath)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(menuPath)
	if err != nil {
		return err
	}
	content := string(text)
	for _, line := range strings.Split(string(mapping), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		content = strings.ReplaceAll(content, `"`+parts[0]+`"`, `"`+parts[1]+`"`)
	}
	if err := os.WriteFile(menuPath+".backup", text, 0o644); err != nil {
		return err
	}
	return os.WriteFile(menuPath, []byte(content), 0o644)
}
