package auth

import (
	"errors"
	"time"

	"calabash/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidPassword = errors.New("invalid password")
)

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CheckPassword verifies the shared admin password. A pre-hashed value in
// config wins; otherwise the plaintext from config is compared directly.
func CheckPassword(cfg *config.AdminConfig, password string) error {
	if cfg.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) != nil {
			return ErrInvalidPassword
		}
		return nil
	}
	if password != cfg.Password {
		return ErrInvalidPassword
	}
	return nil
}

// GenerateAdminToken mints the dashboard session token.
func GenerateAdminToken(cfg *config.AdminConfig) (string, error) {
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.TokenSecret))
}

func ParseAdminToken(cfg *config.AdminConfig, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.TokenSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
