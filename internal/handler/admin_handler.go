package handler

import (
	"net/http"

	"calabash/config"
	"calabash/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	cfg    *config.AdminConfig
	logger *zap.Logger
}

func NewAdminHandler(cfg *config.AdminConfig, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{cfg: cfg, logger: logger}
}

// Login checks the shared dashboard password and mints a session token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "password required"})
		return
	}
	if err := auth.CheckPassword(h.cfg, req.Password); err != nil {
		h.logger.Warn("admin login rejected", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Mot de passe incorrect",
		})
		return
	}
	token, err := auth.GenerateAdminToken(h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Authentification réussie",
		"token":   token,
	})
}
