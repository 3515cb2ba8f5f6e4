package handler

import (
	"net/http"
	"time"

	"calabash/internal/store"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	gateway *store.Gateway
}

func NewHealthHandler(gateway *store.Gateway) *HealthHandler {
	return &HealthHandler{gateway: gateway}
}

// Check reports service liveness plus the dual-store state: whether the
// database is reachable and how much sits in the memory fallback and the
// replay queue.
func (h *HealthHandler) Check(c *gin.Context) {
	snap := h.gateway.Health()
	status := "ok"
	if !snap.Connected {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": gin.H{
			"connected": snap.Connected,
			"stats": gin.H{
				"orders":        snap.Orders,
				"payments":      snap.Payments,
				"memoryOrders":  snap.MemoryOrders,
				"pendingWrites": snap.PendingWrites,
			},
		},
	})
}
