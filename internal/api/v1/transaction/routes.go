package transaction

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	txs := router.Group("/transactions")
	txs.GET("", h.List)
	txs.GET("/export", h.Export)
}
