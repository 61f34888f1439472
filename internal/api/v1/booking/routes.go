package booking

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	bookings := router.Group("/bookings")
	bookings.POST("", h.Create)
	bookings.GET("/:id", h.Get)
	bookings.POST("/:id/selection", h.Selection)
	bookings.POST("/:id/advance", h.Advance)
	bookings.POST("/:id/payment", h.Pay)
	bookings.POST("/:id/chat", h.StartChat)
	bookings.GET("/:id/chat/messages", h.Messages)
	bookings.POST("/:id/chat/messages", h.SendMessage)
}
