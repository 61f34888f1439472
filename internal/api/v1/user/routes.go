package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	users := router.Group("/users")
	users.GET("/me", h.Me)
	users.PATCH("/me", h.Update)
}
