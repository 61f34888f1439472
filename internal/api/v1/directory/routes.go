package directory

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/volunteers", Volunteers)
	router.GET("/slots", Slots)
	router.GET("/info", Info)
}
