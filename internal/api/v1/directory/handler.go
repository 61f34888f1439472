// Package directory serves the fixed public data: volunteer roster,
// call slots, pricing and crisis-line information.
package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"openears-backend/internal/catalog"
	"openears-backend/internal/utils"
)

func Volunteers(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", catalog.Volunteers))
}

func Slots(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", catalog.Slots))
}

func Info(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", gin.H{
		"appName":                 catalog.AppName,
		"pricePerSession":         catalog.PricePerSession,
		"sessionDurationMinutes":  catalog.SessionDurationMinutes,
		"suicidePreventionNumber": catalog.SuicidePreventionNumber,
		"emergencyText":           catalog.EmergencyText,
	}))
}
