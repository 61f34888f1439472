package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"openears-backend/internal/middleware"
	"openears-backend/internal/models"
	"openears-backend/internal/services"
	"openears-backend/internal/utils"
)

type Handler struct {
	session *services.Session
}

func NewHandler(session *services.Session) *Handler {
	return &Handler{session: session}
}

// Me returns the authenticated user resolved by the auth middleware.
func (h *Handler) Me(c *gin.Context) {
	u := c.MustGet(middleware.ContextUserKey).(models.User)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", NewUserResponse(u, "")))
}

// Update merges profile fields through the session so the persisted
// pointer and the store stay in step.
func (h *Handler) Update(c *gin.Context) {
	var input UpdateProfileInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	updated, err := h.session.UpdateProfile(c.Request.Context(), services.UserUpdate{
		Username: input.Username,
		Email:    input.Email,
		Location: input.Location,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "No active session"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile updated", NewUserResponse(updated, "")))
}
