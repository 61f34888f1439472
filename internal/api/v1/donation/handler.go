package donation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"openears-backend/internal/services"
	"openears-backend/internal/utils"
)

type Handler struct {
	donations *services.DonationFlow
}

func NewHandler(donations *services.DonationFlow) *Handler {
	return &Handler{donations: donations}
}

type DonateInput struct {
	Amount     float64 `json:"amount"`
	Method     string  `json:"method" binding:"required,oneof=card paypal"`
	CardNumber string  `json:"cardNumber"`
	Expiry     string  `json:"expiry"`
	CVC        string  `json:"cvc"`
}

// Donate runs the one-shot donation flow. The amount is checked before
// any payment method is engaged.
func (h *Handler) Donate(c *gin.Context) {
	var input DonateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	var err error
	if input.Method == "card" {
		err = h.donations.DonateCard(c.Request.Context(), input.Amount, input.CardNumber, input.Expiry, input.CVC)
	} else {
		err = h.donations.DonatePayPal(c.Request.Context(), input.Amount)
	}

	if err != nil {
		var verrs services.ValidationErrors
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Please enter a valid donation amount."))
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, utils.Response{
				Status:  http.StatusBadRequest,
				Message: "Payment validation failed",
				Data:    verrs,
			})
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to process donation"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Thank you for your donation", gin.H{
		"amount":  input.Amount,
		"presets": services.PresetDonationAmounts,
	}))
}
