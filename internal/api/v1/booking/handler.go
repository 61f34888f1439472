package booking

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"openears-backend/internal/services"
	"openears-backend/internal/utils"
)

// Handler owns the live wizard instances. Wizards are not resumable
// across restarts, so an in-process map is the whole registry.
type Handler struct {
	session *services.Session
	mailer  *services.Mailer
	clock   services.Clock
	cfg     services.WizardConfig

	mu      sync.Mutex
	wizards map[string]*services.Wizard
}

func NewHandler(session *services.Session, mailer *services.Mailer, clock services.Clock, cfg services.WizardConfig) *Handler {
	return &Handler{
		session: session,
		mailer:  mailer,
		clock:   clock,
		cfg:     cfg,
		wizards: make(map[string]*services.Wizard),
	}
}

func (h *Handler) lookup(c *gin.Context) (*services.Wizard, bool) {
	h.mu.Lock()
	w, ok := h.wizards[c.Param("id")]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Booking not found"))
	}
	return w, ok
}

func writeFlowError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, utils.Response{
			Status:  http.StatusBadRequest,
			Message: "Payment validation failed",
			Data:    verrs,
		})
	case errors.Is(err, services.ErrWrongStep), errors.Is(err, services.ErrProcessing):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	}
}

func (h *Handler) Create(c *gin.Context) {
	var input CreateInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	w, err := services.NewWizard(h.session, h.mailer, h.clock, h.cfg, services.Mode(input.Mode))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	h.mu.Lock()
	h.wizards[w.ID()] = w
	h.mu.Unlock()

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Booking started", newBookingResponse(w)))
}

func (h *Handler) Get(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", newBookingResponse(w)))
}

func (h *Handler) Selection(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	var input SelectionInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	if input.SlotID != "" {
		if err := w.SelectSlot(input.SlotID); err != nil {
			writeFlowError(c, err)
			return
		}
	}
	if input.VolunteerID != "" {
		if err := w.SelectVolunteer(input.VolunteerID); err != nil {
			writeFlowError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Selection saved", newBookingResponse(w)))
}

func (h *Handler) Advance(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := w.Advance(); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Proceeding to payment", newBookingResponse(w)))
}

func (h *Handler) Pay(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	var input PaymentInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	var err error
	if input.Method == "card" {
		err = w.SubmitCard(c.Request.Context(), input.CardNumber, input.Expiry, input.CVC)
	} else {
		err = w.ConfirmPayPal(c.Request.Context())
	}
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment confirmed", newBookingResponse(w)))
}

func (h *Handler) StartChat(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := w.StartChat(); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Chat started", newBookingResponse(w)))
}

func (h *Handler) Messages(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", w.History()))
}

func (h *Handler) SendMessage(c *gin.Context) {
	w, ok := h.lookup(c)
	if !ok {
		return
	}
	var input MessageInput
	if !utils.BindAndValidate(c, &input) {
		return
	}
	if err := w.Send(input.Text); err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Message sent", w.History()))
}
