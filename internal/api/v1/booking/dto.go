package booking

import "openears-backend/internal/services"

type CreateInput struct {
	Mode string `json:"mode" binding:"required,oneof=chat call"`
}

type SelectionInput struct {
	SlotID      string `json:"slotId"`
	VolunteerID string `json:"volunteerId"`
}

type PaymentInput struct {
	Method     string `json:"method" binding:"required,oneof=card paypal"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
}

type MessageInput struct {
	Text string `json:"text" binding:"required"`
}

type BookingResponse struct {
	ID   string              `json:"id"`
	Mode services.Mode       `json:"mode"`
	Step services.WizardStep `json:"step"`
}

func newBookingResponse(w *services.Wizard) BookingResponse {
	return BookingResponse{ID: w.ID(), Mode: w.Mode(), Step: w.Step()}
}
