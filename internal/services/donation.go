package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"openears-backend/internal/models"
)

var ErrInvalidAmount = errors.New("donation amount must be positive")

// DonorEmail receives donation receipts when nobody is signed in.
const DonorEmail = "donor@example.com"

// PresetDonationAmounts are the suggested one-click amounts.
var PresetDonationAmounts = []float64{10, 25, 50}

// DonationFlow mirrors the payment and success steps of the wizard with
// a caller-chosen amount and no selection or live-chat steps.
type DonationFlow struct {
	session         *Session
	mailer          *Mailer
	clock           Clock
	processingDelay time.Duration
}

func NewDonationFlow(session *Session, mailer *Mailer, clock Clock, processingDelay time.Duration) *DonationFlow {
	return &DonationFlow{
		session:         session,
		mailer:          mailer,
		clock:           clock,
		processingDelay: processingDelay,
	}
}

// DonateCard validates the amount before any payment method is engaged,
// then the card form, then completes.
func (d *DonationFlow) DonateCard(ctx context.Context, amount float64, number, expiry, cvc string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if errs := ValidateCard(number, expiry, cvc, d.clock.Now()); len(errs) > 0 {
		return errs
	}
	d.clock.Sleep(d.processingDelay)
	d.complete(ctx, amount, models.PaymentMethodCard)
	return nil
}

// DonatePayPal completes a donation via the delegated confirmation.
func (d *DonationFlow) DonatePayPal(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	d.complete(ctx, amount, models.PaymentMethodPayPal)
	return nil
}

func (d *DonationFlow) complete(ctx context.Context, amount float64, method models.PaymentMethod) {
	recipient := DonorEmail
	if user, ok := d.session.CurrentUser(); ok {
		recipient = user.Email
		d.session.AddTransaction(ctx, amount, models.TransactionTypeDonation, "Charitable Contribution", method)
	}

	details := fmt.Sprintf("Thank you for your generous donation of $%.2f via %s!", amount, method)
	go d.mailer.Send(context.Background(), recipient, EmailWelcome, details)
}
