package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"openears-backend/internal/catalog"
	"openears-backend/internal/models"
)

func futureExpiry() string {
	return time.Now().AddDate(1, 0, 0).Format("01/06")
}

func newTestWizard(t *testing.T, env *testEnv, mode Mode) *Wizard {
	t.Helper()
	w, err := NewWizard(env.session, env.mailer, RealClock(), WizardConfig{}, mode)
	assert.NoError(t, err)
	return w
}

func TestValidateCard(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		number string
		expiry string
		cvc    string
		fields map[string]string
	}{
		{
			name:   "valid",
			number: "4242424242424242",
			expiry: "12/27",
			cvc:    "123",
			fields: nil,
		},
		{
			name:   "valid with spaces in number",
			number: "4242 4242 4242 4242",
			expiry: "12/27",
			cvc:    "1234",
			fields: nil,
		},
		{
			name:   "expired card",
			number: "4111111111111111",
			expiry: "01/20",
			cvc:    "123",
			fields: map[string]string{"expiry": "Expired"},
		},
		{
			name:   "far future expiry is valid",
			number: "4111111111111111",
			expiry: "12/99",
			cvc:    "123",
			fields: nil,
		},
		{
			name:   "short card number",
			number: "4242",
			expiry: "12/27",
			cvc:    "123",
			fields: map[string]string{"cardNumber": "Invalid card"},
		},
		{
			name:   "bad expiry format",
			number: "4242424242424242",
			expiry: "13/27",
			cvc:    "123",
			fields: map[string]string{"expiry": "MM/YY"},
		},
		{
			name:   "bad cvc",
			number: "4242424242424242",
			expiry: "12/27",
			cvc:    "12",
			fields: map[string]string{"cvc": "3-4 digits"},
		},
		{
			name:   "all empty",
			number: "",
			expiry: "",
			cvc:    "",
			fields: map[string]string{"cardNumber": "Required", "expiry": "Required", "cvc": "Required"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateCard(tc.number, tc.expiry, tc.cvc, now)
			assert.Len(t, errs, len(tc.fields))
			for _, fe := range errs {
				assert.Equal(t, tc.fields[fe.Field], fe.Message)
			}
		})
	}
}

func TestBookingAuthenticatedChatEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)

	w := newTestWizard(t, env, ModeChat)
	assert.NoError(t, w.Advance())
	assert.Equal(t, StepPayment, w.Step())

	err = w.SubmitCard(ctx, "4242424242424242", futureExpiry(), "123")
	assert.NoError(t, err)
	assert.Equal(t, StepSuccess, w.Step())

	txs, _ := env.store.Transactions(ctx)
	assert.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeChat, txs[0].Type)
	assert.Equal(t, 2.99, txs[0].Amount)
	assert.Equal(t, models.PaymentMethodCard, txs[0].Method)
	assert.Equal(t, "15 min Chat Session", txs[0].Description)

	u, _ := env.session.CurrentUser()
	assert.InDelta(t, 2.99, u.Balance, 1e-9)
}

func TestBookingAnonymousStillSucceedsWithoutLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := newTestWizard(t, env, ModeChat)
	assert.NoError(t, w.Advance())

	err := w.SubmitCard(ctx, "4242424242424242", futureExpiry(), "123")
	assert.NoError(t, err)
	assert.Equal(t, StepSuccess, w.Step())

	txs, _ := env.store.Transactions(ctx)
	assert.Empty(t, txs, "anonymous completion must not write to the ledger")
}

func TestBookingInvalidCardNeverSubmits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := newTestWizard(t, env, ModeChat)
	assert.NoError(t, w.Advance())

	err := w.SubmitCard(ctx, "4111111111111111", "01/20", "123")
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Equal(t, "expiry", verrs[0].Field)
	assert.Equal(t, "Expired", verrs[0].Message)
	assert.Equal(t, StepPayment, w.Step(), "the wizard must stay on payment")

	txs, _ := env.store.Transactions(ctx)
	assert.Empty(t, txs)
}

func TestCallModeRequiresSlot(t *testing.T) {
	env := newTestEnv(t)

	w := newTestWizard(t, env, ModeCall)
	assert.ErrorIs(t, w.Advance(), ErrSlotRequired)

	assert.ErrorIs(t, w.SelectSlot("t2"), ErrSlotUnavailable)
	assert.ErrorIs(t, w.SelectSlot("t99"), ErrUnknownSlot)

	assert.NoError(t, w.SelectSlot("t1"))
	assert.NoError(t, w.SelectVolunteer("v1"))
	assert.NoError(t, w.Advance())
	assert.Equal(t, StepPayment, w.Step())
}

func TestCallModePayPalRecordsCallTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)

	w := newTestWizard(t, env, ModeCall)
	assert.NoError(t, w.SelectSlot("t1"))
	assert.NoError(t, w.Advance())
	assert.NoError(t, w.ConfirmPayPal(ctx))

	txs, _ := env.store.Transactions(ctx)
	assert.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeCall, txs[0].Type)
	assert.Equal(t, models.PaymentMethodPayPal, txs[0].Method)
	assert.Equal(t, "15 min Scheduled Call", txs[0].Description)
}

func TestLiveChatScriptAndMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := newTestWizard(t, env, ModeChat)
	assert.NoError(t, w.Advance())
	assert.NoError(t, w.ConfirmPayPal(ctx))

	assert.NoError(t, w.StartChat())
	assert.Equal(t, StepLiveChat, w.Step())
	w.WaitForScript()

	history := w.History()
	assert.Len(t, history, 3)
	assert.Equal(t, "Secure connection established.", history[0].Text)
	assert.Equal(t, "Captain Listener joined the chat.", history[1].Text)
	assert.Equal(t, "Volunteer", history[2].Sender)

	assert.NoError(t, w.Send("  hello  "))
	assert.NoError(t, w.Send("   ")) // blank messages are dropped
	history = w.History()
	assert.Len(t, history, 4)
	assert.Equal(t, ChatMessage{Sender: "Me", Text: "hello"}, history[3])
}

func TestStartChatOnlyInChatMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := newTestWizard(t, env, ModeCall)
	assert.NoError(t, w.SelectSlot("t1"))
	assert.NoError(t, w.Advance())
	assert.NoError(t, w.ConfirmPayPal(ctx))

	assert.ErrorIs(t, w.StartChat(), ErrWrongStep)
}

func TestWizardStepOrderIsEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w := newTestWizard(t, env, ModeChat)
	assert.ErrorIs(t, w.SubmitCard(ctx, "4242424242424242", futureExpiry(), "123"), ErrWrongStep)
	assert.ErrorIs(t, w.Send("hi"), ErrWrongStep)

	assert.NoError(t, w.Advance())
	assert.ErrorIs(t, w.Advance(), ErrWrongStep)
}

func TestNewWizardRejectsUnknownMode(t *testing.T) {
	env := newTestEnv(t)
	_, err := NewWizard(env.session, env.mailer, RealClock(), WizardConfig{}, Mode("video"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestDonationRejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	flow := NewDonationFlow(env.session, env.mailer, RealClock(), 0)

	assert.ErrorIs(t, flow.DonateCard(ctx, 0, "4242424242424242", futureExpiry(), "123"), ErrInvalidAmount)
	assert.ErrorIs(t, flow.DonateCard(ctx, -5, "4242424242424242", futureExpiry(), "123"), ErrInvalidAmount)
	assert.ErrorIs(t, flow.DonatePayPal(ctx, 0), ErrInvalidAmount)

	// The amount check fires before card validation.
	assert.ErrorIs(t, flow.DonateCard(ctx, 0, "", "", ""), ErrInvalidAmount)
}

func TestDonationAuthenticatedRecordsLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	flow := NewDonationFlow(env.session, env.mailer, RealClock(), 0)

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)

	assert.NoError(t, flow.DonateCard(ctx, 25, "4242424242424242", futureExpiry(), "123"))

	txs, _ := env.store.Transactions(ctx)
	assert.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeDonation, txs[0].Type)
	assert.Equal(t, 25.0, txs[0].Amount)
	assert.Equal(t, "Charitable Contribution", txs[0].Description)

	u, _ := env.session.CurrentUser()
	assert.InDelta(t, 25.0, u.Balance, 1e-9)
}

func TestDonationAnonymousLeavesNoLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	flow := NewDonationFlow(env.session, env.mailer, RealClock(), 0)

	assert.NoError(t, flow.DonatePayPal(ctx, catalog.PricePerSession))

	txs, _ := env.store.Transactions(ctx)
	assert.Empty(t, txs)
}
