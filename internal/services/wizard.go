package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"openears-backend/internal/catalog"
	"openears-backend/internal/models"
)

type Mode string

const (
	ModeChat Mode = "chat"
	ModeCall Mode = "call"
)

type WizardStep string

const (
	StepSelection WizardStep = "selection"
	StepPayment   WizardStep = "payment"
	StepSuccess   WizardStep = "success"
	StepLiveChat  WizardStep = "liveChat"
)

var (
	ErrInvalidMode     = errors.New("unknown booking mode")
	ErrWrongStep       = errors.New("operation not valid in the current step")
	ErrSlotRequired    = errors.New("a time slot must be selected")
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrProcessing      = errors.New("a payment is already being processed")
	ErrUnknownSlot     = errors.New("unknown time slot")
	ErrUnknownListener = errors.New("unknown volunteer")
)

// FieldError is a single per-field payment validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the error returned when a card form fails; the
// submission never proceeds while any field is invalid.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "payment validation failed: " + strings.Join(parts, ", ")
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
var digitsPattern = regexp.MustCompile(`^\d{3,4}$`)

// ValidateCard applies the card form rules: number 13-19 digits after
// stripping separators, expiry MM/YY and not before now's month, CVC 3-4
// digits. Returns nil when everything passes.
func ValidateCard(number, expiry, cvc string, now time.Time) ValidationErrors {
	var errs ValidationErrors

	clean := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	switch {
	case clean == "":
		errs = append(errs, FieldError{Field: "cardNumber", Message: "Required"})
	case len(clean) < 13 || len(clean) > 19:
		errs = append(errs, FieldError{Field: "cardNumber", Message: "Invalid card"})
	}

	switch {
	case expiry == "":
		errs = append(errs, FieldError{Field: "expiry", Message: "Required"})
	case !expiryPattern.MatchString(expiry):
		errs = append(errs, FieldError{Field: "expiry", Message: "MM/YY"})
	default:
		var month, year int
		fmt.Sscanf(expiry, "%d/%d", &month, &year)
		curYear := now.Year() % 100
		curMonth := int(now.Month())
		if year < curYear || (year == curYear && month < curMonth) {
			errs = append(errs, FieldError{Field: "expiry", Message: "Expired"})
		}
	}

	switch {
	case cvc == "":
		errs = append(errs, FieldError{Field: "cvc", Message: "Required"})
	case !digitsPattern.MatchString(cvc):
		errs = append(errs, FieldError{Field: "cvc", Message: "3-4 digits"})
	}

	return errs
}

// ChatMessage is one line of the simulated live chat transcript.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// GuestEmail receives booking confirmations when nobody is signed in.
const GuestEmail = "user@example.com"

// Wizard is the linear booking flow: selection, payment, success and,
// for chat mode, a locally simulated live chat. It is driven entirely by
// caller input and is not resumable across restarts.
type Wizard struct {
	session         *Session
	mailer          *Mailer
	clock           Clock
	processingDelay time.Duration
	chatDelay       time.Duration

	mu          sync.Mutex
	id          string
	mode        Mode
	step        WizardStep
	slotID      string
	volunteerID string
	processing  bool
	history     []ChatMessage
	scriptDone  chan struct{}
}

// WizardConfig bundles the simulated delays so tests can zero them.
type WizardConfig struct {
	ProcessingDelay time.Duration
	ChatDelay       time.Duration
}

func NewWizard(session *Session, mailer *Mailer, clock Clock, cfg WizardConfig, mode Mode) (*Wizard, error) {
	if mode != ModeChat && mode != ModeCall {
		return nil, ErrInvalidMode
	}
	return &Wizard{
		session:         session,
		mailer:          mailer,
		clock:           clock,
		processingDelay: cfg.ProcessingDelay,
		chatDelay:       cfg.ChatDelay,
		id:              "b_" + uuid.NewString(),
		mode:            mode,
		step:            StepSelection,
	}, nil
}

func (w *Wizard) ID() string {
	return w.id
}

func (w *Wizard) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

func (w *Wizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SelectSlot picks a call window. Only meaningful in call mode; the
// chat queue needs no booking.
func (w *Wizard) SelectSlot(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepSelection {
		return ErrWrongStep
	}
	slot, ok := catalog.SlotByID(id)
	if !ok {
		return ErrUnknownSlot
	}
	if !slot.Available {
		return ErrSlotUnavailable
	}
	w.slotID = id
	return nil
}

// SelectVolunteer records an optional listener preference.
func (w *Wizard) SelectVolunteer(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepSelection {
		return ErrWrongStep
	}
	if _, ok := catalog.VolunteerByID(id); !ok {
		return ErrUnknownListener
	}
	w.volunteerID = id
	return nil
}

// Advance moves from selection to payment. The scheduled-call branch
// requires a slot; the chat queue does not.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepSelection {
		return ErrWrongStep
	}
	if w.mode == ModeCall && w.slotID == "" {
		return ErrSlotRequired
	}
	w.step = StepPayment
	return nil
}

// SubmitCard validates the card form, runs the simulated processor
// delay and completes the booking. Invalid fields never submit.
func (w *Wizard) SubmitCard(ctx context.Context, number, expiry, cvc string) error {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.processing {
		w.mu.Unlock()
		return ErrProcessing
	}
	if errs := ValidateCard(number, expiry, cvc, w.clock.Now()); len(errs) > 0 {
		w.mu.Unlock()
		return errs
	}
	w.processing = true
	w.mu.Unlock()

	w.clock.Sleep(w.processingDelay)
	w.complete(ctx, models.PaymentMethodCard)
	return nil
}

// ConfirmPayPal completes the booking via the delegated external
// confirmation; the external surface owns its own validation.
func (w *Wizard) ConfirmPayPal(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.processing {
		w.mu.Unlock()
		return ErrProcessing
	}
	w.mu.Unlock()

	w.complete(ctx, models.PaymentMethodPayPal)
	return nil
}

func (w *Wizard) complete(ctx context.Context, method models.PaymentMethod) {
	w.mu.Lock()
	w.processing = false
	w.step = StepSuccess
	mode := w.mode
	w.mu.Unlock()

	txType := models.TransactionTypeChat
	description := "15 min Chat Session"
	modeLabel := "Chat Session"
	if mode == ModeCall {
		txType = models.TransactionTypeCall
		description = "15 min Scheduled Call"
		modeLabel = "Phone Call"
	}

	// Anonymous completions still succeed; they just leave no ledger entry.
	recipient := GuestEmail
	if user, ok := w.session.CurrentUser(); ok {
		recipient = user.Email
		w.session.AddTransaction(ctx, catalog.PricePerSession, txType, description, method)
	}

	details := fmt.Sprintf("Mode: %s (Via %s)", modeLabel, method)
	go w.mailer.Send(context.Background(), recipient, EmailConfirmation, details)
}

// StartChat enters the live-chat sub-state and plays the scripted
// volunteer greeting on fixed delays.
func (w *Wizard) StartChat() error {
	w.mu.Lock()
	if w.mode != ModeChat || w.step != StepSuccess {
		w.mu.Unlock()
		return ErrWrongStep
	}
	w.step = StepLiveChat
	w.history = nil
	done := make(chan struct{})
	w.scriptDone = done
	w.mu.Unlock()

	go func() {
		defer close(done)
		script := []ChatMessage{
			{Sender: "System", Text: "Secure connection established."},
			{Sender: "System", Text: "Captain Listener joined the chat."},
			{Sender: "Volunteer", Text: "Hi there! I am here to listen. How are you feeling today?"},
		}
		delays := []time.Duration{w.chatDelay, 2 * w.chatDelay, 2 * w.chatDelay}
		for i, msg := range script {
			w.clock.Sleep(delays[i])
			w.mu.Lock()
			w.history = append(w.history, msg)
			w.mu.Unlock()
		}
	}()
	return nil
}

// WaitForScript blocks until the scripted greeting has fully played.
func (w *Wizard) WaitForScript() {
	w.mu.Lock()
	done := w.scriptDone
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Send appends a user message immediately. Blank messages are ignored.
func (w *Wizard) Send(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepLiveChat {
		return ErrWrongStep
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	w.history = append(w.history, ChatMessage{Sender: "Me", Text: text})
	return nil
}

// History returns a copy of the transcript. It lives only in this
// wizard instance and is never persisted.
func (w *Wizard) History() []ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ChatMessage, len(w.history))
	copy(out, w.history)
	return out
}
