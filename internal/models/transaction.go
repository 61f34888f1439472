package models

import "time"

type TransactionType string

const (
	TransactionTypeChat     TransactionType = "Chat"
	TransactionTypeCall     TransactionType = "Call"
	TransactionTypeDonation TransactionType = "Donation"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodPayPal PaymentMethod = "PayPal"
)

// Transaction is an immutable ledger entry. Once written it is never
// mutated or deleted. Date is the display form shown on statements;
// CreatedAt is the authoritative timestamp and the sort key.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Date        string          `json:"date"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Method      PaymentMethod   `json:"method"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DateLayout is the statement display format for Transaction.Date.
const DateLayout = "Jan 2, 2006"
