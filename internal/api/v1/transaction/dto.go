package transaction

import "openears-backend/internal/models"

type TransactionResponse struct {
	ID          string                 `json:"id"`
	Date        string                 `json:"date"`
	Amount      float64                `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
	Method      models.PaymentMethod   `json:"method"`
}

func NewTransactionResponses(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = TransactionResponse{
			ID:          tx.ID,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Description: tx.Description,
			Method:      tx.Method,
		}
	}
	return out
}
