// Package services holds the business rules above the store: the
// user/ledger domain layer, the single-slot session, the booking and
// donation flows and the mock notification mailer.
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"openears-backend/internal/models"
	"openears-backend/internal/store"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserService is the domain layer: uniqueness of emails and balance
// maintenance above the raw collections.
type UserService struct {
	store *store.Store
	clock Clock
	log   *zap.Logger
}

func NewUserService(st *store.Store, clock Clock, log *zap.Logger) *UserService {
	return &UserService{store: st, clock: clock, log: log}
}

// FindUserByEmail matches case-insensitively. Linear scan; the user
// collection is small by design.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *UserService) FindUserByID(ctx context.Context, id string) (models.User, bool, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// CreateUser appends a new user. A case-insensitive email collision
// fails with ErrEmailTaken and leaves the collection unchanged.
func (s *UserService) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, ErrEmailTaken
		}
	}
	users = append(users, u)
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// UserUpdate carries the profile fields a user may edit. Nil fields are
// left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Location *string
}

func (upd UserUpdate) apply(u *models.User) {
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
}

// UpdateUser merges fields into the stored user. An unknown id is a
// silent no-op.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			upd.apply(&users[i])
			return s.store.SaveUsers(ctx, users)
		}
	}
	return nil
}

// RecordTransaction appends a ledger entry and increments the owner's
// balance in the same call. An unknown user id records nothing and
// returns ErrUserNotFound, keeping balance == sum(ledger) unconditional.
func (s *UserService) RecordTransaction(ctx context.Context, userID string, amount float64, txType models.TransactionType, description string, method models.PaymentMethod) (models.Transaction, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	owner := -1
	for i := range users {
		if users[i].ID == userID {
			owner = i
			break
		}
	}
	if owner < 0 {
		return models.Transaction{}, ErrUserNotFound
	}

	now := s.clock.Now()
	tx := models.Transaction{
		ID:          "tx_" + uuid.NewString(),
		UserID:      userID,
		Date:        now.Format(models.DateLayout),
		Amount:      amount,
		Type:        txType,
		Description: description,
		Method:      method,
		CreatedAt:   now,
	}

	all, err := s.store.Transactions(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	all = append(all, tx)
	if err := s.store.SaveTransactions(ctx, all); err != nil {
		return models.Transaction{}, err
	}

	users[owner].Balance += amount
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return models.Transaction{}, err
	}

	s.log.Info("transaction recorded",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", userID),
		zap.Float64("amount", amount),
		zap.String("type", string(txType)))
	return tx, nil
}

// TransactionsFor returns the user's ledger, newest first.
func (s *UserService) TransactionsFor(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.store.TransactionsFor(ctx, userID)
}

// TransactionFilter narrows a ledger listing.
type TransactionFilter struct {
	Type      *models.TransactionType
	MinAmount *float64
	MaxAmount *float64
}

// Transactions returns the user's ledger filtered by the given criteria.
func (s *UserService) Transactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error) {
	txs, err := s.store.TransactionsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := txs[:0]
	for _, tx := range txs {
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.MinAmount != nil && tx.Amount < *filter.MinAmount {
			continue
		}
		if filter.MaxAmount != nil && tx.Amount > *filter.MaxAmount {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// TransactionsCSV renders ledger entries as a downloadable statement.
func TransactionsCSV(txs []models.Transaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Date", "Type", "Description", "Amount", "Method"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Date,
			string(tx.Type),
			tx.Description,
			fmt.Sprintf("%.2f", tx.Amount),
			string(tx.Method),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
