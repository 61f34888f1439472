package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"openears-backend/internal/models"
)

const (
	keyUsers        = "oeao:users"
	keyTransactions = "oeao:transactions"
	keySession      = "oeao:session"
	keyCredentials  = "oeao:credentials"

	denylistPrefix = "oeao:denylist:"
)

// AdminUserID is the fixed id of the seeded administrator.
const AdminUserID = "u_admin"

// Store is the collection layer over a KV backend. It owns the JSON
// layout of the users and transactions collections and the session
// pointer record. Reads initialize lazily; Initialize is idempotent.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error { return s.kv.Close() }

// Initialize seeds the collections if absent: exactly one admin user and
// an empty transaction list. Safe to call on every read.
func (s *Store) Initialize(ctx context.Context) error {
	if _, ok, err := s.kv.Get(ctx, keyUsers); err != nil {
		return err
	} else if !ok {
		seed := []models.User{{
			ID:       AdminUserID,
			Username: "Admin",
			Email:    "admin@example.com",
			Location: "Florida",
			Role:     models.RoleAdmin,
			Balance:  100,
		}}
		if err := s.setJSON(ctx, keyUsers, seed); err != nil {
			return err
		}
	}
	if _, ok, err := s.kv.Get(ctx, keyTransactions); err != nil {
		return err
	} else if !ok {
		if err := s.setJSON(ctx, keyTransactions, []models.Transaction{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, data)
}

func (s *Store) getJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Users returns the full user collection, seeding it first if absent.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	var users []models.User
	if _, err := s.getJSON(ctx, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers overwrites the whole user collection. No partial-write
// recovery exists; the store assumes a single logical writer.
func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	return s.setJSON(ctx, keyUsers, users)
}

func (s *Store) Transactions(ctx context.Context) ([]models.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	var txs []models.Transaction
	if _, err := s.getJSON(ctx, keyTransactions, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Store) SaveTransactions(ctx context.Context, txs []models.Transaction) error {
	return s.setJSON(ctx, keyTransactions, txs)
}

// TransactionsFor returns the user's ledger entries, date descending.
// CreatedAt carries sub-day precision so same-day entries keep newest
// first; the sort is stable so equal timestamps keep insertion order.
func (s *Store) TransactionsFor(ctx context.Context, userID string) ([]models.Transaction, error) {
	all, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, tx := range all {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Session returns the persisted current-user snapshot, if any.
func (s *Store) Session(ctx context.Context) (models.User, bool, error) {
	var u models.User
	ok, err := s.getJSON(ctx, keySession, &u)
	return u, ok, err
}

func (s *Store) SaveSession(ctx context.Context, u models.User) error {
	return s.setJSON(ctx, keySession, u)
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.kv.Remove(ctx, keySession)
}

// Credentials maps user id to bcrypt hash. Accounts created without a
// password have no entry.
func (s *Store) Credentials(ctx context.Context) (map[string]string, error) {
	creds := map[string]string{}
	if _, err := s.getJSON(ctx, keyCredentials, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func (s *Store) SaveCredential(ctx context.Context, userID, hash string) error {
	creds, err := s.Credentials(ctx)
	if err != nil {
		return err
	}
	creds[userID] = hash
	return s.setJSON(ctx, keyCredentials, creds)
}

// Deny marks a token digest revoked until the given time.
func (s *Store) Deny(ctx context.Context, digest string, until time.Time) error {
	return s.setJSON(ctx, denylistPrefix+digest, until.Unix())
}

// IsDenied reports whether a token digest is currently revoked. Expired
// entries are removed on read since the KV port has no TTL.
func (s *Store) IsDenied(ctx context.Context, digest string, now time.Time) (bool, error) {
	var until int64
	ok, err := s.getJSON(ctx, denylistPrefix+digest, &until)
	if err != nil || !ok {
		return false, err
	}
	if now.Unix() >= until {
		return false, s.kv.Remove(ctx, denylistPrefix+digest)
	}
	return true, nil
}
