package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"openears-backend/internal/models"
	"openears-backend/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// InvalidCredentialsMessage is the single user-visible string for every
// login failure; it never distinguishes unknown email from bad password.
const InvalidCredentialsMessage = "Invalid email or password."

type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateError          SessionState = "error"
)

// Session is the single current-user slot, one per process lifetime. It
// mirrors the store: the store stays the source of truth, the session
// keeps the in-memory copy the UI reads. All operations are serialized
// behind one mutex; conflicting operations never run concurrently.
type Session struct {
	users   *UserService
	store   *store.Store
	mailer  *Mailer
	clock   Clock
	latency time.Duration
	log     *zap.Logger

	mu           sync.Mutex
	state        SessionState
	user         *models.User
	transactions []models.Transaction
	loading      bool
	errMsg       string
}

func NewSession(users *UserService, st *store.Store, mailer *Mailer, clock Clock, latency time.Duration, log *zap.Logger) *Session {
	s := &Session{
		users:   users,
		store:   st,
		mailer:  mailer,
		clock:   clock,
		latency: latency,
		log:     log,
		state:   StateAnonymous,
	}
	s.rehydrate()
	return s
}

// rehydrate restores the session from the persisted pointer. If the
// pointed-at user still exists the store wins (authoritative balance and
// ledger); otherwise the stale snapshot is kept as a fallback.
func (s *Session) rehydrate() {
	ctx := context.Background()
	snapshot, ok, err := s.store.Session(ctx)
	if err != nil || !ok {
		return
	}
	if dbUser, found, err := s.users.FindUserByEmail(ctx, snapshot.Email); err == nil && found {
		txs, _ := s.store.TransactionsFor(ctx, dbUser.ID)
		s.user = &dbUser
		s.transactions = txs
	} else {
		s.user = &snapshot
	}
	s.state = StateAuthenticated
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// CurrentUser returns a copy of the authenticated user, if any.
func (s *Session) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Transactions returns a copy of the cached ledger, newest first.
func (s *Session) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *Session) fail(msg string) {
	s.state = StateError
	s.errMsg = msg
	s.loading = false
}

// Login authenticates by email after a simulated round-trip. When the
// account has a stored credential the password is verified against it;
// accounts without one accept any password (seeded admin, password-less
// signups). Either failure surfaces the same message.
func (s *Session) Login(ctx context.Context, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAuthenticating
	s.loading = true
	s.errMsg = ""
	s.clock.Sleep(s.latency)

	found, ok, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		s.fail(InvalidCredentialsMessage)
		return models.User{}, err
	}
	if !ok {
		s.fail(InvalidCredentialsMessage)
		return models.User{}, ErrInvalidCredentials
	}

	creds, err := s.store.Credentials(ctx)
	if err != nil {
		s.fail(InvalidCredentialsMessage)
		return models.User{}, err
	}
	if hash, has := creds[found.ID]; has {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			s.fail(InvalidCredentialsMessage)
			return models.User{}, ErrInvalidCredentials
		}
	}

	txs, err := s.store.TransactionsFor(ctx, found.ID)
	if err != nil {
		s.fail(InvalidCredentialsMessage)
		return models.User{}, err
	}
	if err := s.store.SaveSession(ctx, found); err != nil {
		s.fail(InvalidCredentialsMessage)
		return models.User{}, err
	}

	s.user = &found
	s.transactions = txs
	s.state = StateAuthenticated
	s.loading = false
	s.log.Info("login", zap.String("user_id", found.ID))
	return found, nil
}

// Signup creates a regular user with a zero balance, signs the session
// in and sends a welcome email in the background.
func (s *Session) Signup(ctx context.Context, username, email, location, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAuthenticating
	s.loading = true
	s.errMsg = ""
	s.clock.Sleep(s.latency)

	if location == "" {
		location = "Unknown"
	}
	newUser := models.User{
		ID:       "u_" + uuid.NewString(),
		Username: username,
		Email:    email,
		Location: location,
		Role:     models.RoleUser,
		Balance:  0,
	}

	created, err := s.users.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.fail(err.Error())
		} else {
			s.fail("Registration failed")
		}
		return models.User{}, err
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.fail("Registration failed")
			return models.User{}, err
		}
		if err := s.store.SaveCredential(ctx, created.ID, string(hash)); err != nil {
			s.fail("Registration failed")
			return models.User{}, err
		}
	}

	if err := s.store.SaveSession(ctx, created); err != nil {
		s.fail("Registration failed")
		return models.User{}, err
	}

	s.user = &created
	s.transactions = nil
	s.state = StateAuthenticated
	s.loading = false
	s.log.Info("signup", zap.String("user_id", created.ID))

	go s.mailer.Send(context.Background(), created.Email, EmailWelcome, "Username: "+created.Username)

	return created, nil
}

// Logout is unconditional and cannot fail: memory and the persisted
// pointer are cleared even if the store write errors.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearSession(context.Background()); err != nil {
		s.log.Warn("clear session pointer", zap.Error(err))
	}
	s.user = nil
	s.transactions = nil
	s.state = StateAnonymous
	s.errMsg = ""
	s.loading = false
}

// UpdateProfile merges fields into the in-memory user, re-persists the
// pointer and writes through to the store.
func (s *Session) UpdateProfile(ctx context.Context, upd UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.User{}, ErrNotAuthenticated
	}
	upd.apply(s.user)
	if err := s.store.SaveSession(ctx, *s.user); err != nil {
		return models.User{}, err
	}
	if err := s.users.UpdateUser(ctx, s.user.ID, upd); err != nil {
		return models.User{}, err
	}
	return *s.user, nil
}

// AddTransaction records a ledger entry for the authenticated user and
// keeps the in-memory mirror consistent without a full reload. Anonymous
// sessions record nothing.
func (s *Session) AddTransaction(ctx context.Context, amount float64, txType models.TransactionType, description string, method models.PaymentMethod) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.Transaction{}, ErrNotAuthenticated
	}
	tx, err := s.users.RecordTransaction(ctx, s.user.ID, amount, txType, description, method)
	if err != nil {
		return models.Transaction{}, err
	}

	s.transactions = append([]models.Transaction{tx}, s.transactions...)
	s.user.Balance += amount
	if err := s.store.SaveSession(ctx, *s.user); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}
