package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"openears-backend/internal/models"
	"openears-backend/internal/store"
)

func TestSignupThenLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.session.Signup(ctx, "Sam", "sam@example.com", "Austin", "hunter2")
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, env.session.State())
	assert.Equal(t, models.RoleUser, created.Role)
	assert.Equal(t, 0.0, created.Balance)
	assert.Empty(t, env.session.Transactions())

	env.session.Logout()

	loggedIn, err := env.session.Login(ctx, "sam@example.com", "hunter2")
	assert.NoError(t, err)
	assert.Equal(t, created, loggedIn, "login must yield the user exactly as created")
	assert.Empty(t, env.session.Transactions())
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.session.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StateError, env.session.State())
	assert.Equal(t, InvalidCredentialsMessage, env.session.Err())

	_, ok := env.session.CurrentUser()
	assert.False(t, ok)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "hunter2")
	assert.NoError(t, err)
	env.session.Logout()

	_, err = env.session.Login(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, InvalidCredentialsMessage, env.session.Err())
}

func TestLoginWithoutStoredCredentialAcceptsAnyPassword(t *testing.T) {
	env := newTestEnv(t)

	// The seeded admin has no credential record.
	u, err := env.session.Login(context.Background(), "admin@example.com", "anything")
	assert.NoError(t, err)
	assert.Equal(t, store.AdminUserID, u.ID)
	assert.Equal(t, StateAuthenticated, env.session.State())
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)

	_, err = env.session.Signup(ctx, "Other", "sam@example.com", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, StateError, env.session.State())
	assert.Equal(t, ErrEmailTaken.Error(), env.session.Err())
}

func TestSignupDefaultsLocation(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.session.Signup(context.Background(), "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)
	assert.Equal(t, "Unknown", created.Location)
}

func TestLogoutThenRestartIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "Austin", "")
	assert.NoError(t, err)
	env.session.Logout()
	assert.Equal(t, StateAnonymous, env.session.State())

	_, ok, err := env.store.Session(ctx)
	assert.NoError(t, err)
	assert.False(t, ok, "logout must remove the persisted pointer")

	// A fresh session over the same store models a process restart.
	restarted := NewSession(env.users, env.store, env.mailer, RealClock(), 0, zap.NewNop())
	assert.Equal(t, StateAnonymous, restarted.State())
}

func TestRehydrateRefreshesFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.session.Signup(ctx, "Sam", "sam@example.com", "Austin", "")
	assert.NoError(t, err)
	_, err = env.session.AddTransaction(ctx, 2.99, models.TransactionTypeChat, "15 min Chat Session", models.PaymentMethodCard)
	assert.NoError(t, err)

	restarted := NewSession(env.users, env.store, env.mailer, RealClock(), 0, zap.NewNop())
	assert.Equal(t, StateAuthenticated, restarted.State())

	u, ok := restarted.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, 2.99, u.Balance, "rehydration must pick up the authoritative balance")
	assert.Len(t, restarted.Transactions(), 1)
}

func TestRehydrateFallsBackToStaleSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.session.Signup(ctx, "Sam", "sam@example.com", "Austin", "")
	assert.NoError(t, err)

	// Drop the user from the store while the pointer still references it.
	assert.NoError(t, env.store.SaveUsers(ctx, nil))

	restarted := NewSession(env.users, env.store, env.mailer, RealClock(), 0, zap.NewNop())
	assert.Equal(t, StateAuthenticated, restarted.State())
	u, ok := restarted.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, created, u)
}

func TestAddTransactionRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.AddTransaction(ctx, 2.99, models.TransactionTypeChat, "test", models.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	txs, _ := env.store.Transactions(ctx)
	assert.Empty(t, txs)
}

func TestAddTransactionUpdatesMirrorAndPointer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.session.Signup(ctx, "Sam", "sam@example.com", "", "")
	assert.NoError(t, err)

	first, err := env.session.AddTransaction(ctx, 10, models.TransactionTypeDonation, "Charitable Contribution", models.PaymentMethodPayPal)
	assert.NoError(t, err)
	second, err := env.session.AddTransaction(ctx, 2.99, models.TransactionTypeChat, "15 min Chat Session", models.PaymentMethodCard)
	assert.NoError(t, err)

	cached := env.session.Transactions()
	assert.Equal(t, []string{second.ID, first.ID}, []string{cached[0].ID, cached[1].ID}, "most recent first")

	u, _ := env.session.CurrentUser()
	assert.InDelta(t, 12.99, u.Balance, 1e-9)

	pointer, ok, _ := env.store.Session(ctx)
	assert.True(t, ok)
	assert.InDelta(t, 12.99, pointer.Balance, 1e-9, "pointer snapshot tracks the balance")
}

func TestUpdateProfileWritesThrough(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.session.Signup(ctx, "Sam", "sam@example.com", "Austin", "")
	assert.NoError(t, err)

	loc := "Portland"
	updated, err := env.session.UpdateProfile(ctx, UserUpdate{Location: &loc})
	assert.NoError(t, err)
	assert.Equal(t, "Portland", updated.Location)

	stored, ok, _ := env.users.FindUserByID(ctx, created.ID)
	assert.True(t, ok)
	assert.Equal(t, "Portland", stored.Location)

	pointer, ok, _ := env.store.Session(ctx)
	assert.True(t, ok)
	assert.Equal(t, "Portland", pointer.Location)
}
