package auth

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/storage/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, sessions SessionStore) (*Service, *memory.Store) {
	t.Helper()
	repo := memory.New()
	return NewService(repo, sessions, time.Hour, WithBcryptCost(bcrypt.MinCost)), repo
}

func TestSignUpCreatesCredentialsProfileAndSession(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, NewMemorySessionStore())

	sess, err := svc.SignUp(ctx, "  Asha@Example.COM ", "secret1", "Asha")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", sess.Email)
	assert.NotEmpty(t, sess.Token)

	profile, err := repo.GetProfile(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
	assert.False(t, core.ProfileComplete(profile))

	resolved, err := svc.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, resolved.UserID)

	_, err = svc.SignUp(ctx, "asha@example.com", "another", "A")
	assert.ErrorIs(t, err, core.ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService(t, NewMemorySessionStore())

	_, err := svc.SignUp(context.Background(), "not-an-email", "secret1", "A")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(context.Background(), "a@b.co", "12345", "A")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemorySessionStore())
	_, err := svc.SignUp(ctx, "a@b.co", "secret1", "A")
	require.NoError(t, err)

	sess, err := svc.SignIn(ctx, "A@B.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", sess.Email)

	_, err = svc.SignIn(ctx, "a@b.co", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@b.co", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password. Please check your credentials and try again.", ErrInvalidCredentials.Error())
}

func TestSignInRejectionIsLoggedWithUserField(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := log.New(log.Config{Component: log.ComponentHTTP, Handler: log.NewHandler(&buf, "json", slog.LevelDebug)})
	svc := NewService(memory.New(), NewMemorySessionStore(), time.Hour, WithBcryptCost(bcrypt.MinCost), WithLogger(logger))

	sess, err := svc.SignUp(ctx, "a@b.co", "secret1", "A")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "a@b.co", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Sign-in rejected"`)
	assert.Contains(t, out, `"component":"auth"`)
	assert.Contains(t, out, `"user_id":"`+sess.UserID+`"`)
	assert.NotContains(t, out, `"component":"http"`)
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, NewMemorySessionStore())
	sess, err := svc.SignUp(ctx, "a@b.co", "secret1", "A")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, sess.Token))
	_, err = svc.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Session{Token: "t1", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))
	_, err := store.Get(ctx, "t1")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, store.Save(ctx, Session{Token: "t1", UserID: "u1", Email: "a@b.co", ExpiresAt: exp}))
	require.NoError(t, store.Save(ctx, Session{Token: "t2", UserID: "u1", Email: "a@b.co", ExpiresAt: exp}))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, mr.TTL("session:t1") > 59*time.Minute)

	require.NoError(t, store.Delete(ctx, "t1"))
	_, err = store.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, store.Delete(ctx, "t1"), "deleting twice is fine")

	require.NoError(t, store.DeleteUser(ctx, "u1"))
	_, err = store.Get(ctx, "t2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, mr.Exists("session:user:u1"))

	err = store.Save(ctx, Session{Token: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}

func TestRedisSessionExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisSessionStore(client)

	require.NoError(t, store.Save(ctx, Session{Token: "t1", UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ac := Context{Session: Session{UserID: "u1"}}
	assert.False(t, ac.ProfileComplete(), "missing profile is never complete")

	p := core.NewProfile("u1", "a@b.co", "A")
	p.Age = core.Some(30)
	p.MonthlyIncome = core.Some(core.Money{Cents: 100})
	p.MonthlyExpenseTarget = core.Some(core.Money{Cents: 50})
	p.EmergencyFundTarget = core.Some(core.Money{Cents: 300})
	ac.Profile = core.Some(p)

	ctx := WithContext(context.Background(), ac)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID())
	assert.True(t, got.ProfileComplete())
}
