package e2e_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumentor/learnconnect/internal/server/app"
	"github.com/edumentor/learnconnect/internal/server/domain"
	"github.com/edumentor/learnconnect/pkg/authstate"
	"github.com/edumentor/learnconnect/pkg/idx"
	"github.com/edumentor/learnconnect/pkg/learnsdk"
	"github.com/edumentor/learnconnect/pkg/tokenstore"
)

/*
 * End-to-end tests running the full stack in process: the assembled server
 * behind httptest, driven through the SDK client and auth state machine.
 */

const testPassword = "correct horse battery"

type env struct {
	t      *testing.T
	app    *app.Application
	server *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()

	application, err := app.New(app.Config{
		Issuer:               "learnconnect-test",
		DatabaseFile:         filepath.Join(t.TempDir(), "e2e.db"),
		KeyID:                "test",
		AccessTTL:            15 * time.Minute,
		RefreshTTL:           24 * time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	})
	require.NoError(t, err)

	server := httptest.NewServer(application.Router())
	t.Cleanup(server.Close)

	return &env{t: t, app: application, server: server}
}

// session is one user's client stack: SDK client plus auth machine.
type session struct {
	client  *learnsdk.Client
	machine *authstate.Machine
	user    learnsdk.UserProfile
}

func (e *env) newSession() *session {
	client := learnsdk.NewClient(e.server.URL)
	client.Logger = slog.New(slog.DiscardHandler)

	machine := authstate.New(client, tokenstore.NewMemoryStore(), client.Logger)
	client.Tokens = machine
	client.Refresher = machine

	return &session{client: client, machine: machine}
}

// register creates a fresh account with a unique email and logs it in.
func (e *env) register(name, role string) *session {
	e.t.Helper()

	s := e.newSession()
	email := fmt.Sprintf("%s@example.com", idx.New())
	err := s.machine.Register(context.Background(), learnsdk.Registration{
		Name:     name,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(e.t, err)
	require.True(e.t, s.machine.State().Authenticated())

	s.user = s.machine.State().Session.User
	return s
}

// seedSkill inserts a catalog entry directly; there is no public endpoint
// for catalog administration.
func (e *env) seedSkill(name string) domain.Skill {
	e.t.Helper()

	sk := domain.Skill{ID: idx.New().String(), Name: name, Category: "test"}
	require.NoError(e.t, e.app.Store().Skills().CreateSkill(context.Background(), sk))
	return sk
}

// completeBooking forces a session into the completed state, standing in for
// the passage of time.
func (e *env) completeBooking(id string) {
	e.t.Helper()
	require.NoError(e.t,
		e.app.Store().Bookings().UpdateBookingStatus(context.Background(), id, domain.BookingStatusCompleted))
}
