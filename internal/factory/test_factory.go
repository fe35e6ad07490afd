package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/warfront/internal/dependencies/mocks"
	"github.com/mcoot/warfront/internal/services/auth"
	"github.com/mcoot/warfront/internal/services/lobby"
	"github.com/mcoot/warfront/internal/services/session"
	"github.com/mcoot/warfront/internal/storage/memory"
	"github.com/mcoot/warfront/internal/testutil"
)

// Credentials of the developer account every TestApp starts with
const (
	TestDeveloperUsername = "devuser"
	TestDeveloperPassword = "devpass123"
	TestDeveloperGold     = 1_000_000
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Backend    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	backend := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := Config{
		Auth: auth.Config{
			PasswordCost: bcrypt.MinCost,
			Developer: auth.DeveloperConfig{
				Username: TestDeveloperUsername,
				Password: TestDeveloperPassword,
				Gold:     TestDeveloperGold,
			},
		},
		Lobby: lobby.DefaultConfig(),
	}
	cfg.Session.Duration = session.DefaultConfig().Duration

	app := newWithDependencies(backend, session.NewMemoryStore(mockClock), mockClock, mockRandom, testutil.NopLogger(), cfg)
	if err := app.Init(context.Background()); err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Backend:    backend,
	}
}
