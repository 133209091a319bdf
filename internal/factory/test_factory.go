package factory

import (
	"time"

	"github.com/mcoot/connectfour/internal/dependencies/mocks"
	"github.com/mcoot/connectfour/internal/storage/memory"
	"github.com/mcoot/connectfour/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.Clock
}

// NewTestApp creates an App on in-memory storage with a mocked clock
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// WithAssets serves dir under /Assets/ from Handler
func (t *TestApp) WithAssets(dir string) *TestApp {
	t.assetsDir = dir
	return t
}
