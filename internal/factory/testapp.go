package factory

import (
	"time"

	"github.com/typerace/typerace-go/internal/dependencies/mocks"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/storage/memory"
	"github.com/typerace/typerace-go/internal/testutil"
)

// TestApp wraps an App with its mocked dependencies for integration tests
type TestApp struct {
	*App
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an application wired against in-memory storage and
// deterministic clock/random mocks.
func NewTestApp() *TestApp {
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	app := newWithDependencies(memory.New(), clk, rnd, registry.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  clk,
		MockRandom: rnd,
	}
}

// LoadTestPassages loads a small fixed corpus
func (t *TestApp) LoadTestPassages() error {
	return t.PassageService.LoadPassages([]string{
		"the quick brown fox jumps over the lazy dog",
		"pack my box with five dozen liquor jugs",
	})
}
