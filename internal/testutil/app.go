// A shared test setup utility which simplifies service and API tests.

package testutil

import (
	"testing"

	"github.com/vrsandeep/telly-go/internal/config"
	"github.com/vrsandeep/telly-go/internal/core"
)

// SetupTestApp builds a core.App over an in-memory database and default-ish
// test configuration.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()

	cfg := &config.Config{}
	cfg.Catalog.TimeoutSeconds = 5
	cfg.Catalog.MinScore = 3.0
	cfg.Catalog.MaxRetries = 1
	cfg.Refresh.Workers = 2

	return core.NewForTesting(cfg, SetupTestDB(t))
}

// SetupTestAppWithCatalog wires the app's catalog settings at a fake
// catalog server.
func SetupTestAppWithCatalog(t *testing.T, fc *FakeCatalog) *core.App {
	t.Helper()
	return core.NewForTesting(fc.ClientConfig(), SetupTestDB(t))
}
