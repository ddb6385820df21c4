// test_helpers.go - shared suite for end-to-end shop tests against a real store
package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shopbackend/internal/config"
	"shopbackend/internal/data"
	"shopbackend/internal/shop"
)

// FixedNow is the clock every suite service runs on
var FixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

// TestConfig holds configuration for test runs
type TestConfig struct {
	Backend     string
	TestDataDir string
	SQLitePath  string
}

// TestSuite wires a shop service to a temporary store of the chosen backend
type TestSuite struct {
	Config TestConfig
	Store  data.Store
	Shop   *shop.Service

	mu        sync.Mutex
	testCount int
}

// NewTestSuite creates an empty shop backed by a fresh store in a temp directory
func NewTestSuite(t *testing.T, backend string) *TestSuite {
	t.Helper()
	testDir := t.TempDir()

	suite := &TestSuite{
		Config: TestConfig{
			Backend:     backend,
			TestDataDir: testDir,
			SQLitePath:  filepath.Join(testDir, "shop_test.db"),
		},
	}
	suite.Reopen(t)

	t.Cleanup(suite.Cleanup)
	return suite
}

func (ts *TestSuite) storeSettings() config.StoreSettings {
	return config.StoreSettings{
		Backend:    ts.Config.Backend,
		DataDir:    ts.Config.TestDataDir,
		SQLitePath: ts.Config.SQLitePath,
	}
}

// Reopen closes the current store and loads a new service from disk, the way
// a restarted process would see it
func (ts *TestSuite) Reopen(t *testing.T) *shop.Service {
	t.Helper()
	if ts.Store != nil {
		require.NoError(t, ts.Store.Close())
	}

	store, err := data.OpenStore(ts.storeSettings())
	require.NoError(t, err, "open %s store", ts.Config.Backend)

	svc, err := shop.Open(context.Background(), store)
	require.NoError(t, err, "load %s store", ts.Config.Backend)
	svc.SetClock(func() time.Time { return FixedNow })

	ts.Store = store
	ts.Shop = svc
	return svc
}

// Persisted reads the store directly, bypassing the in-memory state
func (ts *TestSuite) Persisted(t *testing.T) *data.State {
	t.Helper()
	st, err := ts.Store.Load(context.Background())
	require.NoError(t, err)
	return st
}

// Cleanup closes the store; the temp directory is removed by the testing package
func (ts *TestSuite) Cleanup() {
	if ts.Store != nil {
		if err := ts.Store.Close(); err != nil {
			fmt.Printf("Warning: failed to close %s store: %v\n", ts.Config.Backend, err)
		}
		ts.Store = nil
	}
}

// GenerateUsername creates a unique username for the suite
func (ts *TestSuite) GenerateUsername(prefix string) string {
	ts.mu.Lock()
	ts.testCount++
	count := ts.testCount
	ts.mu.Unlock()

	return fmt.Sprintf("%s-%d", prefix, count)
}

// LoginAs starts a session or fails the test
func (ts *TestSuite) LoginAs(t *testing.T, username, password string) *shop.Session {
	t.Helper()
	sess, err := ts.Shop.Login(username, password)
	require.NoError(t, err, "login %s", username)
	return sess
}
