package app

import (
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

// testModeEnv disables listeners, migrations and provider clients when set
// to a true value ("1", "true"). Test binaries set it via the guard package.
const testModeEnv = "INVOICE_MANAGER_TEST_MODE"

var testMode struct {
	once sync.Once
	on   atomic.Bool
}

func InTestMode() bool {
	testMode.once.Do(RefreshTestMode)
	return testMode.on.Load()
}

// RefreshTestMode re-reads the environment, for tests that flip the flag.
func RefreshTestMode() {
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	testMode.on.Store(on)
}
