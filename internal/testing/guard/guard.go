// Package guard puts binaries into test mode when blank-imported from a
// _test.go file, so main() can be called without opening sockets.
package guard

import "os"

func init() {
	if _, set := os.LookupEnv("INVOICE_MANAGER_TEST_MODE"); !set {
		_ = os.Setenv("INVOICE_MANAGER_TEST_MODE", "1")
	}
}
