package testhelper

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
)

// Case labels a table case with the line declaring it, so a failing
// subtest name leads back to its fixture.
func Case(t testing.TB, name string) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return name
	}
	return fmt.Sprintf("%s@%s:%d", name, filepath.Base(file), line)
}
