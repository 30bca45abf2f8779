package field

import (
	"testing"

	"go.uber.org/goleak"
)

// Parallel sampling must not leave workers behind, even when canceled.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
