package penalty

import (
	"os"
	"testing"

	"campuspark/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.NewNop())
	os.Exit(m.Run())
}
