package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/brieflab/briefd/pkg/cli/config"
	"github.com/brieflab/briefd/pkg/utils/logging"
)

func TestLoggerConfigure(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() {
		logging.SetDefault(original)
	})

	t.Run("valid settings build a logger", func(t *testing.T) {
		cfg := config.NewLoggerForTest("debug", "json", "stderr")

		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		gt.Value(t, logging.Default()).NotNil()
	})

	t.Run("file output creates the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "briefd.log")
		cfg := config.NewLoggerForTest("info", "json", path)

		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("write something")
		closer()

		data := gt.R1(os.ReadFile(path)).NoError(t)
		gt.Number(t, len(data)).GreaterOrEqual(1)
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		cfg := config.NewLoggerForTest("loud", "console", "stdout")

		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid format is rejected", func(t *testing.T) {
		cfg := config.NewLoggerForTest("info", "xml", "stdout")

		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
