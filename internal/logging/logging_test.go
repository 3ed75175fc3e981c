package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-admin-console/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("verbose", "PROD", &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/auth/login").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"path":"/auth/login"`)
}

func TestNewUsesConsoleWriterInDev(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("debug", "dev", &buf)
	logger.Debug().Msg("readable")

	assert.Contains(t, buf.String(), "readable")
	assert.NotContains(t, buf.String(), `"message"`)
}
