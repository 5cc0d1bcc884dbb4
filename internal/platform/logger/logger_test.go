package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loekiboy/loek-it-up/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantDebug bool
	}{
		{name: "debug level", logLevel: "debug", wantDebug: true},
		{name: "info level", logLevel: "info", wantDebug: false},
		{name: "case insensitive", logLevel: "WARN", wantDebug: false},
		{name: "invalid falls back to info", logLevel: "loud", wantDebug: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Equal(t, tc.wantDebug, log.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	def := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil)) //nolint:staticcheck // nil-context tolerance is part of the contract

	ctx := WithLogger(context.Background(), custom)
	assert.Equal(t, custom, FromContext(ctx))
	assert.Equal(t, custom, FromContextOrDefault(ctx, def))
	assert.Equal(t, def, FromContextOrDefault(context.Background(), def))

	assert.Panics(t, func() { WithLogger(context.Background(), nil) })
}
