package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/signupform/internal/observability/logger"
)

func TestReady_FailedCheckHidesCause(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	svc := NewHealthService(Deps{
		Version:  "test",
		Sessions: func() int { return 3 },
		Checks: map[string]Checker{
			"redis": func(context.Context) error { return errors.New("dial tcp 10.1.2.3:6379: connection refused") },
			"other": func(context.Context) error { return nil },
		},
	})

	resp := svc.Ready(ctx)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, 3, resp.Sessions)
	assert.Equal(t, "ok", resp.Components["other"].Status)
	assert.Equal(t, "error", resp.Components["redis"].Status)
	assert.NotContains(t, resp.Components["redis"].Message, "10.1.2.3")

	entries := logs.FilterMessage("readiness check failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "redis", entries[0].ContextMap()["check"])
		assert.Contains(t, entries[0].ContextMap()["error"], "10.1.2.3")
	}
}

func TestReady_AllOK(t *testing.T) {
	resp := NewHealthService(Deps{}).Ready(context.Background())
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Components["engine"].Status)
}
