package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	require.NoError(t, observe(ctx, obs, "add-plan", map[string]any{"date": "2024-03-06", "b": 1}, func() error {
		return nil
	}))
	boom := errors.New("boom")
	err := observe(ctx, obs, "move-plan", nil, func() error { return boom })
	require.ErrorIs(t, err, boom)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "use_case=add-plan")
	assert.Contains(t, lines[0], "success=true")
	assert.Less(t, strings.Index(lines[0], "b=1"), strings.Index(lines[0], "date=2024-03-06"))

	assert.Contains(t, lines[1], "level=ERROR")
	assert.Contains(t, lines[1], "use_case=move-plan")
	assert.Contains(t, lines[1], "error=boom")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	a, b := &recordingObserver{}, &recordingObserver{}
	obs := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "rename"})
	assert.Equal(t, []string{"rename"}, a.names())
	assert.Equal(t, []string{"rename"}, b.names())
}
