package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/executor"
	"github.com/vk/jobgridgo/internal/testutil"
)

type fakeSink struct {
	published []executor.Result
	closed    bool
	err       error
}

func (f *fakeSink) Publish(_ context.Context, r executor.Result) error {
	f.published = append(f.published, r)
	return f.err
}

func (f *fakeSink) Close() error {
	f.closed = true
	return f.err
}

func TestMulti_FansOut(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	a, b := &fakeSink{}, &fakeSink{err: errors.New("b failed")}
	m := Multi{a, b}
	res := executor.Result{Workload: "sum.x"}

	// --- Act ---
	pubErr := m.Publish(context.Background(), res)
	closeErr := m.Close()

	// --- Assert ---
	assert.EqualError(t, pubErr, "b failed")
	assert.EqualError(t, closeErr, "b failed")
	assert.Equal(t, []executor.Result{res}, a.published)
	assert.Equal(t, []executor.Result{res}, b.published)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNew(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.NewContext(t)

	t.Run("log sink only", func(t *testing.T) {
		sinks, err := New(ctx, nil)
		require.NoError(t, err)
		require.Len(t, sinks, 1)
		assert.IsType(t, &Log{}, sinks[0])
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(ctx, []*config.Report{{Kind: "kafka"}})
		assert.EqualError(t, err, "unknown report kind 'kafka'")
	})

	t.Run("relative socketio url", func(t *testing.T) {
		_, err := New(ctx, []*config.Report{{Kind: "socketio", URL: "/socket.io/"}})
		assert.ErrorContains(t, err, "report 'socketio': URL '/socket.io/' must be absolute")
	})

	t.Run("malformed socketio url", func(t *testing.T) {
		_, err := New(ctx, []*config.Report{{Kind: "socketio", URL: "http://[::1"}})
		assert.ErrorContains(t, err, "failed to parse URL")
	})
}

func TestLog_Publish(t *testing.T) {
	t.Parallel()
	buf := &testutil.SafeBuffer{}
	sink := NewLog(slog.New(slog.NewTextHandler(buf, nil)))

	require.NoError(t, sink.Publish(context.Background(), executor.Result{
		Workload: "counter.smoke", Kind: "counter", Groups: 2, Jobs: 200, Checksum: "200", Duration: 1500 * time.Microsecond,
	}))
	require.NoError(t, sink.Publish(context.Background(), executor.Result{Workload: "sum.bad", Error: "boom"}))
	require.NoError(t, sink.Close())

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg="Workload result."`)
	assert.Contains(t, out, "workload=counter.smoke")
	assert.Contains(t, out, "checksum=200")
	assert.Contains(t, out, "duration_ms=1.5")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "component=report")
}

func TestSocketIO_Publish(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	type emitted struct {
		event string
		args  []any
	}
	var got []emitted
	connected, disconnected := true, false
	s := &SocketIO{
		logger:     slog.New(slog.NewTextHandler(&testutil.SafeBuffer{}, nil)),
		event:      DefaultEvent,
		connected:  func() bool { return connected },
		emit:       func(ev string, args ...any) { got = append(got, emitted{ev, args}) },
		disconnect: func() { disconnected = true },
	}

	// --- Act ---
	err := s.Publish(context.Background(), executor.Result{Workload: "skin.crowd", Kind: "skin", Jobs: 32, Checksum: "1.0"})
	require.NoError(t, err)
	connected = false
	errAfter := s.Publish(context.Background(), executor.Result{Workload: "skin.crowd"})
	require.NoError(t, s.Close())

	// --- Assert ---
	assert.ErrorIs(t, errAfter, ErrNotConnected)
	assert.True(t, disconnected)
	require.Len(t, got, 1)
	assert.Equal(t, "workload_result", got[0].event)
	assert.Equal(t, []any{map[string]any{
		"workload":    "skin.crowd",
		"kind":        "skin",
		"groups":      0,
		"jobs":        32,
		"duration_ms": 0.0,
		"checksum":    "1.0",
	}}, got[0].args)
}
