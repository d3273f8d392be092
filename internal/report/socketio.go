package report

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/jobgridgo/internal/config"
	"github.com/vk/jobgridgo/internal/ctxlog"
	"github.com/vk/jobgridgo/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is emitted when a report block does not name one.
const DefaultEvent = "workload_result"

// connectTimeout bounds the wait for the initial socket.io handshake.
const connectTimeout = 15 * time.Second

// ErrNotConnected is returned by SocketIO.Publish once the connection is gone.
var ErrNotConnected = errors.New("socket.io client is not connected")

// SocketIO emits one event per result over a socket.io connection.
type SocketIO struct {
	logger *slog.Logger
	event  string

	connected  func() bool
	emit       func(event string, args ...any)
	disconnect func()
}

// DialSocketIO connects to the server named by rep using the WebSocket
// transport and waits for the handshake.
func DialSocketIO(ctx context.Context, rep *config.Report) (*SocketIO, error) {
	logger := ctxlog.Component(ctx, "report").With("url", rep.URL)
	logger.Info("Connecting socket.io reporter...")

	parsedURL, err := url.Parse(rep.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL '%s' must be absolute", rep.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if rep.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	namespace := rep.Namespace
	if namespace == "" {
		namespace = "/"
	}
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, ok := errs[0].(error)
		if !ok {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}

	event := rep.Event
	if event == "" {
		event = DefaultEvent
	}
	return &SocketIO{
		logger:     logger,
		event:      event,
		connected:  io.Connected,
		emit:       func(ev string, args ...any) { io.Emit(ev, args...) },
		disconnect: func() { io.Disconnect() },
	}, nil
}

// Publish emits r as the reporter's event.
func (s *SocketIO) Publish(_ context.Context, r executor.Result) error {
	if !s.connected() {
		return ErrNotConnected
	}
	s.logger.Debug("Emitting workload result.", "event", s.event, "workload", r.Workload)
	s.emit(s.event, payload(r))
	return nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.logger.Info("Disconnecting socket.io reporter.")
	s.disconnect()
	return nil
}
