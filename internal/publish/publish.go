// Package publish streams measurements to a socket.io server as they are
// taken, so a dashboard can follow a run.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/fibbench/internal/bench"
	"github.com/vk/fibbench/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// EventMeasurement carries one measurement.
	EventMeasurement = "measurement"
	// EventDone is emitted once after the last measurement.
	EventDone = "done"
)

// ErrConnect is returned when the server cannot be reached.
var ErrConnect = errors.New("socket.io connection failed")

// DefaultNamespace is used when Options.Namespace is empty.
const DefaultNamespace = "/"

// Options configures Dial.
type Options struct {
	// Namespace defaults to DefaultNamespace.
	Namespace          string
	InsecureSkipVerify bool
	// ConnectTimeout defaults to 15s.
	ConnectTimeout time.Duration
	// AckTimeout bounds how long Close waits for the server to acknowledge
	// the done event. Defaults to 5s.
	AckTimeout time.Duration
}

// Publisher is a connected socket.io client.
type Publisher struct {
	io         *socket.Socket
	sent       int
	ackTimeout time.Duration
}

// Dial connects to rawURL over WebSocket and waits for the connect event.
func Dial(ctx context.Context, rawURL string, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", rawURL)
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ackTimeout := opts.AckTimeout
	if ackTimeout <= 0 {
		ackTimeout = 5 * time.Second
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- firstError(errs)
	})

	logger.Debug("Initiating connection...", "namespace", namespace)
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("%w: %w", ErrConnect, err)
		}
		return &Publisher{io: io, ackTimeout: ackTimeout}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("%w: %w", ErrConnect, ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("%w: timed out after %s", ErrConnect, timeout)
	}
}

// firstError turns the connect_error payload into an error.
func firstError(args []any) error {
	if len(args) == 0 {
		return errors.New("unknown connect error")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}

// Event is the payload emitted for a measurement.
func Event(m bench.Measurement) map[string]any {
	return map[string]any{
		"name":   m.Name,
		"title":  m.Title,
		"n":      m.N,
		"result": m.Result,
		"ms":     m.Millis(),
		"us":     m.Micros(),
		"ns":     m.Nanos(),
	}
}

// Publish emits one measurement.
func (p *Publisher) Publish(m bench.Measurement) error {
	if err := p.io.Emit(EventMeasurement, Event(m)); err != nil {
		return fmt.Errorf("failed to emit %s: %w", EventMeasurement, err)
	}
	p.sent++
	return nil
}

// Close emits the done event with the number of measurements sent, waits for
// the server to acknowledge it and disconnects. Events travel in order, so the
// acknowledgement also confirms every measurement before it was delivered.
func (p *Publisher) Close() error {
	defer p.io.Disconnect()

	acked := make(chan error, 1)
	ack := func(_ []any, err error) {
		acked <- err
	}
	if err := p.io.Timeout(p.ackTimeout).Emit(EventDone, map[string]any{"count": p.sent}, ack); err != nil {
		return fmt.Errorf("failed to emit %s: %w", EventDone, err)
	}

	select {
	case err := <-acked:
		if err != nil {
			return fmt.Errorf("%s not acknowledged: %w", EventDone, err)
		}
		return nil
	case <-time.After(p.ackTimeout + time.Second):
		return fmt.Errorf("%s not acknowledged within %s", EventDone, p.ackTimeout)
	}
}
