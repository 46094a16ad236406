package publish

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fibbench/internal/bench"
	sio "github.com/zishang520/socket.io/v2/socket"
)

// newServer starts an in-process socket.io server on the default namespace
// and returns its URL with a channel of the event names it received. The
// done event is acknowledged only when ackDone is set.
func newServer(t *testing.T, ackDone bool) (string, <-chan string) {
	t.Helper()
	received := make(chan string, 16)

	server := sio.NewServer(nil, nil)
	server.On("connection", func(clients ...any) {
		client := clients[0].(*sio.Socket)
		client.On(EventMeasurement, func(...any) {
			received <- EventMeasurement
		})
		client.On(EventDone, func(args ...any) {
			received <- EventDone
			if !ackDone || len(args) == 0 {
				return
			}
			if ack, ok := args[len(args)-1].(sio.Ack); ok {
				ack([]any{"ok"}, nil)
			}
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server.ServeHandler(nil))
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close(nil)
		ts.Close()
	})
	return ts.URL, received
}

func collect(t *testing.T, received <-chan string, n int) []string {
	t.Helper()
	var got []string
	for len(got) < n {
		select {
		case ev := <-received:
			got = append(got, ev)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %v, want %d events", got, n)
		}
	}
	return got
}

func TestEvent(t *testing.T) {
	t.Parallel()

	m := bench.Measurement{Name: "native_iterative", Title: "native iterative fibonacci", N: 10, Result: 55, Elapsed: 1500 * time.Microsecond}

	assert.Equal(t, map[string]any{
		"name":   "native_iterative",
		"title":  "native iterative fibonacci",
		"n":      10,
		"result": uint64(55),
		"ms":     int64(1),
		"us":     int64(1500),
		"ns":     int64(1500000),
	}, Event(m))
}

func TestDial_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := Dial(context.Background(), "localhost:3000", Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be absolute")
}

func TestDial_CancelledContext(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Nothing listens on port 9 (discard); cancellation must win regardless of
	// how the connection attempt ends.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	_, err := Dial(ctx, "http://127.0.0.1:9", Options{ConnectTimeout: time.Second})

	// --- Assert ---
	require.ErrorIs(t, err, ErrConnect)
}

func TestFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	assert.Same(t, boom, firstError([]any{boom}))
	assert.EqualError(t, firstError([]any{"refused"}), "refused")
	assert.EqualError(t, firstError(nil), "unknown connect error")
}

func TestPublisher_DeliversEveryEventBeforeDisconnecting(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	url, received := newServer(t, true)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Options{} leaves the namespace empty; the default namespace is used.
	p, err := Dial(ctx, url, Options{ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)

	// --- Act ---
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(bench.Measurement{Name: "native_iterative", N: 10, Result: 55}))
	}
	err = p.Close()

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{EventMeasurement, EventMeasurement, EventMeasurement, EventDone}, collect(t, received, 4))
}

func TestPublisher_CloseReportsMissingAck(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	url, received := newServer(t, false)
	p, err := Dial(context.Background(), url, Options{ConnectTimeout: 5 * time.Second, AckTimeout: 200 * time.Millisecond})
	require.NoError(t, err)

	// --- Act ---
	err = p.Close()

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "not acknowledged")
	assert.Equal(t, []string{EventDone}, collect(t, received, 1))
}
