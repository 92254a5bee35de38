package main

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ludo-technologies/kuma/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// syncBuffer is a bytes.Buffer safe for the listener goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// signalHarness replaces signal.Notify and os.Exit for one CLI
type signalHarness struct {
	mu      sync.Mutex
	ch      chan<- os.Signal
	stopped bool
	exits   []int
}

func (h *signalHarness) install(c *CLI) {
	c.notify = func(ch chan<- os.Signal, _ ...os.Signal) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.ch = ch
	}
	c.stopNotify = func(chan<- os.Signal) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
	}
	c.exit = func(code int) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.exits = append(h.exits, code)
	}
}

func (h *signalHarness) interrupt() {
	h.mu.Lock()
	ch := h.ch
	h.mu.Unlock()
	ch <- os.Interrupt
}

func (h *signalHarness) exitCodes() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.exits...)
}

type abortTarget struct {
	state domain.AbortState
}

func (a *abortTarget) Abort() bool { return a.state.Request() }

func TestTrapInterrupt_FirstInterruptAborts(t *testing.T) {
	defer goleak.VerifyNone(t)

	var stderr syncBuffer
	c := newCLI(&syncBuffer{}, &stderr)
	h := &signalHarness{}
	h.install(c)
	target := &abortTarget{}

	stop := c.trapInterrupt(target)
	h.interrupt()

	require.Eventually(t, target.state.Requested, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "Exiting... Interrupt again to exit immediately.")
	}, time.Second, time.Millisecond)
	require.True(t, strings.HasPrefix(stderr.String(), "\n"))
	require.Empty(t, h.exitCodes())

	stop()
	require.True(t, h.stopped)
}

func TestTrapInterrupt_SecondInterruptExits(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := newCLI(&syncBuffer{}, &syncBuffer{})
	h := &signalHarness{}
	h.install(c)
	target := &abortTarget{}

	stop := c.trapInterrupt(target)
	defer stop()

	h.interrupt()
	h.interrupt()

	require.Eventually(t, func() bool {
		return len(h.exitCodes()) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, []int{1}, h.exitCodes())
}

func TestTrapInterrupt_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := newCLI(&syncBuffer{}, &syncBuffer{})
	h := &signalHarness{}
	h.install(c)

	stop := c.trapInterrupt(&abortTarget{})
	stop()
	stop()

	require.True(t, h.stopped)
}
