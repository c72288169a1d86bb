// Package testutil holds in-memory transports for relay tests.
package testutil

import (
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/goccy/go-json"
)

var ErrFakeClosed = errors.New("fake signal closed")

// FakeSignal records every frame it accepts.
type FakeSignal struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	fail   error
}

func NewFakeSignal() *FakeSignal { return &FakeSignal{} }

func (f *FakeSignal) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFakeClosed
	}
	if f.fail != nil {
		return f.fail
	}
	f.frames = append(f.frames, append(core.Frame(nil), fr...))
	return nil
}

func (f *FakeSignal) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// FailWith makes every following TrySend return err. nil restores delivery.
func (f *FakeSignal) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *FakeSignal) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeSignal) Frames() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Frame(nil), f.frames...)
}

func (f *FakeSignal) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

// Messages decodes every recorded frame as a JSON object.
func (f *FakeSignal) Messages(t testing.TB) []map[string]any {
	t.Helper()
	frames := f.Frames()
	out := make([]map[string]any, 0, len(frames))
	for _, fr := range frames {
		var m map[string]any
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("decode frame %q: %v", fr, err)
		}
		out = append(out, m)
	}
	return out
}

// NewMember builds a room member backed by sig.
func NewMember(id domain.ConnID, role domain.Role, sig core.SignalConnection) core.MemberSession {
	conn := &domain.Connection{ID: id}
	return core.NewMemberSession(domain.NewMember(conn, role), sig)
}
