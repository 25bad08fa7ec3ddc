package composite_test

import (
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/marnixbouhuis/composite"
)

// journal records calls made on handles, across handles, in order.
type journal struct {
	lock    sync.Mutex
	entries []string
}

func (j *journal) record(entry string) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) Entries() []string {
	j.lock.Lock()
	defer j.lock.Unlock()
	return slices.Clone(j.entries)
}

// fakeHandle is a composite.Handle that records every call made on it.
type fakeHandle struct {
	name    string
	journal *journal

	// onCancel, if set, runs at the end of Kill and Complete.
	onCancel func()

	lock      sync.Mutex
	calls     []string
	timeScale float64
	autoKill  bool
}

var _ composite.Handle = &fakeHandle{}

func newFake(name string, j *journal) *fakeHandle {
	return &fakeHandle{
		name:      name,
		journal:   j,
		timeScale: 1,
		autoKill:  true,
	}
}

func newFakes(j *journal, names ...string) []*fakeHandle {
	out := make([]*fakeHandle, 0, len(names))
	for _, name := range names {
		out = append(out, newFake(name, j))
	}
	return out
}

func asHandles(fakes ...*fakeHandle) []composite.Handle {
	out := make([]composite.Handle, 0, len(fakes))
	for _, f := range fakes {
		out = append(out, f)
	}
	return out
}

func (h *fakeHandle) record(call string) {
	h.lock.Lock()
	h.calls = append(h.calls, call)
	h.lock.Unlock()

	if h.journal != nil {
		h.journal.record(h.name + ":" + call)
	}
}

func (h *fakeHandle) Play()         { h.record("play") }
func (h *fakeHandle) Pause()        { h.record("pause") }
func (h *fakeHandle) PlayForward()  { h.record("play_forward") }
func (h *fakeHandle) PlayBackward() { h.record("play_backward") }

func (h *fakeHandle) Kill(complete bool) {
	if complete {
		h.record("kill_complete")
	} else {
		h.record("kill")
	}
	if h.onCancel != nil {
		h.onCancel()
	}
}

func (h *fakeHandle) Complete(withCallbacks bool) {
	if withCallbacks {
		h.record("complete_callbacks")
	} else {
		h.record("complete")
	}
	if h.onCancel != nil {
		h.onCancel()
	}
}

func (h *fakeHandle) SetTimeScale(scale float64) {
	h.lock.Lock()
	h.timeScale = scale
	h.lock.Unlock()
	h.record("time_scale")
}

func (h *fakeHandle) SetAutoKill(autoKill bool) {
	h.lock.Lock()
	h.autoKill = autoKill
	h.lock.Unlock()
	h.record("auto_kill")
}

func (h *fakeHandle) Calls() []string {
	h.lock.Lock()
	defer h.lock.Unlock()
	return slices.Clone(h.calls)
}

// Cancellations returns the Kill and Complete calls made on the handle.
func (h *fakeHandle) Cancellations() []string {
	var out []string
	for _, call := range h.Calls() {
		if strings.HasPrefix(call, "kill") || strings.HasPrefix(call, "complete") {
			out = append(out, call)
		}
	}
	return out
}

func (h *fakeHandle) TimeScale() float64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.timeScale
}

func (h *fakeHandle) AutoKill() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.autoKill
}

// valueHandle is a handle with a non-comparable dynamic type.
type valueHandle struct {
	journal *journal
	tags    []string // makes the type non-comparable
}

var _ composite.Handle = valueHandle{}

func (h valueHandle) Play()                  { h.journal.record("value:play") }
func (h valueHandle) Pause()                 { h.journal.record("value:pause") }
func (h valueHandle) PlayForward()           {}
func (h valueHandle) PlayBackward()          {}
func (h valueHandle) Kill(_ bool)            { h.journal.record("value:kill") }
func (h valueHandle) Complete(_ bool)        { h.journal.record("value:complete") }
func (h valueHandle) SetTimeScale(_ float64) {}
func (h valueHandle) SetAutoKill(_ bool)     {}

// testLogger is a composite logger that automatically fails the test if an unexpected error is logged.
type testLogger struct {
	t              *testing.T
	expectedErrors []string

	lock  sync.Mutex
	infos []string
}

var _ composite.Logger = &testLogger{}

func newTestLogger(t *testing.T, expectedErrors []string) *testLogger {
	t.Helper()
	return &testLogger{
		t:              t,
		expectedErrors: expectedErrors,
	}
}

func (l *testLogger) Info(str string) {
	l.t.Helper()
	l.t.Log("INFO:", str)

	l.lock.Lock()
	l.infos = append(l.infos, str)
	l.lock.Unlock()
}

func (l *testLogger) Error(str string) {
	l.t.Helper()
	l.t.Log("ERROR:", str)
	if !slices.Contains(l.expectedErrors, str) {
		l.t.Log("Error is unexpected")
		l.t.Fail()
	}
}

func (l *testLogger) Infos() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return slices.Clone(l.infos)
}
