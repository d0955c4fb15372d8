package testsupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sonicwave/internal/engine"
)

// DefaultProbeLog is the text the fake engine emits for metadata probes.
const DefaultProbeLog = "Input #0, wav:\n  Duration: 00:03:21.45, start: 0.000000\n  Stream #0:0: Audio: pcm_s16le, 44100 Hz, stereo, 192 kbps\n"

// FakeEngine is an in-memory engine for pipeline tests. Its default Run
// behavior converts: the last argv element becomes an output buffer holding
// ConvertedBytes. Probe-shaped invocations (a lone -i input pair) append
// ProbeLog to the stream and report the non-zero exit a real engine would.
// Set OnRun to script failures.
type FakeEngine struct {
	engine.Log

	mu      sync.Mutex
	buffers map[string][]byte

	// OnRun, when set, decides each Run call. Returned text is appended to
	// the log stream; a nil error additionally writes the output buffer.
	OnRun func(argv []string) (string, error)

	PutErr    error
	GetErr    error
	DeleteErr error

	ConvertedBytes []byte
	ProbeLog       string

	RunCalls [][]string
	Puts     []string
	Deletes  []string
}

// NewFakeEngine returns a fake with stock conversion behavior.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{
		buffers:        make(map[string][]byte),
		ConvertedBytes: []byte("converted"),
		ProbeLog:       DefaultProbeLog,
	}
}

func (f *FakeEngine) Put(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Puts = append(f.Puts, name)
	if f.PutErr != nil {
		return fmt.Errorf("%w: %v", engine.ErrWrite, f.PutErr)
	}
	f.buffers[name] = append([]byte(nil), data...)
	return nil
}

func (f *FakeEngine) Run(_ context.Context, argv []string) (string, error) {
	f.mu.Lock()
	call := append([]string(nil), argv...)
	f.RunCalls = append(f.RunCalls, call)
	f.mu.Unlock()

	if f.OnRun != nil {
		text, err := f.OnRun(call)
		f.Append(text)
		if err != nil {
			return text, &engine.ExecError{Argv: call, Log: text, Err: err}
		}
		f.writeOutput(call)
		return text, nil
	}

	if isProbe(call) {
		f.Append(f.ProbeLog)
		return f.ProbeLog, &engine.ExecError{Argv: call, Log: f.ProbeLog, Err: errors.New("at least one output file must be specified")}
	}

	text := "conversion ok\n"
	f.Append(text)
	f.writeOutput(call)
	return text, nil
}

func (f *FakeEngine) Get(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrRead, f.GetErr)
	}
	data, ok := f.buffers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not in workspace", engine.ErrRead, name)
	}
	return append([]byte(nil), data...), nil
}

func (f *FakeEngine) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deletes = append(f.Deletes, name)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.buffers, name)
	return nil
}

// BufferCount reports how many buffers remain staged in the workspace.
func (f *FakeEngine) BufferCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buffers)
}

// HasBuffer reports whether a name is currently staged.
func (f *FakeEngine) HasBuffer(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.buffers[name]
	return ok
}

// ConversionCalls returns the Run invocations that were not probes.
func (f *FakeEngine) ConversionCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var calls [][]string
	for _, call := range f.RunCalls {
		if !isProbe(call) {
			calls = append(calls, call)
		}
	}
	return calls
}

func (f *FakeEngine) writeOutput(argv []string) {
	if len(argv) < 2 {
		return
	}
	out := argv[len(argv)-1]
	f.mu.Lock()
	f.buffers[out] = append([]byte(nil), f.ConvertedBytes...)
	f.mu.Unlock()
}

func isProbe(argv []string) bool {
	return len(argv) == 2 && argv[0] == "-i"
}
