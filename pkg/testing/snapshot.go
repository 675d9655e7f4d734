package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/animation"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Trace is a recording of the values and events an animation delivered,
// stamped with the tester's ticked time.
type Trace struct {
	Samples []Sample `json:"samples"`
	Events  []string `json:"events,omitempty"`

	tester *AnimationTester
}

// Sample is one delivered value.
type Sample struct {
	Frame  int       `json:"frame"`
	Time   float64   `json:"t"`
	Values []float64 `json:"v"`
}

// NewTrace returns an empty trace stamped by tester.
func NewTrace(tester *AnimationTester) *Trace {
	return &Trace{tester: tester}
}

// Add appends a sample. Values are rounded to 4 decimals so golden files
// survive floating point noise across platforms.
func (tr *Trace) Add(values animatable.Vector) {
	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = round4(v)
	}
	tr.Samples = append(tr.Samples, Sample{
		Frame:  tr.tester.Frames(),
		Time:   round4(tr.tester.Controller().Elapsed().Seconds()),
		Values: rounded,
	})
}

// AddEvent appends a completion event description.
func (tr *Trace) AddEvent(desc string) {
	tr.Events = append(tr.Events, fmt.Sprintf("%d: %s", tr.tester.Frames(), desc))
}

// Recorder returns a ValueChanged callback that appends every value to tr.
func Recorder[T any](tr *Trace, kind animatable.Kind[T]) func(T) {
	return func(v T) { tr.Add(kind.Decompose(v)) }
}

// EventRecorder returns a Completion callback that appends every event to
// tr.
func EventRecorder[T any](tr *Trace) func(animation.Event[T]) {
	return func(e animation.Event[T]) { tr.AddEvent(e.String()) }
}

// Last returns the most recent sample, or false when the trace is empty.
func (tr *Trace) Last() (Sample, bool) {
	if len(tr.Samples) == 0 {
		return Sample{}, false
	}
	return tr.Samples[len(tr.Samples)-1], true
}

// MatchesFile compares this trace against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// ANIMA_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (tr *Trace) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("ANIMA_UPDATE_SNAPSHOTS") == "1" {
		if err := tr.UpdateFile(path); err != nil {
			t.Fatalf("failed to update trace: %v", err)
		}
		return
	}

	expected, err := loadTrace(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("trace file missing: %s\n\nTo create: ANIMA_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load trace: %v", err)
		return
	}

	if diff := tr.Diff(expected); diff != "" {
		t.Errorf("trace mismatch: %s\n%s\n\nTo update: ANIMA_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this trace to the given path, creating directories as
// needed.
func (tr *Trace) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalTrace(tr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this trace and other. Returns empty
// string if equal.
func (tr *Trace) Diff(other *Trace) string {
	a, _ := marshalTrace(tr)
	b, _ := marshalTrace(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return lineDiff(string(b), string(a))
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func loadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("invalid trace JSON: %w", err)
	}
	return &tr, nil
}

func marshalTrace(tr *Trace) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lineDiff produces a simple line-oriented diff.
func lineDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}

	return buf.String()
}
