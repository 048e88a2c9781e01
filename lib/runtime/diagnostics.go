package runtime

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/chazu/quark/vector"
)

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityWarning marks type-guard and structural failures: the
	// program asked for something the operands cannot do.
	SeverityWarning Severity = iota
	// SeverityError marks internal-consistency failures such as a
	// categorical code outside its dictionary.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic describes an operation that produced Null instead of a result.
type Diagnostic struct {
	Severity Severity
	Op       string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("runtime error: %s: %s", d.Op, d.Message)
}

// Diagnostics receives the runtime's diagnostics. Diagnostics are advisory;
// nothing in the runtime reads them back.
type Diagnostics interface {
	Report(d Diagnostic)
}

var log = commonlog.GetLogger("quark.runtime")

// LogDiagnostics reports through the quark.runtime commonlog logger.
func LogDiagnostics() Diagnostics {
	return logDiagnostics{log: log}
}

type logDiagnostics struct {
	log commonlog.Logger
}

func (l logDiagnostics) Report(d Diagnostic) {
	if d.Severity == SeverityError {
		l.log.Errorf("%s", d)
		return
	}
	l.log.Warningf("%s", d)
}

type discardDiagnostics struct{}

func (discardDiagnostics) Report(Diagnostic) {}

// DiscardDiagnostics drops everything.
var DiscardDiagnostics Diagnostics = discardDiagnostics{}

// FuncDiagnostics adapts a function to Diagnostics.
type FuncDiagnostics func(Diagnostic)

func (f FuncDiagnostics) Report(d Diagnostic) { f(d) }

// echoDiagnostics forwards to d and writes each diagnostic as a line to w.
func echoDiagnostics(d Diagnostics, w io.Writer) Diagnostics {
	return FuncDiagnostics(func(x Diagnostic) {
		d.Report(x)
		fmt.Fprintf(w, "%s: %s\n", x.Severity, x)
	})
}

// RecordingDiagnostics keeps every diagnostic in memory.
type RecordingDiagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (r *RecordingDiagnostics) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
}

// All returns a copy of the recorded diagnostics.
func (r *RecordingDiagnostics) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.items...)
}

// Len returns the number of recorded diagnostics.
func (r *RecordingDiagnostics) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Reset forgets everything recorded so far.
func (r *RecordingDiagnostics) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// fail reports err for op and returns Null. Corrupt or invalid vector data
// is an internal-consistency failure; everything else is a warning.
func (r *Runtime) fail(op string, err error) Value {
	sev := SeverityWarning
	if errors.Is(err, vector.ErrCorrupt) || errors.Is(err, vector.ErrInvalid) {
		sev = SeverityError
	}
	r.diag.Report(Diagnostic{Severity: sev, Op: op, Message: err.Error()})
	return MakeNull()
}

// failf reports a formatted warning for op and returns Null.
func (r *Runtime) failf(op, format string, args ...any) Value {
	r.diag.Report(Diagnostic{Severity: SeverityWarning, Op: op, Message: fmt.Sprintf(format, args...)})
	return MakeNull()
}
