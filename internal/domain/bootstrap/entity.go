package bootstrap

import "time"

// Gate names one step of the procedure.
type Gate string

const (
	GateValidate Gate = "validate"
	GateInstall  Gate = "install"
	GatePrepare  Gate = "prepare"
	GateTest     Gate = "test"
	GateAnalyze  Gate = "analyze"
	GateAdvise   Gate = "advise"
)

// Gates is the fixed execution order.
var Gates = []Gate{GateValidate, GateInstall, GatePrepare, GateTest, GateAnalyze, GateAdvise}

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of a single gate. Err is set only on failure.
type Result struct {
	Gate       Gate          `json:"gate"`
	Status     Status        `json:"status"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

func Success(g Gate) Result { return Result{Gate: g, Status: StatusSuccess} }

func Skipped(g Gate, why string) Result {
	return Result{Gate: g, Status: StatusSkipped, Diagnostic: why}
}

// Failure wraps err so callers can still match the sentinel with errors.Is.
func Failure(g Gate, err error) Result {
	return Result{Gate: g, Status: StatusFailure, Diagnostic: err.Error(), Err: err}
}

func (r Result) Failed() bool { return r.Status == StatusFailure }

// Summary collects every gate that ran, in order.
type Summary struct {
	Results    []Result      `json:"results"`
	ReportPath string        `json:"report_path,omitempty"`
	Advice     string        `json:"advice,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// Succeeded reports whether no gate failed.
func (s Summary) Succeeded() bool {
	for _, r := range s.Results {
		if r.Failed() {
			return false
		}
	}
	return true
}

// Last returns the most recent gate result.
func (s Summary) Last() (Result, bool) {
	if len(s.Results) == 0 {
		return Result{}, false
	}
	return s.Results[len(s.Results)-1], true
}
