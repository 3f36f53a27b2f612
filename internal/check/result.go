package check

import "time"

// Outcome is what a probe reports back to the Runner.
type Outcome struct {
	Passed  bool
	Message string
}

func pass(message string) Outcome {
	return Outcome{Passed: true, Message: message}
}

func fail(message string) Outcome {
	return Outcome{Message: message}
}

// Result is the recorded outcome of one probe run.
type Result struct {
	Name     string
	Critical bool
	Passed   bool
	Message  string

	// Crashed is set when the probe panicked.
	Crashed  bool
	Duration time.Duration
}

// Report holds results in the order the probes ran.
type Report struct {
	Results []Result

	// StoppedAfter names the critical probe whose failure ended the run early.
	StoppedAfter string
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Total returns the number of probes that ran.
func (r *Report) Total() int {
	return len(r.Results)
}

// Passed returns the number of probes that passed.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// AllPassed reports whether every probe that ran passed.
func (r *Report) AllPassed() bool {
	return r.Passed() == r.Total()
}

// Result returns the recorded result for name.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// Failed reports whether name ran and failed.
func (r *Report) Failed(name string) bool {
	res, ok := r.Result(name)
	return ok && !res.Passed
}

// Ran reports whether name ran at all.
func (r *Report) Ran(name string) bool {
	_, ok := r.Result(name)
	return ok
}
