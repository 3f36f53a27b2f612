package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

// Probe is one self-contained diagnostic check.
type Probe struct {
	Name string

	// Critical probes end the run when they fail.
	Critical bool

	Run func(ctx context.Context, s *State) Outcome
}

// Probe names, in run order.
const (
	ProbeEnvironment  = "Environment Loading"
	ProbeTokenRefresh = "Token Refresh"
	ProbeDriveService = "Drive Service"
	ProbeBasicOps     = "Basic Operations"
	ProbeRootFolder   = "Root Folder Access"
	ProbeFolderOps    = "Folder Operations"
)

// DefaultProbes returns the standard run. skipFolderOps leaves out the only
// probe that writes to Drive.
func DefaultProbes(skipFolderOps bool) []Probe {
	probes := []Probe{
		{Name: ProbeEnvironment, Critical: true, Run: probeEnvironment},
		{Name: ProbeTokenRefresh, Critical: true, Run: probeTokenRefresh},
		{Name: ProbeDriveService, Critical: true, Run: probeDriveService},
		{Name: ProbeBasicOps, Run: probeBasicOperations},
		{Name: ProbeRootFolder, Run: probeRootFolder},
	}
	if !skipFolderOps {
		probes = append(probes, Probe{Name: ProbeFolderOps, Run: probeFolderOperations})
	}
	return probes
}

// Run executes probes in order against s and returns their results. It stops
// after the first failed critical probe. A panicking probe is recorded as a
// failure.
func Run(ctx context.Context, s *State, probes []Probe) *Report {
	if s.Console == nil {
		s.Console = NewConsole(io.Discard, true)
	}

	c := s.Console
	c.Line(IconSuite, "Google Drive Credentials Test Suite")
	c.Rule()

	report := &Report{}
	for _, p := range probes {
		res := runProbe(ctx, s, p)
		report.add(res)

		if !res.Passed && p.Critical {
			c.Blank()
			c.Line(IconFail, "Critical test '%s' failed. Stopping further tests.", p.Name)
			report.StoppedAfter = p.Name
			break
		}
	}
	return report
}

func runProbe(ctx context.Context, s *State, p Probe) (res Result) {
	logger := logging.WithProbe(s.logger(), p.Name)

	attrs := instrumentation.NewSpanAttributeBuilder().
		WithProbe(p.Name).
		WithCritical(p.Critical).
		WithRunID(s.RunID).
		Build()
	ctx, span := instrumentation.StartProbeSpan(ctx, p.Name, attrs...)
	defer span.End()

	start := time.Now()
	res = Result{Name: p.Name, Critical: p.Critical}

	defer func() {
		if r := recover(); r != nil {
			res.Passed = false
			res.Crashed = true
			res.Message = fmt.Sprintf("Test '%s' crashed: %v", p.Name, r)
			s.Console.Line(IconCrash, "%s", res.Message)
		}
		res.Duration = time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case res.Crashed:
			status = instrumentation.StatusCrashed
		case !res.Passed:
			status = instrumentation.StatusError
		}
		s.Metrics.RecordProbe(ctx, p.Name, status, res.Duration)

		if res.Passed {
			instrumentation.SetSpanSuccess(span)
			logger.Debug("probe passed", logging.Status(status), "duration", res.Duration)
		} else {
			instrumentation.SetSpanError(span, errors.New(res.Message))
			logger.Warn("probe failed", logging.Status(status), "message", res.Message, "duration", res.Duration,
				"trace_id", instrumentation.GetTraceID(ctx))
		}
	}()

	out := p.Run(ctx, s)
	res.Passed = out.Passed
	res.Message = out.Message
	return res
}
