package scenario

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

// Status is the outcome of one scenario
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result records how a scenario ended
type Result struct {
	Name     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Report holds the results of a run in scenario order
type Report struct {
	Results []Result
	// Fatal is set when an environment error aborted the run.
	Fatal error
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether nothing failed and the run was not aborted.
func (r *Report) OK() bool {
	return r.Fatal == nil && r.Count(StatusFailed) == 0
}

// Runner executes scenarios one after another against a shared session.
type Runner struct {
	Session  Session
	BaseURL  string
	Timeout  time.Duration // explicit wait bound
	Log      zerolog.Logger
	Recorder Recorder       // optional
	Filter   *regexp.Regexp // optional; scenarios whose name does not match are skipped
}

// Run executes every scenario in order. A failing scenario never stops the
// run; an environment error skips everything after it.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *Report {
	report := &Report{}

	for _, sc := range scenarios {
		log := r.Log.With().Str("scenario", sc.Name).Logger()

		switch {
		case report.Fatal != nil:
			report.Results = append(report.Results, Result{Name: sc.Name, Status: StatusSkipped, Err: report.Fatal})
			continue
		case ctx.Err() != nil:
			report.Results = append(report.Results, Result{Name: sc.Name, Status: StatusSkipped, Err: ctx.Err()})
			continue
		case r.Filter != nil && !r.Filter.MatchString(sc.Name):
			log.Debug().Msg("filtered out")
			report.Results = append(report.Results, Result{Name: sc.Name, Status: StatusSkipped})
			continue
		}

		log.Info().Str("description", sc.Description).Msg("running")
		start := time.Now()
		err := r.runOne(sc, log)
		res := Result{Name: sc.Name, Status: StatusPassed, Duration: time.Since(start)}

		switch {
		case err != nil && ctx.Err() != nil:
			// an interrupted run is not a site or browser failure
			res.Status = StatusSkipped
			res.Err = fmt.Errorf("interrupted: %w", context.Cause(ctx))
			log.Warn().Err(err).Dur("duration", res.Duration).Msg("interrupted")
		case err != nil:
			res.Status = StatusFailed
			res.Err = err

			var envErr *EnvironmentError
			if !errors.As(err, &envErr) && !r.Session.Alive() {
				envErr = &EnvironmentError{Err: fmt.Errorf("browser session lost: %w", err)}
				res.Err = envErr
			}
			if envErr != nil {
				report.Fatal = envErr
			}
			log.Error().Err(res.Err).Dur("duration", res.Duration).Msg("failed")
		default:
			log.Info().Dur("duration", res.Duration).Msg("passed")
		}
		report.Results = append(report.Results, res)
	}

	r.Log.Info().
		Int("passed", report.Count(StatusPassed)).
		Int("failed", report.Count(StatusFailed)).
		Int("skipped", report.Count(StatusSkipped)).
		Msg("run finished")

	return report
}

func (r *Runner) runOne(sc Scenario, log zerolog.Logger) (err error) {
	t := &T{
		session:  r.Session,
		baseURL:  r.BaseURL,
		timeout:  r.Timeout,
		log:      log,
		recorder: r.Recorder,
	}

	if r.Recorder != nil {
		r.Recorder.Begin(sc.Name)
		defer func() {
			if recErr := r.Recorder.End(sc.Name); recErr != nil {
				log.Warn().Err(recErr).Msg("failed to write recording")
			}
		}()
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario panicked: %v", p)
		}
		if cleanupErr := t.runCleanups(); cleanupErr != nil && err == nil {
			err = fmt.Errorf("cleanup failed: %w", cleanupErr)
		}
	}()

	// every scenario starts from the base page
	if err := t.Visit(r.BaseURL); err != nil {
		return &EnvironmentError{Err: fmt.Errorf("base page unreachable: %w", err)}
	}

	return sc.Run(t)
}
