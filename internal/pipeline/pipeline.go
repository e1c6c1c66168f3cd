package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/crimetrends/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the build
// as left by the previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the build to modify.
	Do(ctx context.Context, build *model.Build) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// now returns the current time. Replaced in tests.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline and the steps built
// by DefaultPipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and stops at the first error.
// The error is recorded on the build and returned. FinishedAt is set
// whether or not the build succeeded.
func (p *Pipeline) Execute(ctx context.Context, build *model.Build) error {
	defer func() {
		build.FinishedAt = p.now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"build", build.ID,
				"reason", ctx.Err(),
			)
			p.fail(build, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"build", build.ID,
		)

		start := p.now()
		if err := step.Do(ctx, build); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"build", build.ID,
				"error", err,
			)
			p.fail(build, err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"build", build.ID,
			"elapsed", p.now().Sub(start).Round(time.Millisecond),
		)
		build.PerformedSteps = append(build.PerformedSteps, step.Name())
	}

	return nil
}

func (p *Pipeline) fail(build *model.Build, err error) {
	build.Error = err
	build.ErrorMessage = err.Error()
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
