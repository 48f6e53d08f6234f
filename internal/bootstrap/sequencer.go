package bootstrap

import (
	"context"
	"time"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/state"
)

// Step is one stage of the pipeline. A step that returns an error stops the
// run; advisory problems are logged by the step itself.
type Step struct {
	Name string
	Run  func(ctx context.Context, e *Env, rec *state.Record) error
}

// DefaultSteps returns the pipeline in execution order.
func DefaultSteps() []Step {
	return []Step{
		{Name: "deps", Run: checkDependencies},
		{Name: "poetry", Run: ensurePoetry},
		{Name: "manifest", Run: ensureManifest},
		{Name: "configure", Run: configureManifest},
		{Name: "dependencies", Run: installDependencies},
		{Name: "activate", Run: activateVirtualenv},
		{Name: "hooks", Run: installHooks},
	}
}

// Sequencer runs steps in order and stops at the first failure.
type Sequencer struct {
	Env   *Env
	Steps []Step
}

// Run executes the pipeline with the default steps.
func Run(ctx context.Context, env *Env) error {
	return (&Sequencer{Env: env, Steps: DefaultSteps()}).Run(ctx)
}

// Run executes every step. Failures are logged here, with the stack captured
// where the error was raised, and come back as the *errors.ExitError from
// Session.SafeExit. The CLI layer must not print them again.
func (s *Sequencer) Run(ctx context.Context) error {
	e := s.Env
	e.fill()

	rec := state.NewRecord(e.Version, e.Now())
	for _, step := range s.Steps {
		start := e.Now()
		e.Logger.Debugf("step %s: start", step.Name)
		if err := step.Run(ctx, e, rec); err != nil {
			return s.fail(step.Name, err)
		}
		e.Logger.Debugf("step %s: done in %s", step.Name, e.Now().Sub(start).Round(time.Millisecond))
	}

	rec.CompletedAt = e.Now()
	if err := state.Update(state.PathFor(e.ProjectDir), rec); err != nil {
		e.Logger.Warnf("could not record run: %v", err)
	}
	if err := e.Session.Flush(); err != nil {
		return s.fail("activate", err)
	}
	e.Logger.Infof("development environment ready")
	return nil
}

func (s *Sequencer) fail(step string, err error) error {
	e := s.Env
	code := clierrors.ExitCode(err)

	if clierrors.IsCancelled(err) {
		e.Logger.Warnf("cancelled: %s", err)
	} else {
		e.Logger.Errorf("stacktrace:")
		for _, f := range clierrors.FramesOf(err) {
			e.Logger.Errorf("  at %s", f)
		}
		e.Logger.Errorf("step %s failed: %s", step, err)
	}

	// Keep whatever reached the caller's shell before the failure, such as
	// the Poetry PATH export.
	if flushErr := e.Session.Flush(); flushErr != nil {
		e.Logger.Warnf("%v", flushErr)
	}
	return e.Session.SafeExit(code, err)
}
