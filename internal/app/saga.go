package app

import (
	"context"

	"github.com/sirupsen/logrus"
)

// sagaStep is one forward action with an optional compensating action that
// undoes it.
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. When a step fails, the steps that already
// completed are compensated in reverse order and the step's error is
// returned. Compensation errors are logged only.
func runSaga(ctx context.Context, log *logrus.Entry, steps []sagaStep) error {
	done := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.action(ctx); err != nil {
			log.WithError(err).WithField("step", step.name).Error("saga step failed, compensating")
			compensate(ctx, log, done)
			return err
		}
		done = append(done, step)
	}
	return nil
}

func compensate(ctx context.Context, log *logrus.Entry, done []sagaStep) {
	// Cleanup must run even when the caller has gone away.
	cleanupCtx := context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(cleanupCtx); err != nil {
			log.WithError(err).WithField("step", step.name).Error("compensating action failed")
		}
	}
}
