// Package supervisor runs long-lived tasks side by side and reports whichever
// finishes first.
package supervisor

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrTaskStopped is reported for a task that returned without an error.
var ErrTaskStopped = errors.New("task stopped")

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outcome is how the first finished task ended.
type Outcome struct {
	Task string
	Err  error
}

func (o Outcome) Error() string {
	return fmt.Sprintf("%s: %v", o.Task, o.Err)
}

func (o Outcome) Unwrap() error {
	return o.Err
}

// Run starts every task and returns as soon as one of them returns. The
// context passed to the tasks is cancelled at that point; the remaining tasks
// are not waited for. The result is always an Outcome.
func Run(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return Outcome{Task: "supervisor", Err: errors.New("no tasks")}
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan Outcome, len(tasks))

	for _, t := range tasks {
		g.Go(func() error {
			log.Infof("%s started", t.Name)
			err := t.Run(gctx)
			if err == nil {
				err = ErrTaskStopped
			}
			done <- Outcome{Task: t.Name, Err: err}
			return err
		})
	}

	first := <-done
	log.Warnf("%s finished first: %v", first.Task, first.Err)
	return first
}
