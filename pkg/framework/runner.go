package framework

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// NameOf returns the name of a Named Runnable, otherwise "#index".
func NameOf(runnable Runnable, index int) string {
	if named, ok := runnable.(Named); ok {
		return named.Name()
	}
	return "#" + strconv.Itoa(index)
}

// Runner runs endpoints in background. When one of them fails,
// all others are stopped.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	count  int
	doneCh chan *RunnerError
	exitCh chan struct{}
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner stopped when ctx is done.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		doneCh: make(chan *RunnerError),
		exitCh: make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	return r
}

// Context is passed to all Runnables and canceled on Stop.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// HandleSignals stops on CtrlC or SIGTERM. Wait returns ErrForcedExit
// on the second signal without waiting for Runnables.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v received, stopping", sig)
		r.Stop()
		sig = <-sigCh
		glog.Errorf("%v received again, exit", sig)
		close(r.exitCh)
	}()
	return r
}

// Go starts Runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := NameOf(runnable, r.count)
		r.count++
		go r.run(name, runnable)
	}
	return r
}

func (r *Runner) run(name string, runnable Runnable) {
	glog.V(4).Infof("Runner[%s] started", name)
	err := runnable.Run(r.ctx)
	if err == context.Canceled {
		err = nil
	}
	if err != nil {
		glog.Errorf("Runner[%s] failed: %v", name, err)
		r.Stop()
	} else {
		glog.V(4).Infof("Runner[%s] stopped", name)
	}
	r.doneCh <- &RunnerError{Name: name, Err: err}
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop. The returned AggregatedError
// names the failed ones.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for n := 0; n < r.count; n++ {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case res := <-r.doneCh:
			errs.Add(res.Name, res.Err)
		}
	}
	return errs.Aggregate()
}

// RunWithContextCloser runs fn which blocks on closer until it returns
// or ctx is done. closer is closed either way. When ctx is done,
// context.Canceled is returned after fn returns.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		closer.Close()
		return err
	case <-ctx.Done():
		closer.Close()
		<-errCh
		return context.Canceled
	}
}
