// Package lifecycle decides how the process ends: by draining background
// workers and exiting, or by replacing itself with a fresh copy.
package lifecycle

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/streamscout/streamscout/log"
)

// DefaultJoinTimeout is used when the controller is created with a non-positive timeout.
const DefaultJoinTimeout = 500 * time.Millisecond

// Scheduler is a running cooperative loop that can be asked to stop.
type Scheduler interface {
	Quit()
}

type worker struct {
	name string
	done chan struct{}
}

// Controller tracks background workers, the attached scheduler and exit hooks.
type Controller struct {
	joinTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	workers   []*worker
	scheduler Scheduler
	hooks     []func()
	drained   bool

	exit     func(code int)
	relaunch func() (int, error)
}

// New returns a controller whose workers are joined for at most joinTimeout each.
func New(joinTimeout time.Duration) *Controller {
	if joinTimeout <= 0 {
		joinTimeout = DefaultJoinTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		joinTimeout: joinTimeout,
		ctx:         ctx,
		cancel:      cancel,
		exit:        os.Exit,
		relaunch:    replaceSelf,
	}
}

// Context is cancelled when the controller starts draining.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Go runs fn in a tracked goroutine. fn must return once its context is done.
func (c *Controller) Go(name string, fn func(ctx context.Context)) {
	w := &worker{name: name, done: make(chan struct{})}

	c.mu.Lock()
	c.workers = append(c.workers, w)
	c.mu.Unlock()

	go func() {
		defer close(w.done)
		defer func() {
			if r := recover(); r != nil {
				log.WithField("worker", name).Errorf("panic: %v", r)
			}
		}()

		fn(c.ctx)
	}()
}

// Attach registers s as the running scheduler. The returned function
// detaches it again and is safe to call more than once.
func (c *Controller) Attach(s Scheduler) (release func()) {
	c.mu.Lock()
	c.scheduler = s
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.scheduler == s {
			c.scheduler = nil
		}
	}
}

// OnExit registers a cleanup hook. Hooks run last-registered first.
func (c *Controller) OnExit(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Shutdown stops workers and the scheduler and runs the exit hooks without
// terminating the process. Only the first call has any effect.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.drained {
		c.mu.Unlock()
		return
	}
	c.drained = true
	workers := c.workers
	scheduler := c.scheduler
	hooks := c.hooks
	c.mu.Unlock()

	c.cancel()

	for _, w := range workers {
		select {
		case <-w.done:
		case <-time.After(c.joinTimeout):
			log.WithField("worker", w.name).Warnf("did not stop within %s", c.joinTimeout)
		}
	}

	if scheduler != nil {
		scheduler.Quit()
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// ForceExit drains the controller and exits with code immediately.
func (c *Controller) ForceExit(code int) {
	log.Infof("exiting with code %d", code)
	c.Shutdown()
	c.exit(code)
}

// Relaunch drains the controller and replaces the process with a fresh
// instance started with the same arguments. On platforms that cannot replace
// the process image the child is waited for and its exit code is propagated.
func (c *Controller) Relaunch() {
	log.Info("relaunching")
	c.Shutdown()

	code, err := c.relaunch()
	if err != nil {
		log.Errorf("relaunch failed: %s", err)
		c.exit(1)
		return
	}

	c.exit(code)
}
