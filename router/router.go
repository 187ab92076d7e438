// Package router turns a parsed invocation into exactly one dispatch and
// decides, from its outcome, how the process continues.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/streamscout/streamscout/choice"
	"github.com/streamscout/streamscout/config"
	"github.com/streamscout/streamscout/dispatch"
	"github.com/streamscout/streamscout/global"
	"github.com/streamscout/streamscout/icon"
	"github.com/streamscout/streamscout/log"
	"github.com/streamscout/streamscout/provider"
)

// FailureMessage is shown for failures that escaped every other handler.
const FailureMessage = "An unexpected error occurred, see the logs for details."

// Lifecycle ends or restarts the process.
type Lifecycle interface {
	Relaunch()
	ForceExit(code int)
}

// Router runs invocations against a registry.
type Router struct {
	Registry   *provider.Registry
	Dispatcher *dispatch.Dispatcher
	Resolver   choice.Resolver
	Lifecycle  Lifecycle
	Runtime    config.Runtime

	// Out receives progress lines and database-only results.
	Out io.Writer
}

// Run routes inv. Configuration errors are returned before anything is
// dispatched; so are failed dispatches when the session is not kept open.
func (r *Router) Run(ctx context.Context, inv Invocation) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("panic while routing %+v: %v\n%s", inv, rec, debug.Stack())
			r.abort()
		}
	}()

	selection, err := Select(r.Registry, inv)
	if err != nil {
		return err
	}

	log.Infof("routing %s invocation", selection.Path)

	return r.conclude(ctx, r.execute(ctx, selection, inv), inv)
}

func (r *Router) execute(ctx context.Context, s Selection, inv Invocation) dispatch.Outcome {
	switch s.Path {
	case Global:
		r.say(inv, icon.Search, "Searching every provider")
		searcher := &global.Searcher{Dispatcher: r.Dispatcher}
		return searcher.Run(ctx, r.Registry.Descriptors(), inv.Search)
	case Interactive:
		if r.Registry.Len() == 0 {
			return dispatch.Outcome{Status: dispatch.Failed, Err: errors.New("no providers available")}
		}

		index, ok, err := r.Resolver.ChooseProvider(ctx, choice.Options(r.Registry.Descriptors()))
		if err != nil {
			return dispatch.Outcome{Status: dispatch.Failed, Err: err}
		}
		if !ok {
			return dispatch.Outcome{Status: dispatch.UserCancelled}
		}

		d, ok := r.Registry.At(index)
		if !ok {
			return dispatch.Outcome{Status: dispatch.Failed, Err: fmt.Errorf("provider %d does not exist", index)}
		}
		s.Descriptor = d
	}

	r.say(inv, icon.Search, "Running %s on %s", s.Path, s.Descriptor.DisplayName)
	return r.Dispatcher.Run(ctx, s.Descriptor, s.Request)
}

// conclude reports the outcome and applies the loop decision.
func (r *Router) conclude(ctx context.Context, out dispatch.Outcome, inv Invocation) error {
	log.Infof("dispatch ended: %s", out.Status)

	if errors.Is(out.Err, dispatch.ErrPanic) {
		log.Error(out.Err)
		r.abort()
		return nil
	}

	switch out.Status {
	case dispatch.UserCancelled:
		r.Resolver.Notify(ctx, choice.CancelMessage)
		// the chat front-end never loops back to the menu after a cancel
		if r.Runtime.KeepOpen && !r.Runtime.AltFrontEnd {
			r.Lifecycle.Relaunch()
		} else {
			r.Lifecycle.ForceExit(0)
		}
		return nil
	case dispatch.DatabaseReturned:
		if inv.JSON {
			if err := json.NewEncoder(r.Out).Encode(out.Results); err != nil {
				return err
			}
		}
	case dispatch.Dispatched:
		r.say(inv, icon.Success, "Sent %s to processing", out.Item.Label())
	case dispatch.Failed:
		log.Error(out.Err)
	}

	if r.Runtime.KeepOpen {
		if out.Status == dispatch.Failed {
			r.say(inv, icon.Fail, "%s", out.Err)
		}
		r.Lifecycle.Relaunch()
		return nil
	}

	if out.Status == dispatch.Failed {
		return out.Err
	}

	return nil
}

// abort reports an unexpected failure and ends the process, kept open or not.
func (r *Router) abort() {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), FailureMessage)
	r.Lifecycle.ForceExit(1)
}

// say prints a progress line. Database-only runs stay quiet so that Out
// carries nothing but the results.
func (r *Router) say(inv Invocation, i icon.Icon, format string, args ...any) {
	if r.Out == nil || inv.JSON {
		return
	}
	_, _ = fmt.Fprintf(r.Out, "%s %s\n", icon.Get(i), fmt.Sprintf(format, args...))
}
