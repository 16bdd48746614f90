package reactive

import (
	"fmt"

	"github.com/vango-dev/tether/internal/errors"
)

// Warn reports a development warning. Warnings are dropped when the runtime
// is silent.
func (rt *Runtime) Warn(d *Diagnostic, owner *Owner) {
	if d == nil || rt.silent {
		return
	}
	if owner != nil && d.Trace == "" {
		d.WithTrace(owner.Trace())
	}
	rt.metrics.Warned(d.Code)
	if rt.warnHandler != nil {
		rt.warnHandler(d, owner)
		return
	}
	rt.logger.Warn(d.Message, "code", d.Code, "subject", d.Subject, "trace", d.Trace)
}

// HandleError routes err through the errorCaptured hooks of owner's
// ancestors, nearest first. A hook returning false stops propagation.
// Otherwise err reaches the global handler, or the log.
func (rt *Runtime) HandleError(err error, owner *Owner, info string) {
	if err == nil {
		return
	}
	rt.metrics.ErrorHandled(info)
	if owner != nil {
		for cur := owner.parent; cur != nil; cur = cur.parent {
			for _, hook := range cur.errorCaptured {
				propagate, hookErr := callCaptured(hook, err, owner, info)
				if hookErr != nil {
					rt.globalHandleError(hookErr, cur, "errorCaptured hook")
					continue
				}
				if !propagate {
					return
				}
			}
		}
	}
	rt.globalHandleError(err, owner, info)
}

func callCaptured(hook ErrorCapturedHook, err error, origin *Owner, info string) (propagate bool, hookErr error) {
	defer func() {
		if r := recover(); r != nil {
			hookErr = panicError(errors.CodeErrorHandler, r)
		}
	}()
	return hook(err, origin, info), nil
}

func (rt *Runtime) globalHandleError(err error, owner *Owner, info string) {
	if rt.errorHandler != nil {
		handlerErr := func() (out error) {
			defer func() {
				if r := recover(); r != nil {
					out = panicError(errors.CodeErrorHandler, r)
				}
			}()
			rt.errorHandler(err, owner, info)
			return nil
		}()
		if handlerErr == nil {
			return
		}
		rt.logError(handlerErr, nil, "config.errorHandler")
	}
	rt.logError(err, owner, info)
}

func (rt *Runtime) logError(err error, owner *Owner, info string) {
	attrs := []any{"info", info, "error", err}
	if owner != nil {
		attrs = append(attrs, "trace", owner.Trace())
	}
	var te *errors.Error
	if errors.As(err, &te) {
		attrs = append(attrs, "code", te.Code)
	}
	rt.logger.Error("reactive error", attrs...)
}

// invoke runs fn, converting a panic into an error. The recovered value is
// kept as the cause when it is an error.
func invoke(code string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(code, r)
		}
	}()
	return fn()
}

// Guard runs fn and routes any returned error or panic through
// HandleError. It reports whether fn succeeded.
func (rt *Runtime) Guard(owner *Owner, info string, fn func() error) bool {
	if err := invoke(errors.CodeLifecycleHook, fn); err != nil {
		rt.HandleError(err, owner, info)
		return false
	}
	return true
}

func panicError(code string, r any) error {
	if err, ok := r.(error); ok {
		return errors.New(code).Wrap(err).WithDetail("recovered panic")
	}
	return errors.New(code).WithDetail(fmt.Sprintf("recovered panic: %v", r))
}
