// Package dispatch implements the call dispatcher: resolve the operation,
// validate arguments, invoke the handler, and classify every failure into
// a structured result. A fault never escapes Dispatch.
package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

// Dispatcher executes call requests against a registry.
//
// Thread-Safety: safe for concurrent use; all state is read-only after
// construction.
type Dispatcher struct {
	registry pgcall.Registry
	logger   pgcall.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
// Panics if registry or logger is nil.
func NewDispatcher(registry pgcall.Registry, logger pgcall.Logger) *Dispatcher {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch runs one call to completion and returns a structured result.
// Handler errors keep their taxonomy sentinel when they carry one;
// anything else, including a recovered panic, is an execution failure.
// Dispatch never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, req pgcall.CallRequest) (result pgcall.CallResult) {
	callID := uuid.New()
	d.logger.Verbose("call %s: received operation %q", callID, req.Operation)

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("call %s: panic in operation %q: %v", callID, req.Operation, r)
			result = pgcall.ErrResult(fmt.Errorf("%w: panic in operation %q: %v",
				pgcall.ErrExecutionFailed, req.Operation, r))
		}
	}()

	op, ok := d.registry.Resolve(req.Operation)
	if !ok {
		d.logger.Verbose("call %s: no such operation", callID)
		return pgcall.ErrResult(fmt.Errorf("%w: %q", pgcall.ErrUnknownOperation, req.Operation))
	}
	d.logger.Verbose("call %s: resolved", callID)

	if err := validateArgs(op, req.Args); err != nil {
		d.logger.Verbose("call %s: rejected: %v", callID, err)
		return pgcall.ErrResult(err)
	}

	d.logger.Verbose("call %s: executing", callID)

	value, err := op.Invoke(ctx, req.Args)
	if err != nil {
		d.logger.Verbose("call %s: failed: %v", callID, err)
		return pgcall.ErrResult(err)
	}

	d.logger.Verbose("call %s: completed", callID)
	return pgcall.OkResult(value)
}

// validateArgs checks arity and value kinds against the operation's
// declared signature. Validation happens before execution, so a rejected
// call has no side effects.
func validateArgs(op pgcall.Operation, args []pgcall.Value) error {
	specs := op.Args()

	if len(args) != len(specs) {
		return fmt.Errorf("%w: operation %q takes %d argument(s), got %d",
			pgcall.ErrInvalidArgument, op.Name(), len(specs), len(args))
	}

	for i, spec := range specs {
		if args[i].Kind != spec.Kind {
			return fmt.Errorf("%w: argument %q of operation %q must be %s, got %s",
				pgcall.ErrInvalidArgument, spec.Name, op.Name(), spec.Kind, args[i].Kind)
		}
	}

	return nil
}

var _ pgcall.Dispatcher = (*Dispatcher)(nil)
