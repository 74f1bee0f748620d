package pgcall

import "context"

// Operation is a named, registered unit of work invocable through the
// Dispatcher. Implementations must be safe for concurrent use; Invoke
// receives arguments already validated against Args.
type Operation interface {
	// Name returns the unique registration name.
	Name() string

	// Args declares the expected argument signature, in order.
	// The dispatcher validates arity and kinds against this before Invoke.
	Args() []ArgSpec

	// Invoke executes the operation with validated arguments.
	Invoke(ctx context.Context, args []Value) (Value, error)
}

// Registry maps operation names to handlers. Registration happens once at
// startup, before any dispatch; Resolve is read-only and safe to call
// concurrently from multiple dispatch contexts.
type Registry interface {
	// Register adds an operation. Registering a name a second time
	// returns ErrDuplicateName and leaves the registry unchanged.
	Register(op Operation) error

	// Resolve looks up an operation by name. The boolean is false when the
	// name is not registered; callers treat that as a first-class miss,
	// never as a default handler.
	Resolve(name string) (Operation, bool)

	// Operations returns all registered operations, sorted by name.
	Operations() []Operation
}

// Dispatcher executes call requests: resolve the operation, validate
// arguments, invoke the handler, and convert every failure into a
// structured CallResult. Dispatch never lets a fault escape and never
// retries.
type Dispatcher interface {
	Dispatch(ctx context.Context, req CallRequest) CallResult
}
