// Package retry provides retry logic with exponential backoff for
// transient failures while establishing store connections.
//
// The core call path never retries: the relational client makes exactly
// one connection attempt per call. Retry is opt-in for the embedding
// caller (the CLI wires it behind --connect-retries) and applies to
// connection establishment only, never to statement execution.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return openPool(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface decides which errors are transient
// (retryable) versus fatal. PostgreSQLErrorClassifier recognizes the
// transient PostgreSQL error classes (connection exceptions, resource
// exhaustion, operator intervention) plus common network failures.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. WithOnRetry() returns an
// independent configured copy rather than mutating the receiver.
package retry
