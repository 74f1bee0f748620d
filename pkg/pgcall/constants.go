package pgcall

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Call completed successfully
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration or setting value
	ExitConnectionError    = 11 // Failed to connect to the relational store
	ExitUnknownOperation   = 12 // Call named an operation that is not registered
	ExitInvalidArgument    = 13 // Call arguments failed validation
	ExitExecFailed         = 14 // The store rejected or failed the submitted query
	ExitUnexpectedRowCount = 15 // Query result had an unexpected row/column shape
	ExitExecutionFailed    = 16 // Operation handler failed during execution
)

const (
	// SettingRepeat is the name of the greeting repeat-count setting.
	SettingRepeat = "repeat"

	// DefaultRepeat is the initial value of the repeat setting.
	DefaultRepeat = 1

	// MinRepeat is the lowest accepted value of the repeat setting.
	MinRepeat = 1

	// MaxRepeat is the highest accepted value of the repeat setting.
	MaxRepeat = 10
)

const (
	// NullLiteral is the textual marker the query_proxy operation returns
	// for a NULL scalar cell. Using an explicit marker keeps NULL from
	// aliasing a genuinely empty string result.
	NullLiteral = "NULL"

	// DefaultConnectAttempts is the number of connection attempts made per
	// call when the caller has not asked for retries. A single attempt
	// preserves the fail-fast contract of the relational client.
	DefaultConnectAttempts = 1

	// DefaultRetryInitialDelay is the default initial delay before the first
	// connection retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connection
	// retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// MaxQueryPreviewLength is the maximum number of characters of query
	// text included in error messages. This prevents overwhelming the
	// console when a large statement fails.
	MaxQueryPreviewLength = 200
)
