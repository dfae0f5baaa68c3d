package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is the pre-built mapping of sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Locking
	// ===================
	{
		err: ErrWouldBlock,
		info: ErrorInfo{
			Message: "The file is locked by another holder.",
			Action:  "Wait for the other holder to release it, or use 'flockctl wait' to poll.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for the file lock.",
			Action:  "Increase --timeout or check which process holds the lock.",
		},
	},
	{
		err: ErrLockReleased,
		info: ErrorInfo{
			Message: "The lock was already released.",
		},
	},
	{
		err: ErrOSError,
		info: ErrorInfo{
			Message: "The operating system rejected the lock request.",
			Action:  "Check that the file is open with read/write access and the filesystem supports locking.",
		},
	},
	{
		err: ErrUnsupportedPlatform,
		info: ErrorInfo{
			Message: "File locking is not supported on this platform.",
		},
	},
	{
		err: ErrInvalidMode,
		info: ErrorInfo{
			Message: "Unknown lock mode.",
			Action:  "Use 'exclusive' or 'shared'.",
		},
	},

	// ===================
	// Dispatch
	// ===================
	{
		err: ErrWorkerFault,
		info: ErrorInfo{
			Message: "A worker failed while running the lock call.",
			Action:  "Re-run with --verbose and report the logged stack trace.",
		},
	},
	{
		err: ErrShimClosed,
		info: ErrorInfo{
			Message: "The dispatch pool has been shut down.",
		},
	},
	{
		err: ErrUnknownShim,
		info: ErrorInfo{
			Message: "Unknown dispatch strategy.",
			Action:  "Use one of 'goroutine', 'errgroup' or 'workers'.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is missing.",
		},
	},
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Check the --config path.",
		},
	},
	{
		err: ErrConfigInvalidPool,
		info: ErrorInfo{
			Message: "Invalid dispatch pool configuration.",
			Action:  "Check the pool section of your config or FLOCK_POOL_* variables.",
		},
	},
	{
		err: ErrConfigInvalidRetry,
		info: ErrorInfo{
			Message: "Invalid retry configuration.",
			Action:  "Check the retry section of your config or FLOCK_RETRY_* variables.",
		},
	},
	{
		err: ErrConfigInvalidLog,
		info: ErrorInfo{
			Message: "Invalid log configuration.",
			Action:  "Check the log section of your config or FLOCK_LOG_* variables.",
		},
	},

	// ===================
	// Input
	// ===================
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use one of 'text', 'json' or 'yaml'.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was empty.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
// Built once from errorInfoEntries during package initialization.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

// buildErrorInfoMap creates a map from the errorInfoEntries slice.
func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries O(1) direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
