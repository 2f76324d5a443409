package errors

var (
	// Domain errors shared across the client core
	ErrInvalidCredential = InvalidArg("auth token is empty or malformed")
	ErrNoCredential      = Unauthorized("no authenticated session")
	ErrConversationID    = InvalidArg("conversation id cannot be empty")
	ErrEmptyMessage      = InvalidArg("message content cannot be empty")
)

func ErrRequestFailed(cause error) error {
	return Wrap(CodeUnavailable, "request to the API failed", cause)
}
