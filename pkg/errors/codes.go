package errors

type Code string

// The codes the client core actually raises. INVALID_ARGUMENT covers
// malformed credentials and bad call arguments, UNAUTHENTICATED a missing
// session, UNAVAILABLE transport-level API failures, INTERNAL storage faults.
const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)
