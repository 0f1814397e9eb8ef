package protocol

// ErrorKind is the numeric error-code space clients match on. The values
// are part of the wire contract and must never be renumbered.
type ErrorKind int

const (
	ErrUnexpectedCompilerError ErrorKind = 101
	ErrAnalyzerInitializing    ErrorKind = 102
	ErrBuildingProject         ErrorKind = 103
	ErrBuildComplete           ErrorKind = 104
	ErrMisc                    ErrorKind = 105

	ErrDebuggerException ErrorKind = 200
	ErrRPCException       ErrorKind = 201
	ErrMalformedRPC        ErrorKind = 202
	ErrUnrecognizedForm    ErrorKind = 203
	ErrUnrecognizedRPC     ErrorKind = 204
	ErrBuilderException    ErrorKind = 205
	ErrPeekUndoFailed       ErrorKind = 206
	ErrExecUndoFailed       ErrorKind = 207
	ErrFormatFailed         ErrorKind = 208
	ErrAnalyzerNotReady     ErrorKind = 209
	ErrAnalyzerException    ErrorKind = 210
	ErrFileNotFound         ErrorKind = 211
	ErrIndexerException     ErrorKind = 212
)

// AbortError carries a numeric kind and detail text. It holds no call-id
// of its own: the router adds the failing request's call-id when it
// writes the abort reply.
type AbortError struct {
	Kind   ErrorKind
	Detail string
}

func (e *AbortError) Error() string { return e.Detail }

func Abort(kind ErrorKind, detail string) *AbortError {
	return &AbortError{Kind: kind, Detail: detail}
}
