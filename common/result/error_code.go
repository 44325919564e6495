package result

type ErrorCode int

const (
	CodeOK ErrorCode = 0

	CodeGenericError     ErrorCode = 10000
	CodeUnsealedBlock    ErrorCode = 10001
	CodeEmptyBody        ErrorCode = 10002
	CodeMissingStarField ErrorCode = 10003
)
