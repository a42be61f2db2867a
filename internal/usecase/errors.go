package usecase

// Error codes surfaced to clients.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeDuplicatePaid     = "DUPLICATE_PAID_LEAD"
	CodeDuplicateUnpaid   = "DUPLICATE_UNPAID_LEAD"
	CodeSignatureMismatch = "SIGNATURE_MISMATCH"
	CodeNotCaptured       = "PAYMENT_NOT_CAPTURED"
	CodeCaptureFailed     = "CAPTURE_FAILED"
	CodeGateway           = "GATEWAY_ERROR"
	CodeDatabase          = "DATABASE_ERROR"
	CodeStorage           = "STORAGE_ERROR"
	CodeConfig            = "CONFIG_ERROR"
	CodeNotFound          = "NOT_FOUND"
)

// DomainError is expected, user-facing, and carries an actionable message.
type DomainError struct {
	Code    string
	Message string

	// Fields is set for VALIDATION_ERROR: every violated field, not just the first.
	Fields []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError is logged in full server-side and surfaced to the client
// only as a generic message plus the code.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
