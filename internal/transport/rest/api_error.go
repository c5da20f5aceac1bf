package rest

// Error codes surfaced to API clients. Every non-2xx product response
// carries exactly one of these.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeProductNotFound  = "PRODUCT_NOT_FOUND"
	CodeSkuAlreadyExists = "SKU_ALREADY_EXISTS"
	CodeInternalError    = "INTERNAL_ERROR"
)

// APIError is the error body returned for every failed product request.
// Details lists per-field violation messages and is empty for
// non-validation failures.
type APIError struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Path    string   `json:"path"`
	Details []string `json:"details"`
}

func newAPIError(status int, code, message, path string, details []string) APIError {
	if details == nil {
		details = []string{}
	}
	return APIError{
		Status:  status,
		Code:    code,
		Message: message,
		Path:    path,
		Details: details,
	}
}
