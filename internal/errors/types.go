package errors

// standardized error body for operator endpoints
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// error body returned to the webhook producer
type WebhookErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type ErrorInfo struct {
	category  string
	sanitized string
}

func (i ErrorInfo) Category() string {
	return i.category
}

func (i ErrorInfo) Sanitized() string {
	return i.sanitized
}
