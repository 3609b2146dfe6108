package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeTooLarge     = "payload_too_large"
	ErrorTypeRateLimited  = "rate_limited"
	ErrorTypeInternal     = "internal_error"
)

// User-facing messages for the public onboarding endpoints. The website is
// German; these are shown verbatim to the end user.
const (
	MsgInvalidRequest   = "Die Anfrage konnte nicht verarbeitet werden. Bitte überprüfen Sie Ihre Angaben."
	MsgMissingSignature = "Die Unterschrift fehlt. Bitte unterschreiben Sie den Vertrag, bevor Sie ihn absenden."
	MsgPayloadTooLarge  = "Die übermittelten Daten sind zu gross. Bitte reduzieren Sie die Grösse der Unterschrift."
	MsgOriginRejected   = "Die Anfrage wurde aus Sicherheitsgründen abgelehnt."
	MsgRateLimited      = "Zu viele Anfragen. Bitte versuchen Sie es in einer Minute erneut."
	MsgInternalError    = "Es ist ein unerwarteter Fehler aufgetreten. Bitte versuchen Sie es später erneut."
	MsgSubmitAccepted   = "Vielen Dank! Ihr unterschriebener Auftrag ist bei uns eingegangen. Sie erhalten in Kürze eine Bestätigung per E-Mail."
)

// ValidationMessages provides human-readable validation error messages
// keyed by validator tag.
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"oneof":    "Must be one of the allowed values",
	"dive":     "Contains an invalid entry",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
