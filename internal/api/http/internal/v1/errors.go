package v1

// Messages returned to the landing page. The page shows them verbatim.
const (
	FieldsRequiredMessage       = "name, email and phone are required"
	InvalidFieldsMessage        = "Some fields are invalid"
	VerificationFailedMessage   = "reCAPTCHA verification failed"
	AlreadyRegisteredMessage    = "This email is already registered"
	ServerErrorMessage          = "Server error"
	SignupSuccessfulMessage     = "Signup successful"
	validationErrorFieldMessage = "This field is required"
)

type MessageResponse struct {
	Message string `json:"message"`
} // @name MessageResponse

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"validation_errors,omitempty"`
} // @name ValidationErrorResponse

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}
