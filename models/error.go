package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError `json:"response"`
}

// MessageError contains the inner details for the error message response.
// Fields lists the form fields that failed validation, if any.
type MessageError struct {
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}
