package models

// Domain-level response codes carried in the JSON body. They are independent
// of the HTTP status line.
const (
	CodeSuccess          = 200
	CodeNotAuthenticated = 301
	CodeBadRequest       = 400
	CodeInternalError    = 500
)

// Response messages paired with the codes above.
const (
	MessageSuccess          = "success"
	MessageNotAuthenticated = "you are not authenticated"
	MessageBadRequest       = "bad request"
	MessageInternalError    = "An internal server error occurred"
)

// Response is the envelope returned by every write endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is returned after a successful write.
func SuccessResponse() Response {
	return Response{Code: CodeSuccess, Message: MessageSuccess}
}

// NotAuthenticatedResponse is returned when the token is missing or rejected,
// and also when an edit targets an unknown post.
func NotAuthenticatedResponse() Response {
	return Response{Code: CodeNotAuthenticated, Message: MessageNotAuthenticated}
}

// InternalErrorResponse is returned when an upload or store call fails.
func InternalErrorResponse() Response {
	return Response{Code: CodeInternalError, Message: MessageInternalError}
}
