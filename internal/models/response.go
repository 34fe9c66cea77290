package models

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, Code: code}
}

// AuthResponse is returned by the register and login endpoints.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Task  `json:"data,omitempty"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Data    []Task `json:"data"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIInfo describes the service on the root endpoint.
type APIInfo struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}
