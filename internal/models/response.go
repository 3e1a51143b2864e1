package models

// APIResponse is the envelope every successful request returns.
type APIResponse struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Success bool        `json:"success"`
}

// APIError is the envelope every failed request returns.
type APIError struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

func NewAPIResponse(status int, data interface{}, message string) *APIResponse {
	if data == nil {
		data = struct{}{}
	}
	return &APIResponse{
		Status:  status,
		Data:    data,
		Message: message,
		Success: status < 400,
	}
}

func NewAPIError(status int, message string, errs []string) *APIError {
	if errs == nil {
		errs = []string{}
	}
	return &APIError{
		Status:  status,
		Message: message,
		Success: false,
		Errors:  errs,
	}
}

// StatusResponse is a bare acknowledgement.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
