package schemas

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
