package response

// Body is the JSON envelope used by middleware and error paths that do not go
// through a handler's own response type.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) Body {
	return Body{Code: "SUCCESS", Message: message, Data: data}
}

func Error(code, message string, data any) Body {
	return Body{Code: code, Message: message, Data: data}
}
