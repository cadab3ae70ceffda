package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// ConnectRequest is the request body for POST /v1/connections.
type ConnectRequest struct {
	Host      string `json:"host" validate:"required"`
	Port      int    `json:"port" validate:"required,min=1,max=65535"`
	TimeoutMS int64  `json:"timeout_ms,omitempty" validate:"gte=0"`
}

// ConnectResponse is the response body for POST /v1/connections.
type ConnectResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// SendRequest is the request body for POST /v1/connections/{id}/send.
type SendRequest struct {
	Payload  string `json:"payload" validate:"required"`
	Encoding string `json:"encoding,omitempty" validate:"omitempty,max=32"`
}

// ResetResponse is the response body for POST /v1/connections/reset.
type ResetResponse struct {
	ClearedCount int    `json:"cleared_count"`
	Message      string `json:"message"`
}

// StatusResponse is the response body for GET /v1/status.
type StatusResponse struct {
	Count       int                  `json:"count"`
	IDs         []string             `json:"ids"`
	Platform    string               `json:"platform"`
	Connections []ConnectionResponse `json:"connections,omitempty"`
}

// ConnectionResponse describes one live connection in verbose status.
type ConnectionResponse struct {
	ID         string     `json:"id"`
	Host       string     `json:"host"`
	Port       int        `json:"port"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSendAt *time.Time `json:"last_send_at,omitempty"`
	BytesSent  int64      `json:"bytes_sent"`
}

// HealthResponse is the response body for GET /health and GET /ready.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Connections int    `json:"connections"`
	Time        string `json:"time"`
}
