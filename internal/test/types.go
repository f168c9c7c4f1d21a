package test

// TestMessageRequest represents a test message request
type TestMessageRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID int64  `json:"user_id"`
	Skill  string `json:"skill"`
}

// TestMessageResponse represents a test message response
type TestMessageResponse struct {
	Success  bool     `json:"success"`
	Skill    string   `json:"skill,omitempty"`
	Reply    string   `json:"reply,omitempty"`
	Chunks   int      `json:"chunks,omitempty"`
	Fallback bool     `json:"fallback"`
	Text     string   `json:"text"`
	UserID   int64    `json:"user_id"`
	History  []string `json:"history,omitempty"`
	Error    string   `json:"error,omitempty"`
	Details  string   `json:"details,omitempty"`
}

// HealthCheckResponse represents a health check response
type HealthCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// defaultTestUserID is used when a request carries no user_id.
const defaultTestUserID = 999999999
