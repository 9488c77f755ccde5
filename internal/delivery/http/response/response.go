package response

import "time"

// AnalyzePageResponse is the success payload of POST /api/analyze.
type AnalyzePageResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	AnalysisID   string  `json:"analysisId"`
	OverallScore float64 `json:"overallScore"`
	PageTitle    string  `json:"pageTitle"`
	FactorCount  int     `json:"factorCount"`
}

// CheckoutSessionResponse is the success payload of POST /api/checkout.
type CheckoutSessionResponse struct {
	Success    bool   `json:"success"`
	SessionID  string `json:"sessionId"`
	URL        string `json:"url"`
	CustomerID string `json:"customerId"`
}

// ProgressEventResponse is one checkpoint in a status response.
type ProgressEventResponse struct {
	Stage              string    `json:"stage"`
	ProgressPercent    int       `json:"progress_percent"`
	Message            string    `json:"message"`
	EducationalContent string    `json:"educational_content,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// AnalysisStatusResponse is the payload of GET /api/status.
type AnalysisStatusResponse struct {
	AnalysisID   string                  `json:"analysisId"`
	URL          string                  `json:"url"`
	Status       string                  `json:"status"`
	PageTitle    string                  `json:"pageTitle,omitempty"`
	OverallScore *float64                `json:"overallScore,omitempty"`
	ErrorDetails string                  `json:"errorDetails,omitempty"`
	CompletedAt  *time.Time              `json:"completedAt,omitempty"`
	Progress     []ProgressEventResponse `json:"progress"`
}

// ErrorResponse is the uniform failure payload for every endpoint.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}
