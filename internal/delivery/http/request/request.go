package request

// AnalyzePageRequest is the body of POST /api/analyze. The field names
// are the wire contract with the frontend.
type AnalyzePageRequest struct {
	URL        string `json:"url"`
	UserID     string `json:"userId"`
	AnalysisID string `json:"analysisId"`
}

// CreateCheckoutRequest is the body of POST /api/checkout. SuccessURL and
// CancelURL are optional; the server falls back to configured defaults.
type CreateCheckoutRequest struct {
	PriceID    string `json:"priceId"`
	UserID     string `json:"userId"`
	Tier       string `json:"tier"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}
