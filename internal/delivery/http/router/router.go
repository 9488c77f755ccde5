package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/aimpact-scanner/internal/delivery/http/handler"
	"github.com/user/aimpact-scanner/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/analyze", h.HandleAnalyzePage)
	mux.HandleFunc("POST /api/checkout", h.HandleCreateCheckout)
	mux.HandleFunc("GET /api/status", h.HandleGetAnalysisStatus)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares. CORS is outermost so preflight requests never
	// reach the mux.
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)
	chainedHandler = middleware.CORS(chainedHandler)

	return chainedHandler
}
