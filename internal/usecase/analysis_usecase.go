package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
	"github.com/user/aimpact-scanner/pkg/metrics"
	"github.com/user/aimpact-scanner/pkg/utils"
)

var (
	// ErrAnalysisInFlight is returned when the same user+URL pair already
	// has a run in progress.
	ErrAnalysisInFlight = errors.New("an analysis for this URL is already in flight")
)

// Slack added to the navigation timeout for the in-flight guard TTL so a
// crashed run cannot hold the guard much longer than a live one.
const inflightGuardSlack = 30 * time.Second

// The fixed progress schedule. Percentages must stay non-decreasing;
// readers render these rows directly.
var (
	stepInitialization = progressStep{
		stage:   "initialization",
		percent: 10,
		message: "Starting analysis",
		educational: "Every scan begins by verifying the page is reachable. " +
			"AI search engines can only cite content they can fetch.",
	}
	stepContentExtraction = progressStep{
		stage:   "content_extraction",
		percent: 30,
		message: "Extracting page content",
		educational: "The page title and meta description are the first signals " +
			"AI systems use to decide whether a page answers a query.",
	}
	stepFactorAnalysis = progressStep{
		stage:   "factor_analysis",
		percent: 60,
		message: "Scoring optimization factors",
		educational: "Each factor measures one dimension of how well the page " +
			"is structured for machine consumption.",
	}
	stepCompletion = progressStep{
		stage:   "completion",
		percent: 100,
		message: "Analysis complete",
		educational: "Scores are weighted by how strongly each factor influences " +
			"AI citation likelihood.",
	}
)

type progressStep struct {
	stage       string
	percent     int
	message     string
	educational string
}

// AnalysisOutcome is the summary returned to the caller on success.
type AnalysisOutcome struct {
	AnalysisID      uuid.UUID
	OverallScore    float64
	PageTitle       string
	PageDescription string
	FactorCount     int
}

// AnalysisStatus bundles an analysis row with its progress checkpoints
// for the status endpoint.
type AnalysisStatus struct {
	Analysis *entity.Analysis
	Events   []*entity.ProgressEvent
}

// AnalysisManager defines the interface for running analyses and reading
// their state.
type AnalysisManager interface {
	// Run executes the full analysis workflow for an existing pending
	// analysis row. On any failure the row is left in the terminal error
	// state before the error is returned; the persisted state and the
	// returned error never disagree.
	Run(ctx context.Context, rawURL string, userID, analysisID uuid.UUID) (*AnalysisOutcome, error)
	// GetStatus returns the analysis row and its checkpoints.
	GetStatus(ctx context.Context, analysisID uuid.UUID) (*AnalysisStatus, error)
}

type analysisUseCase struct {
	analysisRepo      repository.AnalysisRepository
	progressRepo      repository.ProgressRepository
	factorRepo        repository.FactorRepository
	inflightRepo      repository.InflightRepository
	scraper           repository.PageScraper
	navigationTimeout time.Duration
}

// NewAnalysisManager creates the analysis workflow use case.
func NewAnalysisManager(
	analysisRepo repository.AnalysisRepository,
	progressRepo repository.ProgressRepository,
	factorRepo repository.FactorRepository,
	inflightRepo repository.InflightRepository,
	scraper repository.PageScraper,
	navigationTimeout time.Duration,
) AnalysisManager {
	return &analysisUseCase{
		analysisRepo:      analysisRepo,
		progressRepo:      progressRepo,
		factorRepo:        factorRepo,
		inflightRepo:      inflightRepo,
		scraper:           scraper,
		navigationTimeout: navigationTimeout,
	}
}

func (uc *analysisUseCase) Run(ctx context.Context, rawURL string, userID, analysisID uuid.UUID) (*AnalysisOutcome, error) {
	guardKey := guardKeyFor(userID, rawURL)
	acquired, err := uc.inflightRepo.Acquire(ctx, guardKey, uc.navigationTimeout+inflightGuardSlack)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire in-flight guard: %w", err)
	}
	if !acquired {
		return nil, ErrAnalysisInFlight
	}
	defer func() {
		// The request context may already be past its deadline here.
		if err := uc.inflightRepo.Release(context.WithoutCancel(ctx), guardKey); err != nil {
			slog.Warn("Failed to release in-flight guard", "analysis_id", analysisID, "error", err)
		}
	}()

	startTime := time.Now()
	outcome, runErr := uc.run(ctx, rawURL, analysisID)
	metrics.AnalysisDuration.Observe(time.Since(startTime).Seconds())

	if runErr != nil {
		metrics.AnalysesTotal.WithLabelValues("failure", classifyError(runErr)).Inc()
		return nil, runErr
	}
	metrics.AnalysesTotal.WithLabelValues("success", "").Inc()
	return outcome, nil
}

func (uc *analysisUseCase) run(ctx context.Context, rawURL string, analysisID uuid.UUID) (*AnalysisOutcome, error) {
	// Transitioning to processing is the first write and it fails closed:
	// nothing else runs if the store of record cannot persist it.
	if err := uc.analysisRepo.MarkProcessing(ctx, analysisID); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTransition):
			// Either the row does not exist or it is not pending. Neither
			// case may overwrite existing terminal state.
			if _, findErr := uc.analysisRepo.FindByID(ctx, analysisID); errors.Is(findErr, repository.ErrAnalysisNotFound) {
				return nil, repository.ErrAnalysisNotFound
			}
			return nil, fmt.Errorf("analysis %s is not pending: %w", analysisID, err)
		default:
			// Fail closed: no further work. Recording the error state is
			// best effort since the same store just failed a write.
			return nil, uc.fail(ctx, analysisID, 0, fmt.Errorf("failed to mark analysis processing: %w", err))
		}
	}

	slog.Info("Analysis started", "analysis_id", analysisID, "url", rawURL)

	if err := uc.checkpoint(ctx, analysisID, stepInitialization); err != nil {
		return nil, uc.fail(ctx, analysisID, 0, err)
	}

	// The scraper owns the browser session scope; it is acquired and
	// released inside Scrape on every exit path.
	scrapeStart := time.Now()
	snapshot, err := uc.scraper.Scrape(ctx, rawURL)
	metrics.ScrapeDuration.WithLabelValues(utils.Domain(rawURL)).Observe(time.Since(scrapeStart).Seconds())
	if err != nil {
		slog.Error("Page scrape failed", "analysis_id", analysisID, "url", rawURL, "error", err)
		return nil, uc.fail(ctx, analysisID, stepInitialization.percent, err)
	}

	if err := uc.checkpoint(ctx, analysisID, stepContentExtraction); err != nil {
		return nil, uc.fail(ctx, analysisID, stepInitialization.percent, err)
	}

	factors := scoreFactors(snapshot)
	if err := uc.factorRepo.SaveBatch(ctx, analysisID, factors); err != nil {
		return nil, uc.fail(ctx, analysisID, stepContentExtraction.percent,
			fmt.Errorf("failed to save factor results: %w", err))
	}
	if err := uc.checkpoint(ctx, analysisID, stepFactorAnalysis); err != nil {
		return nil, uc.fail(ctx, analysisID, stepContentExtraction.percent, err)
	}

	score := overallScore(factors)
	completedAt := time.Now().UTC()
	if err := uc.analysisRepo.CompleteSuccess(ctx, analysisID, snapshot.Title, snapshot.Description, score, completedAt); err != nil {
		return nil, uc.fail(ctx, analysisID, stepFactorAnalysis.percent,
			fmt.Errorf("failed to write analysis result: %w", err))
	}

	// The analysis is already terminal completed; a lost final checkpoint
	// must not turn a persisted success into a reported failure.
	if err := uc.checkpoint(ctx, analysisID, stepCompletion); err != nil {
		slog.Warn("Failed to append final checkpoint", "analysis_id", analysisID, "error", err)
	}

	slog.Info("Analysis completed", "analysis_id", analysisID, "url", rawURL, "overall_score", score)

	return &AnalysisOutcome{
		AnalysisID:      analysisID,
		OverallScore:    score,
		PageTitle:       snapshot.Title,
		PageDescription: snapshot.Description,
		FactorCount:     len(factors),
	}, nil
}

func (uc *analysisUseCase) GetStatus(ctx context.Context, analysisID uuid.UUID) (*AnalysisStatus, error) {
	analysis, err := uc.analysisRepo.FindByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	events, err := uc.progressRepo.ListByAnalysis(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	return &AnalysisStatus{Analysis: analysis, Events: events}, nil
}

func (uc *analysisUseCase) checkpoint(ctx context.Context, analysisID uuid.UUID, step progressStep) error {
	event := &entity.ProgressEvent{
		AnalysisID:         analysisID,
		Stage:              step.stage,
		ProgressPercent:    step.percent,
		Message:            step.message,
		EducationalContent: step.educational,
		CreatedAt:          time.Now().UTC(),
	}
	if err := uc.progressRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to append progress checkpoint %q: %w", step.stage, err)
	}
	return nil
}

// fail records the terminal error state before the cause is returned.
// lastPercent keeps the error checkpoint from violating the
// non-decreasing progress invariant.
func (uc *analysisUseCase) fail(ctx context.Context, analysisID uuid.UUID, lastPercent int, cause error) error {
	// Terminal writes must go through even when the request context has
	// expired, e.g. after a navigation timeout.
	writeCtx := context.WithoutCancel(ctx)

	if err := uc.analysisRepo.CompleteError(writeCtx, analysisID, cause.Error()); err != nil {
		slog.Error("Failed to record analysis error state", "analysis_id", analysisID, "cause", cause, "error", err)
	}

	event := &entity.ProgressEvent{
		AnalysisID:      analysisID,
		Stage:           "error",
		ProgressPercent: lastPercent,
		Message:         cause.Error(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := uc.progressRepo.Append(writeCtx, event); err != nil {
		slog.Error("Failed to append error checkpoint", "analysis_id", analysisID, "error", err)
	}

	return cause
}

// guardKeyFor derives the in-flight guard key for a user+URL pair.
func guardKeyFor(userID uuid.UUID, rawURL string) string {
	return utils.HashURL(userID.String() + "|" + rawURL)
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, repository.ErrNavigationTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrExtractionFailed):
		return "extraction"
	case errors.Is(err, repository.ErrAnalysisNotFound), errors.Is(err, repository.ErrInvalidTransition):
		return "state"
	default:
		return "store"
	}
}
