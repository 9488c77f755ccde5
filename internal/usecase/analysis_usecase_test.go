package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
	"github.com/user/aimpact-scanner/pkg/metrics"
)

var errContextForTests = errors.New("injected store failure")

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

type workflowFixture struct {
	analysisRepo *fakeAnalysisRepo
	progressRepo *fakeProgressRepo
	factorRepo   *fakeFactorRepo
	inflight     *fakeInflightRepo
	scraper      *fakeScraper
	manager      AnalysisManager
}

func newWorkflowFixture(scraper *fakeScraper) *workflowFixture {
	f := &workflowFixture{
		analysisRepo: newFakeAnalysisRepo(),
		progressRepo: &fakeProgressRepo{},
		factorRepo:   newFakeFactorRepo(),
		inflight:     newFakeInflightRepo(),
		scraper:      scraper,
	}
	f.manager = NewAnalysisManager(
		f.analysisRepo, f.progressRepo, f.factorRepo, f.inflight, f.scraper, 30*time.Second)
	return f
}

func healthySnapshot() *entity.PageSnapshot {
	return &entity.PageSnapshot{
		Title:          "Example Domain: Reserved For Documentation Use",
		Description:    "This domain is for use in illustrative examples in documents, without prior coordination or asking for permission.",
		HTTPStatusCode: 200,
		LoadTimeMS:     120,
		FetchedAt:      time.Now().UTC(),
	}
}

func TestRunSuccess(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	outcome, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, analysisID, outcome.AnalysisID)
	assert.Equal(t, 4, outcome.FactorCount)
	assert.Greater(t, outcome.OverallScore, 0.0)

	row := f.analysisRepo.get(analysisID)
	assert.Equal(t, entity.StatusCompleted, row.Status)
	require.NotNil(t, row.CompletedAt)
	require.NotNil(t, row.OverallScore)
	assert.Equal(t, outcome.OverallScore, *row.OverallScore)
	assert.Equal(t, "Example Domain: Reserved For Documentation Use", row.PageTitle)
	assert.Empty(t, row.ErrorDetails)

	// Exactly one terminal 100% checkpoint, schedule in order.
	events, err := f.progressRepo.ListByAnalysis(context.Background(), analysisID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	full := 0
	for _, ev := range events {
		if ev.ProgressPercent == 100 {
			full++
		}
	}
	assert.Equal(t, 1, full)
	assertNonDecreasing(t, events)
	assert.Equal(t, "completion", events[len(events)-1].Stage)

	saved, _ := f.factorRepo.ListByAnalysis(context.Background(), analysisID)
	assert.Len(t, saved, 4)

	assert.Equal(t, 0, f.inflight.heldCount(), "guard must be released after the run")
}

func TestRunNavigationFailure(t *testing.T) {
	tests := []struct {
		name      string
		scrapeErr error
	}{
		{"timeout", fmt.Errorf("%w: https://example.com", repository.ErrNavigationTimeout)},
		{"navigation", fmt.Errorf("%w: dns lookup failed", repository.ErrNavigationFailed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture(&fakeScraper{err: tt.scrapeErr})
			userID := uuid.New()
			analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

			_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.scrapeErr)

			// The row reflects the failure before the error surfaces, and
			// no success fields are set.
			row := f.analysisRepo.get(analysisID)
			assert.Equal(t, entity.StatusError, row.Status)
			assert.NotEmpty(t, row.ErrorDetails)
			assert.Nil(t, row.OverallScore)
			assert.Nil(t, row.CompletedAt)

			events, _ := f.progressRepo.ListByAnalysis(context.Background(), analysisID)
			require.NotEmpty(t, events)
			assertNonDecreasing(t, events)
			last := events[len(events)-1]
			assert.Equal(t, "error", last.Stage)

			assert.Equal(t, 0, f.inflight.heldCount())
		})
	}
}

func TestRunFailsClosedOnProcessingWrite(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	f.analysisRepo.failMark = errContextForTests
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errContextForTests)

	// Nothing beyond the failed transition ran.
	saved, _ := f.factorRepo.ListByAnalysis(context.Background(), analysisID)
	assert.Empty(t, saved)
}

func TestRunUnknownAnalysis(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})

	_, err := f.manager.Run(context.Background(), "https://example.com", uuid.New(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrAnalysisNotFound)
	assert.Empty(t, f.progressRepo.events)
}

func TestRunRejectsNonPendingAnalysis(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.NoError(t, err)

	// A second run of the same id must not reopen the terminal row.
	_, err = f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	assert.Equal(t, entity.StatusCompleted, f.analysisRepo.get(analysisID).Status)
}

func TestRunRejectsInflightDuplicate(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	// Simulate a concurrent duplicate holding the guard.
	_, err := f.inflight.Acquire(context.Background(), guardKeyFor(userID, "https://example.com"), time.Minute)
	require.NoError(t, err)

	_, err = f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	// The losing request wrote nothing.
	assert.Equal(t, entity.StatusPending, f.analysisRepo.get(analysisID).Status)
	assert.Empty(t, f.progressRepo.events)
}

func TestRunCheckpointWriteFailureIsTerminal(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	f.progressRepo.failing = true
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.Error(t, err)

	row := f.analysisRepo.get(analysisID)
	assert.Equal(t, entity.StatusError, row.Status)
	assert.NotEmpty(t, row.ErrorDetails)
}

func TestRunResultWriteFailureRecordsError(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	f.analysisRepo.failDone = errContextForTests
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errContextForTests)

	row := f.analysisRepo.get(analysisID)
	assert.Equal(t, entity.StatusError, row.Status)
	assert.NotEmpty(t, row.ErrorDetails)
	assert.Nil(t, row.CompletedAt)
}

func TestGetStatus(t *testing.T) {
	f := newWorkflowFixture(&fakeScraper{snapshot: healthySnapshot()})
	userID := uuid.New()
	analysisID := f.analysisRepo.seedPending(userID, "https://example.com")

	_, err := f.manager.Run(context.Background(), "https://example.com", userID, analysisID)
	require.NoError(t, err)

	status, err := f.manager.GetStatus(context.Background(), analysisID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, status.Analysis.Status)
	assert.Len(t, status.Events, 4)

	_, err = f.manager.GetStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrAnalysisNotFound)
}

func assertNonDecreasing(t *testing.T, events []*entity.ProgressEvent) {
	t.Helper()
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].ProgressPercent, events[i-1].ProgressPercent,
			"progress percent regressed at event %d", i)
	}
}
