package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
)

// In-memory fakes for the repository interfaces. Each fake allows
// injecting errors per operation to exercise failure paths.

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Analysis
	failMark error
	failDone error
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{rows: map[uuid.UUID]*entity.Analysis{}}
}

func (r *fakeAnalysisRepo) seedPending(userID uuid.UUID, url string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.rows[id] = &entity.Analysis{
		ID:        id,
		UserID:    userID,
		URL:       url,
		Status:    entity.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	return id
}

func (r *fakeAnalysisRepo) get(id uuid.UUID) *entity.Analysis {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *fakeAnalysisRepo) Create(ctx context.Context, a *entity.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[a.ID] = a
	return nil
}

func (r *fakeAnalysisRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrAnalysisNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAnalysisRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	if r.failMark != nil {
		return r.failMark
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.Status != entity.StatusPending {
		return repository.ErrInvalidTransition
	}
	a.Status = entity.StatusProcessing
	return nil
}

func (r *fakeAnalysisRepo) CompleteSuccess(ctx context.Context, id uuid.UUID, title, description string, overallScore float64, completedAt time.Time) error {
	if r.failDone != nil {
		return r.failDone
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.Status != entity.StatusProcessing {
		return repository.ErrInvalidTransition
	}
	a.Status = entity.StatusCompleted
	a.PageTitle = title
	a.PageDescription = description
	a.OverallScore = &overallScore
	a.CompletedAt = &completedAt
	return nil
}

func (r *fakeAnalysisRepo) CompleteError(ctx context.Context, id uuid.UUID, errorDetails string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.Status.Terminal() {
		return repository.ErrInvalidTransition
	}
	a.Status = entity.StatusError
	a.ErrorDetails = errorDetails
	return nil
}

func (r *fakeAnalysisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type fakeProgressRepo struct {
	mu      sync.Mutex
	events  []*entity.ProgressEvent
	failing bool
}

func (r *fakeProgressRepo) Append(ctx context.Context, ev *entity.ProgressEvent) error {
	if r.failing {
		return errContextForTests
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *ev
	copied.ID = int64(len(r.events) + 1)
	r.events = append(r.events, &copied)
	return nil
}

func (r *fakeProgressRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.ProgressEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ProgressEvent
	for _, ev := range r.events {
		if ev.AnalysisID == analysisID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeFactorRepo struct {
	mu      sync.Mutex
	saved   map[uuid.UUID][]*entity.FactorResult
	failing bool
}

func newFakeFactorRepo() *fakeFactorRepo {
	return &fakeFactorRepo{saved: map[uuid.UUID][]*entity.FactorResult{}}
}

func (r *fakeFactorRepo) SaveBatch(ctx context.Context, analysisID uuid.UUID, factors []*entity.FactorResult) error {
	if r.failing {
		return errContextForTests
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[analysisID] = factors
	return nil
}

func (r *fakeFactorRepo) ListByAnalysis(ctx context.Context, analysisID uuid.UUID) ([]*entity.FactorResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[analysisID], nil
}

type fakeInflightRepo struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeInflightRepo() *fakeInflightRepo {
	return &fakeInflightRepo{held: map[string]bool{}}
}

func (r *fakeInflightRepo) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.held[key] {
		return false, nil
	}
	r.held[key] = true
	return true, nil
}

func (r *fakeInflightRepo) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, key)
	return nil
}

func (r *fakeInflightRepo) heldCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.held)
}

type fakeScraper struct {
	snapshot *entity.PageSnapshot
	err      error
}

func (s *fakeScraper) Scrape(ctx context.Context, url string) (*entity.PageSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.snapshot
	copied.URL = url
	return &copied, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
	sets  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.StripeCustomerID = customerID
	r.sets++
	return nil
}

type fakePaymentGateway struct {
	mu               sync.Mutex
	customersCreated int
	lastParams       repository.CheckoutParams
	customerErr      error
	sessionErr       error
}

func (g *fakePaymentGateway) CreateCustomer(ctx context.Context, email string, userID uuid.UUID) (string, error) {
	if g.customerErr != nil {
		return "", g.customerErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.customersCreated++
	return "cus_test_1", nil
}

func (g *fakePaymentGateway) CreateCheckoutSession(ctx context.Context, p repository.CheckoutParams) (*repository.CheckoutSession, error) {
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastParams = p
	return &repository.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/pay/cs_test_1"}, nil
}
