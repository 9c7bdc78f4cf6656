package services

import (
	"context"
	"sync"
	"time"

	"explorewithme/internal/domain"
)

const testTimeout = 5 * time.Second

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[int64]*domain.User
	nextID int64
	err    error // if set, Create returns this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(email, name string) *domain.User {
	u := &domain.User{ID: f.nextID, Email: email, Name: name}
	f.nextID++
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []int64, params domain.PaginationParams) ([]*domain.User, error) {
	var out []*domain.User
	if len(ids) == 0 {
		for _, u := range f.byID {
			out = append(out, u)
		}
		return out, nil
	}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID       map[int64]*domain.Category
	nextID     int64
	eventCount map[int64]int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		byID:       make(map[int64]*domain.Category),
		nextID:     1,
		eventCount: make(map[int64]int),
	}
}

func (f *fakeCategoryRepo) add(name string) *domain.Category {
	c := &domain.Category{ID: f.nextID, Name: name}
	f.nextID++
	f.byID[c.ID] = c
	return c
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range f.byID {
		if existing.Name == c.Name {
			return domain.ErrConflict
		}
	}
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range f.byID {
		if existing.ID != c.ID && existing.Name == c.Name {
			return domain.ErrConflict
		}
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range f.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCategoryRepo) CountEvents(ctx context.Context, id int64) (int, error) {
	return f.eventCount[id], nil
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) SetState(ctx context.Context, id int64, state domain.EventState, publishedOn *domain.DateTime) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.State = state
	if publishedOn != nil {
		e.PublishedOn = publishedOn
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) ListByInitiator(ctx context.Context, initiatorID int64, params domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Initiator != nil && e.Initiator.ID == initiatorID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) AdminSearch(ctx context.Context, filter domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEventRepo) PublicSearch(ctx context.Context, filter domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.State == domain.EventStatePublished {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeRequestRepo is an in-memory RequestRepository for tests. Submit and
// Confirm replay the same admission rules the postgres repository applies
// inside its transaction.
type fakeRequestRepo struct {
	mu     sync.Mutex
	byID   map[int64]*domain.Request
	nextID int64
	events *fakeEventRepo
}

func newFakeRequestRepo(events *fakeEventRepo) *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[int64]*domain.Request), nextID: 1, events: events}
}

func (f *fakeRequestRepo) add(eventID, requesterID int64, status domain.RequestStatus) *domain.Request {
	req := &domain.Request{
		ID:          f.nextID,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     domain.NewDateTime(time.Now()),
	}
	f.nextID++
	f.byID[req.ID] = req
	return req
}

func (f *fakeRequestRepo) confirmedCount(eventID int64) int64 {
	var n int64
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == domain.RequestStatusConfirmed {
			n++
		}
	}
	return n
}

func (f *fakeRequestRepo) Submit(ctx context.Context, eventID, requesterID int64) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var existing []*domain.Request
	for _, r := range f.byID {
		if r.EventID == eventID && r.RequesterID == requesterID {
			existing = append(existing, r)
		}
	}
	status, err := domain.DecideSubmission(event, requesterID, existing, f.confirmedCount(eventID))
	if err != nil {
		return nil, err
	}
	return f.add(eventID, requesterID, status), nil
}

func (f *fakeRequestRepo) Confirm(ctx context.Context, eventID, requestID int64) (*domain.Request, []*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events.byID[eventID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	req, ok := f.byID[requestID]
	if !ok || req.EventID != eventID {
		return nil, nil, domain.ErrNotFound
	}
	if req.Status == domain.RequestStatusConfirmed {
		return req, nil, nil
	}
	confirmed := f.confirmedCount(eventID)
	if err := domain.DecideConfirmation(event, confirmed); err != nil {
		return nil, nil, err
	}
	req.Status = domain.RequestStatusConfirmed
	var cascaded []*domain.Request
	if domain.CapacityFilled(event, confirmed+1) {
		for _, r := range f.byID {
			if r.EventID == eventID && r.ID != requestID && r.Status == domain.RequestStatusPending {
				r.Status = domain.RequestStatusCanceled
				cascaded = append(cascaded, r)
			}
		}
	}
	return req, cascaded, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Request, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Status = status
	return r, nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.byID {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.byID {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	return f.confirmedCount(eventID), nil
}

// fakeStatsClient records PostHit calls and serves canned view counts.
type fakeStatsClient struct {
	hits  []*domain.EndpointHit
	views map[string]int64
	err   error
}

func (f *fakeStatsClient) PostHit(ctx context.Context, hit *domain.EndpointHit) error {
	if f.err != nil {
		return f.err
	}
	f.hits = append(f.hits, hit)
	return nil
}

func (f *fakeStatsClient) GetViews(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ViewStats
	for _, uri := range uris {
		if hits, ok := f.views[uri]; ok {
			out = append(out, &domain.ViewStats{App: "ewm-server", URI: uri, Hits: hits})
		}
	}
	return out, nil
}

// fakeEmailService records SendRequestDecision calls.
type fakeEmailService struct {
	sent []*domain.RequestDecisionEmailData
	err  error
}

func (f *fakeEmailService) SendRequestDecision(ctx context.Context, data *domain.RequestDecisionEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
