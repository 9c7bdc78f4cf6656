package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// fakeEventService implements domain.EventService for handler tests. Each call
// returns the configured event/request/err triple.
type fakeEventService struct {
	event       *domain.Event
	events      []*domain.Event
	request     *domain.Request
	requests    []*domain.Request
	err         error
	lastPatch   domain.EventPatch
	lastFilter  domain.PublicEventFilter
	lastAdmin   domain.AdminEventFilter
	lastPaging  domain.PaginationParams
	lastEventID int64
}

func (f *fakeEventService) GetUserEvents(ctx context.Context, userID int64, params domain.PaginationParams) ([]*domain.Event, error) {
	f.lastPaging = params
	return f.events, f.err
}

func (f *fakeEventService) CreateEvent(ctx context.Context, userID int64, event *domain.Event, categoryID int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) PatchEvent(ctx context.Context, userID int64, patch domain.EventPatch) (*domain.Event, error) {
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) CancelUserEvent(ctx context.Context, userID, eventID int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetEventRequests(ctx context.Context, userID, eventID int64) ([]*domain.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requests, nil
}

func (f *fakeEventService) ConfirmEventRequest(ctx context.Context, userID, eventID, requestID int64) (*domain.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.request, nil
}

func (f *fakeEventService) RejectEventRequest(ctx context.Context, userID, eventID, requestID int64) (*domain.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.request, nil
}

func (f *fakeEventService) AdminSearchEvents(ctx context.Context, filter domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	f.lastAdmin = filter
	f.lastPaging = params
	return f.events, f.err
}

func (f *fakeEventService) AdminUpdateEvent(ctx context.Context, patch domain.EventPatch) (*domain.Event, error) {
	f.lastPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) PublishEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) RejectEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetPublicEvents(ctx context.Context, filter domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	f.lastFilter = filter
	f.lastPaging = params
	return f.events, f.err
}

func (f *fakeEventService) GetPublicEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

// recordingStatsClient captures PostHit calls for assertions on the public
// endpoints. Hits are posted from a goroutine, so access is locked.
type recordingStatsClient struct {
	mu   sync.Mutex
	hits []*domain.EndpointHit
	done chan struct{}
}

func newRecordingStatsClient() *recordingStatsClient {
	return &recordingStatsClient{done: make(chan struct{}, 1)}
}

func (c *recordingStatsClient) PostHit(ctx context.Context, hit *domain.EndpointHit) error {
	c.mu.Lock()
	c.hits = append(c.hits, hit)
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func (c *recordingStatsClient) GetViews(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	return nil, nil
}

func (c *recordingStatsClient) wait(t *testing.T) *domain.EndpointHit {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no hit recorded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.hits)
	return c.hits[len(c.hits)-1]
}

func publishedTestEvent() *domain.Event {
	return &domain.Event{
		ID:         1,
		Title:      "Go meetup",
		Annotation: "An evening of talks",
		Category:   &domain.Category{ID: 2, Name: "meetups"},
		Initiator:  &domain.User{ID: 7, Name: "Olya", Email: "olya@example.com"},
		EventDate:  domain.NewDateTime(time.Now().Add(72 * time.Hour)),
		State:      domain.EventStatePublished,

		ConfirmedRequests: 3,
		AverageRating:     4.5,
	}
}

func TestEventController_CreateEvent(t *testing.T) {
	futureDate := domain.NewDateTime(time.Now().Add(72 * time.Hour)).Format(domain.DateTimeLayout)

	tests := []struct {
		name         string
		userID       string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			userID:     "7",
			body:       `{"title":"Go meetup","annotation":"An evening of talks","category":2,"eventDate":"` + futureDate + `","participantLimit":10}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "missing title",
			userID:       "7",
			body:         `{"annotation":"x","category":2,"eventDate":"` + futureDate + `"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "negative limit",
			userID:       "7",
			body:         `{"title":"t","annotation":"a","category":2,"eventDate":"` + futureDate + `","participantLimit":-1}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "date too soon",
			userID:       "7",
			body:         `{"title":"t","annotation":"a","category":2,"eventDate":"` + futureDate + `"}`,
			fakeErr:      domain.ErrInvalidInput,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown category",
			userID:       "7",
			body:         `{"title":"t","annotation":"a","category":99,"eventDate":"` + futureDate + `"}`,
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: publishedTestEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPost, "http://test/users/"+tt.userID+"/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("userID", tt.userID)
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_PatchUserEvent(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"eventId":1,"title":"New title"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:         "missing eventId",
			body:         `{"title":"New title"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "empty title",
			body:         `{"eventId":1,"title":""}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "published event",
			body:         `{"eventId":1,"title":"New title"}`,
			fakeErr:      domain.ErrConflict,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "someone else's event",
			body:         `{"eventId":1,"title":"New title"}`,
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: publishedTestEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPatch, "http://test/users/7/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("userID", "7")
			rr := httptest.NewRecorder()

			ctrl.PatchUserEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(1), fake.lastPatch.EventID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_ConfirmRequest(t *testing.T) {
	tests := []struct {
		name         string
		fakeRequest  *domain.Request
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:        "success",
			fakeRequest: &domain.Request{ID: 11, EventID: 1, RequesterID: 3, Status: domain.RequestStatusConfirmed},
			wantStatus:  http.StatusOK,
		},
		{
			name:         "not the initiator",
			fakeErr:      domain.ErrForbidden,
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:         "capacity already filled",
			fakeErr:      domain.ErrCapacityExceeded,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "request belongs to another event",
			fakeErr:      domain.ErrNotFound,
			wantStatus:   http.StatusNotFound,
			wantBodyCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{request: tt.fakeRequest, err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPatch, "http://test/users/7/events/1/requests/11/confirm", nil)
			req.SetPathValue("userID", "7")
			req.SetPathValue("eventID", "1")
			req.SetPathValue("reqID", "11")
			rr := httptest.NewRecorder()

			ctrl.ConfirmRequest(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var got domain.Request
				require.NoError(t, json.Unmarshal(dataBytes, &got))
				assert.Equal(t, domain.RequestStatusConfirmed, got.Status)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_PublishEvent(t *testing.T) {
	tests := []struct {
		name         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{name: "success", wantStatus: http.StatusOK},
		{
			name:         "not pending",
			fakeErr:      domain.ErrConflict,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "starts too soon",
			fakeErr:      domain.ErrInvalidInput,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: publishedTestEvent(), err: tt.fakeErr}
			ctrl := NewEventController(testLogger(), fake, nil)

			req := httptest.NewRequest(http.MethodPatch, "http://test/admin/events/1/publish", nil)
			req.SetPathValue("eventID", "1")
			rr := httptest.NewRecorder()

			ctrl.PublishEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, int64(1), fake.lastEventID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestEventController_GetPublicEvents(t *testing.T) {
	t.Run("filters parsed and hit recorded", func(t *testing.T) {
		fake := &fakeEventService{events: []*domain.Event{publishedTestEvent()}}
		stats := newRecordingStatsClient()
		ctrl := NewEventController(testLogger(), fake, stats)

		target := "http://test/events?text=go&categories=2,3&paid=true&onlyAvailable=true&sort=VIEWS&from=0&size=20"
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("X-Forwarded-For", "192.163.0.1, 10.0.0.1")
		rr := httptest.NewRecorder()

		ctrl.GetPublicEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "go", fake.lastFilter.Text)
		assert.Equal(t, []int64{2, 3}, fake.lastFilter.Categories)
		require.NotNil(t, fake.lastFilter.Paid)
		assert.True(t, *fake.lastFilter.Paid)
		assert.True(t, fake.lastFilter.OnlyAvailable)
		assert.Equal(t, domain.EventSortViews, fake.lastFilter.Sort)

		hit := stats.wait(t)
		assert.Equal(t, "/events", hit.URI)
		assert.Equal(t, "192.163.0.1", hit.IP)
	})

	t.Run("invalid sort", func(t *testing.T) {
		fake := &fakeEventService{}
		ctrl := NewEventController(testLogger(), fake, nil)

		req := httptest.NewRequest(http.MethodGet, "http://test/events?sort=POPULARITY", nil)
		rr := httptest.NewRecorder()

		ctrl.GetPublicEvents(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
	})

	t.Run("no hit on search failure", func(t *testing.T) {
		fake := &fakeEventService{err: assert.AnError}
		stats := newRecordingStatsClient()
		ctrl := NewEventController(testLogger(), fake, stats)

		req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
		rr := httptest.NewRecorder()

		ctrl.GetPublicEvents(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		select {
		case <-stats.done:
			t.Fatal("hit recorded for failed search")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestEventController_GetPublicEvent(t *testing.T) {
	t.Run("success records hit", func(t *testing.T) {
		fake := &fakeEventService{event: publishedTestEvent()}
		stats := newRecordingStatsClient()
		ctrl := NewEventController(testLogger(), fake, stats)

		req := httptest.NewRequest(http.MethodGet, "http://test/events/1", nil)
		req.RemoteAddr = "192.163.0.1:51234"
		req.SetPathValue("eventID", "1")
		rr := httptest.NewRecorder()

		ctrl.GetPublicEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(1), fake.lastEventID)

		envelope := decodeEnvelope(t, rr)
		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(3), data["confirmedRequests"])
		assert.Equal(t, 4.5, data["averageRating"])

		hit := stats.wait(t)
		assert.Equal(t, "/events/1", hit.URI)
		assert.Equal(t, "192.163.0.1", hit.IP)
	})

	t.Run("unpublished event", func(t *testing.T) {
		fake := &fakeEventService{err: domain.ErrNotFound}
		ctrl := NewEventController(testLogger(), fake, nil)

		req := httptest.NewRequest(http.MethodGet, "http://test/events/1", nil)
		req.SetPathValue("eventID", "1")
		rr := httptest.NewRecorder()

		ctrl.GetPublicEvent(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEventController_AdminSearchEvents(t *testing.T) {
	t.Run("filters parsed", func(t *testing.T) {
		fake := &fakeEventService{events: []*domain.Event{}}
		ctrl := NewEventController(testLogger(), fake, nil)

		target := "http://test/admin/events?users=7&states=PENDING,PUBLISHED&categories=2&rangeStart=2026-05-01%2000:00:00"
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()

		ctrl.AdminSearchEvents(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []int64{7}, fake.lastAdmin.Users)
		assert.Equal(t, []domain.EventState{domain.EventStatePending, domain.EventStatePublished}, fake.lastAdmin.States)
		assert.Equal(t, []int64{2}, fake.lastAdmin.Categories)
		require.NotNil(t, fake.lastAdmin.RangeStart)
	})

	t.Run("invalid state", func(t *testing.T) {
		fake := &fakeEventService{}
		ctrl := NewEventController(testLogger(), fake, nil)

		req := httptest.NewRequest(http.MethodGet, "http://test/admin/events?states=DRAFT", nil)
		rr := httptest.NewRecorder()

		ctrl.AdminSearchEvents(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "forwarded single", forwarded: "192.163.0.1", remoteAddr: "10.0.0.1:1234", want: "192.163.0.1"},
		{name: "forwarded chain", forwarded: "192.163.0.1, 10.0.0.1", remoteAddr: "10.0.0.2:1234", want: "192.163.0.1"},
		{name: "remote addr", remoteAddr: "192.163.0.1:51234", want: "192.163.0.1"},
		{name: "remote addr without port", remoteAddr: "192.163.0.1", want: "192.163.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://test/events", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
