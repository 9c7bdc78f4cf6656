package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorewithme/internal/delivery/http/helpers"
	"explorewithme/internal/domain"
)

// fakeStatsService implements domain.StatsService for handler tests.
type fakeStatsService struct {
	stats      []*domain.ViewStats
	err        error
	lastHit    *domain.EndpointHit
	lastStart  time.Time
	lastEnd    time.Time
	lastURIs   []string
	lastUnique bool
}

func (f *fakeStatsService) RecordHit(ctx context.Context, hit *domain.EndpointHit) error {
	f.lastHit = hit
	if f.err != nil {
		return f.err
	}
	hit.ID = 5
	return nil
}

func (f *fakeStatsService) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*domain.ViewStats, error) {
	f.lastStart, f.lastEnd, f.lastURIs, f.lastUnique = start, end, uris, unique
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func TestStatsController_RecordHit(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"app":"ewm-main-service","uri":"/events/1","ip":"192.163.0.1","timestamp":"2026-05-01 10:00:00"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:         "missing app",
			body:         `{"uri":"/events/1","ip":"192.163.0.1"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "invalid json",
			body:         `{invalid`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown field",
			body:         `{"app":"a","uri":"/x","ip":"1.2.3.4","bogus":true}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "service error",
			body:         `{"app":"ewm-main-service","uri":"/events/1","ip":"192.163.0.1"}`,
			fakeErr:      assert.AnError,
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStatsService{err: tt.fakeErr}
			ctrl := NewStatsController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/hit", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.RecordHit(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				require.NotNil(t, fake.lastHit)
				assert.Equal(t, "ewm-main-service", fake.lastHit.App)
				assert.Equal(t, "/events/1", fake.lastHit.URI)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestStatsController_GetStats(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		fakeStats    []*domain.ViewStats
		fakeErr      error
		wantStatus   int
		wantBodyCode string
		check        func(t *testing.T, f *fakeStatsService)
	}{
		{
			name: "success with uris and unique",
			query: url.Values{
				"start":  {"2026-05-01 00:00:00"},
				"end":    {"2026-05-02 00:00:00"},
				"uris":   {"/events/1,/events/2"},
				"unique": {"true"},
			},
			fakeStats: []*domain.ViewStats{
				{App: "ewm-main-service", URI: "/events/1", Hits: 6},
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeStatsService) {
				assert.Equal(t, []string{"/events/1", "/events/2"}, f.lastURIs)
				assert.True(t, f.lastUnique)
			},
		},
		{
			name: "success without filters",
			query: url.Values{
				"start": {"2026-05-01 00:00:00"},
				"end":   {"2026-05-02 00:00:00"},
			},
			fakeStats:  []*domain.ViewStats{},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeStatsService) {
				assert.Empty(t, f.lastURIs)
				assert.False(t, f.lastUnique)
			},
		},
		{
			name: "missing start",
			query: url.Values{
				"end": {"2026-05-02 00:00:00"},
			},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name: "malformed end",
			query: url.Values{
				"start": {"2026-05-01 00:00:00"},
				"end":   {"02.05.2026"},
			},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name: "invalid unique flag",
			query: url.Values{
				"start":  {"2026-05-01 00:00:00"},
				"end":    {"2026-05-02 00:00:00"},
				"unique": {"maybe"},
			},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name: "range end before start",
			query: url.Values{
				"start": {"2026-05-02 00:00:00"},
				"end":   {"2026-05-01 00:00:00"},
			},
			fakeErr:      domain.ErrInvalidInput,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStatsService{stats: tt.fakeStats, err: tt.fakeErr}
			ctrl := NewStatsController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/stats?"+tt.query.Encode(), nil)
			rr := httptest.NewRecorder()

			ctrl.GetStats(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				if tt.check != nil {
					tt.check(t, fake)
				}
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}
