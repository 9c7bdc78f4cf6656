package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explorewithme/internal/domain"
)

func publishedEvent(events *fakeEventRepo, initiator *domain.User, limit int, moderation bool) *domain.Event {
	return events.add(&domain.Event{
		Title:             "Go meetup",
		Annotation:        "monthly meetup",
		Initiator:         initiator,
		EventDate:         domain.NewDateTime(time.Now().Add(48 * time.Hour)),
		CreatedOn:         domain.NewDateTime(time.Now()),
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             domain.EventStatePublished,
	})
}

func newRequestServiceForTest() (domain.RequestService, *fakeUserRepo, *fakeEventRepo, *fakeRequestRepo) {
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	requests := newFakeRequestRepo(events)
	svc := NewRequestService(requests, users, testTimeout)
	return svc, users, events, requests
}

func TestCreateRequest_ModerationPending(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)

	req, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, req.Status)
	assert.Equal(t, event.ID, req.EventID)
	assert.Equal(t, requester.ID, req.RequesterID)
}

func TestCreateRequest_NoModerationConfirmed(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, false)

	req, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusConfirmed, req.Status)
}

func TestCreateRequest_Duplicate(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)

	_, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), requester.ID, event.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
}

func TestCreateRequest_SelfParticipation(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	event := publishedEvent(events, organizer, 10, true)

	_, err := svc.CreateRequest(context.Background(), organizer.ID, event.ID)
	assert.ErrorIs(t, err, domain.ErrSelfParticipation)
}

func TestCreateRequest_NotPublished(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)
	event.State = domain.EventStatePending

	_, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotPublished)
}

func TestCreateRequest_CapacityExceeded(t *testing.T) {
	svc, users, events, requests := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 1, false)
	requests.add(event.ID, 99, domain.RequestStatusConfirmed)

	_, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestCreateRequest_ResubmitAfterCancel(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)

	first, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.CancelRequest(context.Background(), requester.ID, first.ID)
	require.NoError(t, err)

	second, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.RequestStatusPending, second.Status)
}

func TestCreateRequest_UnknownUser(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	event := publishedEvent(events, organizer, 10, true)

	_, err := svc.CreateRequest(context.Background(), 42, event.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCancelRequest_NotOwner(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	other := users.add("other@example.com", "Other")
	event := publishedEvent(events, organizer, 10, true)

	req, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.CancelRequest(context.Background(), other.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestCancelRequest_Idempotent(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)

	req, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)

	canceled, err := svc.CancelRequest(context.Background(), requester.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCanceled, canceled.Status)

	again, err := svc.CancelRequest(context.Background(), requester.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCanceled, again.Status)
}

func TestGetUserRequests(t *testing.T) {
	svc, users, events, _ := newRequestServiceForTest()
	organizer := users.add("org@example.com", "Org")
	requester := users.add("req@example.com", "Req")
	event := publishedEvent(events, organizer, 10, true)
	other := publishedEvent(events, organizer, 10, false)

	_, err := svc.CreateRequest(context.Background(), requester.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.CreateRequest(context.Background(), requester.ID, other.ID)
	require.NoError(t, err)

	requests, err := svc.GetUserRequests(context.Background(), requester.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}
