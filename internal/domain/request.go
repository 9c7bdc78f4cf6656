package domain

import "context"

// RequestStatus is the lifecycle state of a participation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// Terminal reports whether no further transition may leave s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusRejected || s == RequestStatusCanceled
}

// Active reports whether s counts against the one-request-per-event rule.
// A canceled request may be resubmitted; every other status may not.
func (s RequestStatus) Active() bool {
	return s != RequestStatusCanceled
}

// Request represents one user's ask to participate in an event.
// swagger:model Request
type Request struct {
	ID          int64         `json:"id"`
	EventID     int64         `json:"event"`
	RequesterID int64         `json:"requester"`
	Status      RequestStatus `json:"status"`
	Created     DateTime      `json:"created"`
}

// RequestRepository defines storage operations for participation requests.
// Submit and Confirm run their capacity check and write inside one
// transaction holding a row lock on the event, so concurrent calls against
// the same event cannot overshoot the participant limit.
type RequestRepository interface {
	// Submit admits a new request for requesterID against eventID, applying
	// the admission preconditions against a locked snapshot of the event.
	Submit(ctx context.Context, eventID, requesterID int64) (*Request, error)
	// Confirm sets the request to CONFIRMED, capacity permitting, and
	// auto-cancels remaining pending siblings when the limit fills. The
	// second return value holds the cascaded requests.
	Confirm(ctx context.Context, eventID, requestID int64) (*Request, []*Request, error)
	GetByID(ctx context.Context, id int64) (*Request, error)
	UpdateStatus(ctx context.Context, id int64, status RequestStatus) (*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*Request, error)
	CountConfirmed(ctx context.Context, eventID int64) (int64, error)
}

// RequestService defines requester-facing participation operations.
type RequestService interface {
	GetUserRequests(ctx context.Context, userID int64) ([]*Request, error)
	CreateRequest(ctx context.Context, userID, eventID int64) (*Request, error)
	CancelRequest(ctx context.Context, userID, requestID int64) (*Request, error)
}
