package domain

import "context"

// EventState is the lifecycle state of an event.
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Valid reports whether s is one of the known event states.
func (s EventState) Valid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return true
	}
	return false
}

// Location is a geographic point attached to an event.
// swagger:model Location
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event represents a schedulable activity users can request to join.
// ConfirmedRequests, AverageRating, and Views are display-only aggregates
// filled in by the service layer; they are never read back for admission
// decisions.
// swagger:model Event
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description,omitempty"`
	Category          *Category  `json:"category"`
	Initiator         *User      `json:"initiator"`
	EventDate         DateTime   `json:"eventDate"`
	CreatedOn         DateTime   `json:"createdOn"`
	PublishedOn       *DateTime  `json:"publishedOn,omitempty"`
	Location          *Location  `json:"location,omitempty"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participantLimit"`
	RequestModeration bool       `json:"requestModeration"`
	State             EventState `json:"state"`
	ConfirmedRequests int64      `json:"confirmedRequests"`
	AverageRating     float64    `json:"averageRating"`
	Views             int64      `json:"views"`
}

// Unlimited reports whether the event has no participant cap.
func (e *Event) Unlimited() bool {
	return e.ParticipantLimit <= 0
}

// EventSort orders public event search results.
type EventSort string

const (
	EventSortDate  EventSort = "EVENT_DATE"
	EventSortViews EventSort = "VIEWS"
)

// AdminEventFilter holds the admin search criteria. Nil or empty fields
// match everything.
type AdminEventFilter struct {
	Users      []int64
	States     []EventState
	Categories []int64
	RangeStart *DateTime
	RangeEnd   *DateTime
}

// PublicEventFilter holds the public search criteria over published events.
type PublicEventFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *DateTime
	RangeEnd      *DateTime
	OnlyAvailable bool
	Sort          EventSort
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, event *Event) error
	SetState(ctx context.Context, id int64, state EventState, publishedOn *DateTime) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, params PaginationParams) ([]*Event, error)
	AdminSearch(ctx context.Context, filter AdminEventFilter, params PaginationParams) ([]*Event, error)
	PublicSearch(ctx context.Context, filter PublicEventFilter, params PaginationParams) ([]*Event, error)
}

// EventPatch carries the optional fields of an initiator's event update.
type EventPatch struct {
	EventID           int64
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	EventDate         *DateTime
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
}

// EventService defines initiator, admin, and public event operations,
// including organizer moderation of participation requests.
type EventService interface {
	// Initiator-scoped.
	GetUserEvents(ctx context.Context, userID int64, params PaginationParams) ([]*Event, error)
	CreateEvent(ctx context.Context, userID int64, event *Event, categoryID int64) (*Event, error)
	PatchEvent(ctx context.Context, userID int64, patch EventPatch) (*Event, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*Event, error)
	CancelUserEvent(ctx context.Context, userID, eventID int64) (*Event, error)
	GetEventRequests(ctx context.Context, userID, eventID int64) ([]*Request, error)
	ConfirmEventRequest(ctx context.Context, userID, eventID, requestID int64) (*Request, error)
	RejectEventRequest(ctx context.Context, userID, eventID, requestID int64) (*Request, error)

	// Admin-scoped.
	AdminSearchEvents(ctx context.Context, filter AdminEventFilter, params PaginationParams) ([]*Event, error)
	AdminUpdateEvent(ctx context.Context, patch EventPatch) (*Event, error)
	PublishEvent(ctx context.Context, eventID int64) (*Event, error)
	RejectEvent(ctx context.Context, eventID int64) (*Event, error)

	// Public.
	GetPublicEvents(ctx context.Context, filter PublicEventFilter, params PaginationParams) ([]*Event, error)
	GetPublicEvent(ctx context.Context, eventID int64) (*Event, error)
}
