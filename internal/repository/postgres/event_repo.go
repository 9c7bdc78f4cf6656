package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"explorewithme/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// eventColumns joins category and initiator and aggregates the confirmed
// request count and the average comment rating, so every read returns a
// display-ready event.
const eventColumns = `
	e.id, e.title, e.annotation, e.description,
	c.id, c.name,
	u.id, u.email, u.name,
	e.event_date, e.created_on, e.published_on,
	e.paid, e.participant_limit, e.request_moderation, e.state,
	e.location_lat, e.location_lon,
	(SELECT COUNT(*) FROM requests r WHERE r.event_id = e.id AND r.status = 'CONFIRMED'),
	(SELECT COALESCE(AVG(rating), 0) FROM comments cm WHERE cm.event_id = e.id)
`

const eventFrom = `
	FROM events e
	JOIN categories c ON c.id = e.category_id
	JOIN users u ON u.id = e.initiator_id
`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{
		Category:  &domain.Category{},
		Initiator: &domain.User{},
	}
	var publishedNull sql.NullTime
	var latNull, lonNull sql.NullFloat64
	err := row.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description,
		&e.Category.ID, &e.Category.Name,
		&e.Initiator.ID, &e.Initiator.Email, &e.Initiator.Name,
		&e.EventDate, &e.CreatedOn, &publishedNull,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration, &e.State,
		&latNull, &lonNull,
		&e.ConfirmedRequests, &e.AverageRating,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if publishedNull.Valid {
		published := domain.NewDateTime(publishedNull.Time)
		e.PublishedOn = &published
	}
	if latNull.Valid && lonNull.Valid {
		e.Location = &domain.Location{Lat: latNull.Float64, Lon: lonNull.Float64}
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, initiator_id,
			event_date, created_on, paid, participant_limit, request_moderation, state,
			location_lat, location_lon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var lat, lon any
	if e.Location != nil {
		lat, lon = e.Location.Lat, e.Location.Lon
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.Category.ID, e.Initiator.ID,
		e.EventDate, e.CreatedOn, e.Paid, e.ParticipantLimit, e.RequestModeration,
		e.State, lat, lon,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4,
			event_date = $5, paid = $6, participant_limit = $7,
			request_moderation = $8, state = $9
		WHERE id = $10
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, e.Category.ID,
		e.EventDate, e.Paid, e.ParticipantLimit, e.RequestModeration,
		e.State, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetState(ctx context.Context, id int64, state domain.EventState, publishedOn *domain.DateTime) (*domain.Event, error) {
	var published any
	if publishedOn != nil {
		published = *publishedOn
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE events SET state = $1, published_on = COALESCE($2, published_on) WHERE id = $3`,
		state, published, id,
	)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) ListByInitiator(ctx context.Context, initiatorID int64, params domain.PaginationParams) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.initiator_id = $1
		ORDER BY e.created_on DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, initiatorID, params.Limit(), params.Offset())
}

func (r *eventRepository) AdminSearch(ctx context.Context, filter domain.AdminEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 1
	if len(filter.Users) > 0 {
		where = append(where, fmt.Sprintf("e.initiator_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.Users))
		n++
	}
	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, s := range filter.States {
			states[i] = string(s)
		}
		where = append(where, fmt.Sprintf("e.state = ANY($%d)", n))
		args = append(args, pq.Array(states))
		n++
	}
	if len(filter.Categories) > 0 {
		where = append(where, fmt.Sprintf("e.category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.Categories))
		n++
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("e.event_date > $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("e.event_date < $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY e.created_on DESC LIMIT $%d OFFSET $%d`,
		eventColumns, eventFrom, strings.Join(where, " AND "), n, n+1)
	args = append(args, params.Limit(), params.Offset())
	return r.list(ctx, query, args...)
}

func (r *eventRepository) PublicSearch(ctx context.Context, filter domain.PublicEventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	where := []string{"e.state = 'PUBLISHED'"}
	args := []any{}
	n := 1
	if filter.Text != "" {
		where = append(where, fmt.Sprintf(
			"(e.annotation ILIKE $%d OR e.description ILIKE $%d OR e.title ILIKE $%d)", n, n, n))
		args = append(args, "%"+filter.Text+"%")
		n++
	}
	if len(filter.Categories) > 0 {
		where = append(where, fmt.Sprintf("e.category_id = ANY($%d)", n))
		args = append(args, pq.Array(filter.Categories))
		n++
	}
	if filter.Paid != nil {
		where = append(where, fmt.Sprintf("e.paid = $%d", n))
		args = append(args, *filter.Paid)
		n++
	}
	if filter.RangeStart != nil {
		where = append(where, fmt.Sprintf("e.event_date > $%d", n))
		args = append(args, *filter.RangeStart)
		n++
	}
	if filter.RangeEnd != nil {
		where = append(where, fmt.Sprintf("e.event_date < $%d", n))
		args = append(args, *filter.RangeEnd)
		n++
	}
	if filter.OnlyAvailable {
		where = append(where,
			`(e.participant_limit = 0 OR e.participant_limit >
				(SELECT COUNT(*) FROM requests r WHERE r.event_id = e.id AND r.status = 'CONFIRMED'))`)
	}
	order := "e.created_on DESC"
	if filter.Sort == domain.EventSortDate {
		order = "e.event_date"
	}
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		eventColumns, eventFrom, strings.Join(where, " AND "), order, n, n+1)
	args = append(args, params.Limit(), params.Offset())
	return r.list(ctx, query, args...)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
