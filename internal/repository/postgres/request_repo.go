package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"explorewithme/internal/domain"
)

type requestRepository struct {
	DB *sql.DB
}

func NewRequestRepository(db *sql.DB) domain.RequestRepository {
	return &requestRepository{
		DB: db,
	}
}

const requestColumns = `id, event_id, requester_id, status, created`

func scanRequest(row interface{ Scan(...any) error }) (*domain.Request, error) {
	req := &domain.Request{}
	err := row.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// lockEvent reads the admission-relevant event fields under FOR UPDATE so
// the confirmed count cannot change until the transaction commits.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) (*domain.Event, error) {
	query := `
		SELECT id, initiator_id, state, participant_limit, request_moderation
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	event := &domain.Event{Initiator: &domain.User{}}
	err := tx.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID, &event.Initiator.ID, &event.State,
		&event.ParticipantLimit, &event.RequestModeration,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	return event, nil
}

func countConfirmed(ctx context.Context, tx *sql.Tx, eventID int64) (int64, error) {
	var count int64
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`,
		eventID, domain.RequestStatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed requests: %w", err)
	}
	return count, nil
}

func (r *requestRepository) Submit(ctx context.Context, eventID, requesterID int64) (*domain.Request, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE event_id = $1 AND requester_id = $2`,
		eventID, requesterID,
	)
	if err != nil {
		return nil, fmt.Errorf("load existing requests: %w", err)
	}
	var existing []*domain.Request
	for rows.Next() {
		req, scanErr := scanRequest(rows)
		if scanErr != nil {
			rows.Close()
			err = scanErr
			return nil, err
		}
		existing = append(existing, req)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	confirmed, err := countConfirmed(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	status, err := domain.DecideSubmission(event, requesterID, existing, confirmed)
	if err != nil {
		return nil, err
	}

	req := &domain.Request{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     domain.NewDateTime(time.Now()),
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO requests (event_id, requester_id, status, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		req.EventID, req.RequesterID, req.Status, req.Created,
	).Scan(&req.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			err = domain.ErrDuplicateRequest
			return nil, err
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return req, nil
}

func (r *requestRepository) Confirm(ctx context.Context, eventID, requestID int64) (*domain.Request, []*domain.Request, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, nil, err
	}

	req, err := scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, requestID))
	if err != nil {
		return nil, nil, err
	}
	if req.EventID != eventID {
		err = domain.ErrNotFound
		return nil, nil, err
	}
	if req.Status == domain.RequestStatusConfirmed {
		// Repeat confirm is a no-op; no cascade re-evaluation.
		if err = tx.Commit(); err != nil {
			return nil, nil, fmt.Errorf("commit transaction: %w", err)
		}
		return req, nil, nil
	}

	confirmed, err := countConfirmed(ctx, tx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if err = domain.DecideConfirmation(event, confirmed); err != nil {
		return nil, nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2`,
		domain.RequestStatusConfirmed, requestID,
	); err != nil {
		return nil, nil, fmt.Errorf("confirm request: %w", err)
	}
	req.Status = domain.RequestStatusConfirmed

	// Cascade is evaluated once, with the count including the request just
	// confirmed: when the limit fills, remaining pending siblings are
	// auto-canceled in the same transaction.
	var cascaded []*domain.Request
	if domain.CapacityFilled(event, confirmed+1) {
		rows, cascadeErr := tx.QueryContext(ctx,
			`UPDATE requests SET status = $1
			 WHERE event_id = $2 AND status = $3 AND id <> $4
			 RETURNING `+requestColumns,
			domain.RequestStatusCanceled, eventID, domain.RequestStatusPending, requestID,
		)
		if cascadeErr != nil {
			err = fmt.Errorf("cancel pending requests: %w", cascadeErr)
			return nil, nil, err
		}
		for rows.Next() {
			sibling, scanErr := scanRequest(rows)
			if scanErr != nil {
				rows.Close()
				err = scanErr
				return nil, nil, err
			}
			cascaded = append(cascaded, sibling)
		}
		if err = rows.Err(); err != nil {
			return nil, nil, err
		}
		rows.Close()
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return req, cascaded, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	return scanRequest(r.DB.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (*domain.Request, error) {
	return scanRequest(r.DB.QueryRowContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2 RETURNING `+requestColumns,
		status, id))
}

func (r *requestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE requester_id = $1 ORDER BY created DESC`,
		requesterID)
}

func (r *requestRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE event_id = $1 ORDER BY created`,
		eventID)
}

func (r *requestRepository) list(ctx context.Context, query string, arg any) ([]*domain.Request, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *requestRepository) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`,
		eventID, domain.RequestStatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
