package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"explorewithme/internal/domain"
)

type compilationRepository struct {
	DB *sql.DB
}

func NewCompilationRepository(db *sql.DB) domain.CompilationRepository {
	return &compilationRepository{
		DB: db,
	}
}

func (r *compilationRepository) Create(ctx context.Context, compilation *domain.Compilation, eventIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		compilation.Title, compilation.Pinned,
	).Scan(&compilation.ID)
	if err != nil {
		return err
	}
	for _, eventID := range eventIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compilation.ID, eventID,
		); err != nil {
			return fmt.Errorf("link event %d: %w", eventID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *compilationRepository) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	compilation := &domain.Compilation{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&compilation.ID, &compilation.Title, &compilation.Pinned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	events, err := r.listEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	compilation.Events = events
	return compilation, nil
}

func (r *compilationRepository) List(ctx context.Context, pinned *bool, params domain.PaginationParams) ([]*domain.Compilation, error) {
	query := `SELECT id, title, pinned FROM compilations`
	args := []any{}
	if pinned != nil {
		query += ` WHERE pinned = $1 ORDER BY id LIMIT $2 OFFSET $3`
		args = append(args, *pinned, params.Limit(), params.Offset())
	} else {
		query += ` ORDER BY id LIMIT $1 OFFSET $2`
		args = append(args, params.Limit(), params.Offset())
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	compilations := make([]*domain.Compilation, 0)
	for rows.Next() {
		compilation := &domain.Compilation{}
		if err := rows.Scan(&compilation.ID, &compilation.Title, &compilation.Pinned); err != nil {
			return nil, err
		}
		compilations = append(compilations, compilation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, compilation := range compilations {
		events, err := r.listEvents(ctx, compilation.ID)
		if err != nil {
			return nil, err
		}
		compilation.Events = events
	}
	return compilations, nil
}

func (r *compilationRepository) listEvents(ctx context.Context, compilationID int64) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		JOIN compilation_events ce ON ce.event_id = e.id
		WHERE ce.compilation_id = $1
		ORDER BY e.event_date`
	rows, err := r.DB.QueryContext(ctx, query, compilationID)
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

func (r *compilationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *compilationRepository) AddEvent(ctx context.Context, compilationID, eventID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
		compilationID, eventID,
	)
	return err
}

func (r *compilationRepository) RemoveEvent(ctx context.Context, compilationID, eventID int64) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1 AND event_id = $2`,
		compilationID, eventID,
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

func (r *compilationRepository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE compilations SET pinned = $1 WHERE id = $2`, pinned, id,
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

func (r *compilationRepository) ContainsEvent(ctx context.Context, compilationID, eventID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM compilation_events WHERE compilation_id = $1 AND event_id = $2)`,
		compilationID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
