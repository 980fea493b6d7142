package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// IntentResponseRepository provides data access for intent responses.
type IntentResponseRepository interface {
	Create(ctx context.Context, response *models.IntentResponse) error
	Update(ctx context.Context, response *models.IntentResponse) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.IntentResponse, error)
	FindAll(ctx context.Context) ([]*models.IntentResponse, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// FindAllWithIntent lists every response with a stub of the intent that owns it, if any.
	FindAllWithIntent(ctx context.Context) ([]*models.IntentResponse, error)
	// FindAllByIDs returns the responses with the given ids, in id order.
	FindAllByIDs(ctx context.Context, ids []int64) ([]*models.IntentResponse, error)
}

type intentResponseRepository struct{}

// NewIntentResponseRepository creates a new IntentResponseRepository.
func NewIntentResponseRepository() IntentResponseRepository {
	return &intentResponseRepository{}
}

var _ IntentResponseRepository = (*intentResponseRepository)(nil)

func (r *intentResponseRepository) Create(ctx context.Context, response *models.IntentResponse) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `INSERT INTO intent_response (message) VALUES ($1) RETURNING id`
	if err := q.QueryRow(ctx, query, response.Message).Scan(&response.ID); err != nil {
		return fmt.Errorf("failed to create intent response: %w", err)
	}
	return nil
}

func (r *intentResponseRepository) Update(ctx context.Context, response *models.IntentResponse) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `UPDATE intent_response SET message = $2 WHERE id = $1`, response.ID, response.Message)
	if err != nil {
		return fmt.Errorf("failed to update intent response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *intentResponseRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "intent_response", id)
}

func (r *intentResponseRepository) FindByID(ctx context.Context, id int64) (*models.IntentResponse, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	var resp models.IntentResponse
	err = q.QueryRow(ctx, `SELECT id, message FROM intent_response WHERE id = $1`, id).
		Scan(&resp.ID, &resp.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intent response: %w", err)
	}
	return &resp, nil
}

func (r *intentResponseRepository) FindAll(ctx context.Context) ([]*models.IntentResponse, error) {
	return r.list(ctx, `SELECT id, message FROM intent_response ORDER BY id`)
}

func (r *intentResponseRepository) FindAllByIDs(ctx context.Context, ids []int64) ([]*models.IntentResponse, error) {
	if len(ids) == 0 {
		return []*models.IntentResponse{}, nil
	}
	return r.list(ctx, `SELECT id, message FROM intent_response WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *intentResponseRepository) list(ctx context.Context, query string, args ...any) ([]*models.IntentResponse, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list intent responses: %w", err)
	}
	defer rows.Close()

	responses := make([]*models.IntentResponse, 0)
	for rows.Next() {
		var resp models.IntentResponse
		if err := rows.Scan(&resp.ID, &resp.Message); err != nil {
			return nil, fmt.Errorf("failed to scan intent response: %w", err)
		}
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intent responses: %w", err)
	}
	return responses, nil
}

func (r *intentResponseRepository) FindAllWithIntent(ctx context.Context) ([]*models.IntentResponse, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT r.id, r.message, i.id
		FROM intent_response r
		LEFT JOIN intent i ON i.response_id = r.id
		ORDER BY r.id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list intent responses with intents: %w", err)
	}
	defer rows.Close()

	responses := make([]*models.IntentResponse, 0)
	for rows.Next() {
		var resp models.IntentResponse
		var intentID *int64
		if err := rows.Scan(&resp.ID, &resp.Message, &intentID); err != nil {
			return nil, fmt.Errorf("failed to scan intent response: %w", err)
		}
		if intentID != nil {
			resp.SetIntent(&models.Intent{ID: *intentID})
		}
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intent responses: %w", err)
	}
	return responses, nil
}

func (r *intentResponseRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "intent_response", id)
}
