package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// FollowupRepository provides data access for follow-up questions.
type FollowupRepository interface {
	Create(ctx context.Context, followup *models.Followup) error
	Update(ctx context.Context, followup *models.Followup) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Followup, error)
	FindAll(ctx context.Context) ([]*models.Followup, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Followup, error)
	FindAllWithToOneRelationships(ctx context.Context) ([]*models.Followup, error)

	// FindAllByIntentIDs lists the follow-ups of the given intents, grouped
	// by intent and in asking order.
	FindAllByIntentIDs(ctx context.Context, intentIDs []int64) ([]*models.Followup, error)
}

type followupRepository struct{}

// NewFollowupRepository creates a new FollowupRepository.
func NewFollowupRepository() FollowupRepository {
	return &followupRepository{}
}

var _ FollowupRepository = (*followupRepository)(nil)

const (
	followupColumns = `f.id, f.question, f.target_entity, f.sort_order, f.intent_id`

	followupWithIntentColumns = followupColumns + `, i.name, i.description`
	followupWithIntentFrom    = `FROM followup f LEFT JOIN intent i ON i.id = f.intent_id`
)

func (r *followupRepository) Create(ctx context.Context, followup *models.Followup) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO followup (question, target_entity, sort_order, intent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		followup.Question,
		followup.TargetEntity,
		followup.Order,
		intentIDOf(followup.Intent()),
	).Scan(&followup.ID)
	if err != nil {
		return fmt.Errorf("failed to create followup: %w", err)
	}
	return nil
}

func (r *followupRepository) Update(ctx context.Context, followup *models.Followup) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE followup
		SET question = $2, target_entity = $3, sort_order = $4, intent_id = $5
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		followup.ID,
		followup.Question,
		followup.TargetEntity,
		followup.Order,
		intentIDOf(followup.Intent()),
	)
	if err != nil {
		return fmt.Errorf("failed to update followup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *followupRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "followup", id)
}

func (r *followupRepository) FindByID(ctx context.Context, id int64) (*models.Followup, error) {
	return r.one(ctx, `SELECT `+followupColumns+` FROM followup f WHERE f.id = $1`, id, false)
}

func (r *followupRepository) FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Followup, error) {
	return r.one(ctx, `SELECT `+followupWithIntentColumns+` `+followupWithIntentFrom+` WHERE f.id = $1`, id, true)
}

func (r *followupRepository) FindAll(ctx context.Context) ([]*models.Followup, error) {
	return r.list(ctx, `SELECT `+followupColumns+` FROM followup f ORDER BY f.id`, false)
}

func (r *followupRepository) FindAllWithToOneRelationships(ctx context.Context) ([]*models.Followup, error) {
	return r.list(ctx, `SELECT `+followupWithIntentColumns+` `+followupWithIntentFrom+` ORDER BY f.id`, true)
}

func (r *followupRepository) FindAllByIntentIDs(ctx context.Context, intentIDs []int64) ([]*models.Followup, error) {
	if len(intentIDs) == 0 {
		return []*models.Followup{}, nil
	}
	query := `SELECT ` + followupColumns + ` FROM followup f
		WHERE f.intent_id = ANY($1)
		ORDER BY f.intent_id, f.sort_order NULLS LAST, f.id`
	return r.list(ctx, query, false, intentIDs)
}

func (r *followupRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "followup", id)
}

func (r *followupRepository) one(ctx context.Context, query string, id int64, withIntent bool) (*models.Followup, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	followup, err := scanFollowup(q.QueryRow(ctx, query, id), withIntent, intentStubs{})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get followup: %w", err)
	}
	return followup, nil
}

func (r *followupRepository) list(ctx context.Context, query string, withIntent bool, args ...any) ([]*models.Followup, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list followups: %w", err)
	}
	defer rows.Close()

	stubs := intentStubs{}
	followups := make([]*models.Followup, 0)
	for rows.Next() {
		followup, err := scanFollowup(rows, withIntent, stubs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan followup: %w", err)
		}
		followups = append(followups, followup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating followups: %w", err)
	}
	return followups, nil
}

func scanFollowup(row pgx.Row, withIntent bool, stubs intentStubs) (*models.Followup, error) {
	var f models.Followup
	var intentID *int64
	var intentName, intentDescription *string

	dest := []any{&f.ID, &f.Question, &f.TargetEntity, &f.Order, &intentID}
	if withIntent {
		dest = append(dest, &intentName, &intentDescription)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if intent := stubs.get(intentID); intent != nil {
		fillIntent(intent, intentName, intentDescription)
		f.SetIntent(intent)
	}
	return &f, nil
}
