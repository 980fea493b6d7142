package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// UtteranceRepository provides data access for utterances.
type UtteranceRepository interface {
	Create(ctx context.Context, utterance *models.Utterance) error
	Update(ctx context.Context, utterance *models.Utterance) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Utterance, error)
	FindAll(ctx context.Context) ([]*models.Utterance, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Utterance, error)
	FindAllWithToOneRelationships(ctx context.Context) ([]*models.Utterance, error)

	// FindAllByIntentIDs lists the utterances of the given intents, grouped by intent.
	FindAllByIntentIDs(ctx context.Context, intentIDs []int64) ([]*models.Utterance, error)
}

type utteranceRepository struct{}

// NewUtteranceRepository creates a new UtteranceRepository.
func NewUtteranceRepository() UtteranceRepository {
	return &utteranceRepository{}
}

var _ UtteranceRepository = (*utteranceRepository)(nil)

const (
	utteranceColumns = `u.id, u.text, u.language, u.intent_id`

	utteranceWithIntentColumns = utteranceColumns + `, i.name, i.description`
	utteranceWithIntentFrom    = `FROM utterance u LEFT JOIN intent i ON i.id = u.intent_id`
)

func (r *utteranceRepository) Create(ctx context.Context, utterance *models.Utterance) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO utterance (text, language, intent_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err = q.QueryRow(ctx, query, utterance.Text, utterance.Language, intentIDOf(utterance.Intent())).
		Scan(&utterance.ID)
	if err != nil {
		return fmt.Errorf("failed to create utterance: %w", err)
	}
	return nil
}

func (r *utteranceRepository) Update(ctx context.Context, utterance *models.Utterance) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE utterance
		SET text = $2, language = $3, intent_id = $4
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, utterance.ID, utterance.Text, utterance.Language, intentIDOf(utterance.Intent()))
	if err != nil {
		return fmt.Errorf("failed to update utterance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *utteranceRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "utterance", id)
}

func (r *utteranceRepository) FindByID(ctx context.Context, id int64) (*models.Utterance, error) {
	return r.one(ctx, `SELECT `+utteranceColumns+` FROM utterance u WHERE u.id = $1`, id, false)
}

func (r *utteranceRepository) FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Utterance, error) {
	return r.one(ctx, `SELECT `+utteranceWithIntentColumns+` `+utteranceWithIntentFrom+` WHERE u.id = $1`, id, true)
}

func (r *utteranceRepository) FindAll(ctx context.Context) ([]*models.Utterance, error) {
	return r.list(ctx, `SELECT `+utteranceColumns+` FROM utterance u ORDER BY u.id`, false)
}

func (r *utteranceRepository) FindAllWithToOneRelationships(ctx context.Context) ([]*models.Utterance, error) {
	return r.list(ctx, `SELECT `+utteranceWithIntentColumns+` `+utteranceWithIntentFrom+` ORDER BY u.id`, true)
}

func (r *utteranceRepository) FindAllByIntentIDs(ctx context.Context, intentIDs []int64) ([]*models.Utterance, error) {
	if len(intentIDs) == 0 {
		return []*models.Utterance{}, nil
	}
	query := `SELECT ` + utteranceColumns + ` FROM utterance u WHERE u.intent_id = ANY($1) ORDER BY u.intent_id, u.id`
	return r.list(ctx, query, false, intentIDs)
}

func (r *utteranceRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "utterance", id)
}

func (r *utteranceRepository) one(ctx context.Context, query string, id int64, withIntent bool) (*models.Utterance, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	utterance, err := scanUtterance(q.QueryRow(ctx, query, id), withIntent, intentStubs{})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get utterance: %w", err)
	}
	return utterance, nil
}

func (r *utteranceRepository) list(ctx context.Context, query string, withIntent bool, args ...any) ([]*models.Utterance, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list utterances: %w", err)
	}
	defer rows.Close()

	stubs := intentStubs{}
	utterances := make([]*models.Utterance, 0)
	for rows.Next() {
		utterance, err := scanUtterance(rows, withIntent, stubs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan utterance: %w", err)
		}
		utterances = append(utterances, utterance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating utterances: %w", err)
	}
	return utterances, nil
}

func scanUtterance(row pgx.Row, withIntent bool, stubs intentStubs) (*models.Utterance, error) {
	var u models.Utterance
	var intentID *int64
	var intentName, intentDescription *string

	dest := []any{&u.ID, &u.Text, &u.Language, &intentID}
	if withIntent {
		dest = append(dest, &intentName, &intentDescription)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if intent := stubs.get(intentID); intent != nil {
		fillIntent(intent, intentName, intentDescription)
		u.SetIntent(intent)
	}
	return &u, nil
}

// fillIntent copies joined intent columns onto a stub.
func fillIntent(intent *models.Intent, name, description *string) {
	if name != nil {
		intent.Name = *name
	}
	if description != nil {
		intent.Description = description
	}
}

func intentIDOf(intent *models.Intent) *int64 {
	if intent == nil || intent.ID == 0 {
		return nil
	}
	id := intent.ID
	return &id
}
