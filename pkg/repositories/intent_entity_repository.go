package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// IntentEntityRepository provides data access for intent entities.
type IntentEntityRepository interface {
	Create(ctx context.Context, entity *models.IntentEntity) error
	Update(ctx context.Context, entity *models.IntentEntity) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.IntentEntity, error)
	FindAll(ctx context.Context, p models.Pageable) (*models.Page[*models.IntentEntity], error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// FetchIntents links each entity to stubs of the intents that use it.
	FetchIntents(ctx context.Context, entities []*models.IntentEntity) error
}

type intentEntityRepository struct{}

// NewIntentEntityRepository creates a new IntentEntityRepository.
func NewIntentEntityRepository() IntentEntityRepository {
	return &intentEntityRepository{}
}

var _ IntentEntityRepository = (*intentEntityRepository)(nil)

var intentEntitySortColumns = map[string]string{
	"id":       "e.id",
	"name":     "e.name",
	"optional": "e.optional",
}

func (r *intentEntityRepository) Create(ctx context.Context, entity *models.IntentEntity) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `INSERT INTO intent_entity (name, optional) VALUES ($1, $2) RETURNING id`
	if err := q.QueryRow(ctx, query, entity.Name, entity.Optional).Scan(&entity.ID); err != nil {
		return fmt.Errorf("failed to create intent entity: %w", err)
	}
	return nil
}

func (r *intentEntityRepository) Update(ctx context.Context, entity *models.IntentEntity) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `UPDATE intent_entity SET name = $2, optional = $3 WHERE id = $1`,
		entity.ID, entity.Name, entity.Optional)
	if err != nil {
		return fmt.Errorf("failed to update intent entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *intentEntityRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "intent_entity", id)
}

func (r *intentEntityRepository) FindByID(ctx context.Context, id int64) (*models.IntentEntity, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	var e models.IntentEntity
	err = q.QueryRow(ctx, `SELECT id, name, optional FROM intent_entity WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Optional)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intent entity: %w", err)
	}
	return &e, nil
}

func (r *intentEntityRepository) FindAll(ctx context.Context, p models.Pageable) (*models.Page[*models.IntentEntity], error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	order, err := orderBy(p, intentEntitySortColumns, "e.id")
	if err != nil {
		return nil, err
	}

	total, err := count(ctx, q, "intent_entity")
	if err != nil {
		return nil, err
	}

	query := `SELECT e.id, e.name, e.optional FROM intent_entity e ` + order + ` LIMIT $1 OFFSET $2`
	rows, err := q.Query(ctx, query, p.Size, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list intent entities: %w", err)
	}
	defer rows.Close()

	entities := make([]*models.IntentEntity, 0, p.Size)
	for rows.Next() {
		var e models.IntentEntity
		if err := rows.Scan(&e.ID, &e.Name, &e.Optional); err != nil {
			return nil, fmt.Errorf("failed to scan intent entity: %w", err)
		}
		entities = append(entities, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intent entities: %w", err)
	}

	return &models.Page[*models.IntentEntity]{
		Content:       entities,
		Pageable:      p,
		TotalElements: total,
	}, nil
}

func (r *intentEntityRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "intent_entity", id)
}

func (r *intentEntityRepository) FetchIntents(ctx context.Context, entities []*models.IntentEntity) error {
	if len(entities) == 0 {
		return nil
	}
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int64]*models.IntentEntity, len(entities))
	ids := make([]int64, 0, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT entities_id, intent_id
		FROM rel_intent__entities
		WHERE entities_id = ANY($1)
		ORDER BY intent_id`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch intents of entities: %w", err)
	}
	defer rows.Close()

	stubs := intentStubs{}
	for rows.Next() {
		var entityID, intentID int64
		if err := rows.Scan(&entityID, &intentID); err != nil {
			return fmt.Errorf("failed to scan entity membership: %w", err)
		}
		if e, ok := byID[entityID]; ok {
			e.AddIntent(stubs.get(&intentID))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating entity memberships: %w", err)
	}
	return nil
}
