package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// IntentRepository provides data access for intents and their entity links.
//
// Plain reads attach id-only stubs for the bot and response. The
// WithToOneRelationships reads load the bot in the same query, and the
// WithEagerRelationships reads additionally fetch the entity set.
type IntentRepository interface {
	Create(ctx context.Context, intent *models.Intent) error
	Update(ctx context.Context, intent *models.Intent) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Intent, error)
	FindAll(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Intent, error)
	FindAllWithToOneRelationships(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error)
	FindOneWithEagerRelationships(ctx context.Context, id int64) (*models.Intent, error)
	FindAllWithEagerRelationships(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error)

	// FetchBagRelationships loads the entity sets of intents with one query
	// and returns the intents in their input order.
	FetchBagRelationships(ctx context.Context, intents []*models.Intent) ([]*models.Intent, error)

	// FindAllByBot lists the intents of a bot with their bot loaded, in id order.
	FindAllByBot(ctx context.Context, botID int64) ([]*models.Intent, error)
}

type intentRepository struct{}

// NewIntentRepository creates a new IntentRepository.
func NewIntentRepository() IntentRepository {
	return &intentRepository{}
}

var _ IntentRepository = (*intentRepository)(nil)

var intentSortColumns = map[string]string{
	"id":          "i.id",
	"name":        "i.name",
	"description": "i.description",
}

const (
	intentColumns = `i.id, i.name, i.description, i.response_id, i.bot_id`

	intentWithBotColumns = intentColumns + `, b.name, b.description, b.active`
	intentWithBotFrom    = `FROM intent i LEFT JOIN bot b ON b.id = i.bot_id`
)

// ============================================================================
// Writes
// ============================================================================

func (r *intentRepository) Create(ctx context.Context, intent *models.Intent) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO intent (name, description, response_id, bot_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = q.QueryRow(ctx, query,
		intent.Name,
		intent.Description,
		responseID(intent),
		botID(intent),
	).Scan(&intent.ID)
	if err != nil {
		return fmt.Errorf("failed to create intent: %w", err)
	}

	return r.writeEntities(ctx, q, intent)
}

func (r *intentRepository) Update(ctx context.Context, intent *models.Intent) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE intent
		SET name = $2, description = $3, response_id = $4, bot_id = $5
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		intent.ID,
		intent.Name,
		intent.Description,
		responseID(intent),
		botID(intent),
	)
	if err != nil {
		return fmt.Errorf("failed to update intent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.writeEntities(ctx, q, intent)
}

// writeEntities replaces the join rows of intent with its current entity set.
func (r *intentRepository) writeEntities(ctx context.Context, q database.Querier, intent *models.Intent) error {
	if _, err := q.Exec(ctx, `DELETE FROM rel_intent__entities WHERE intent_id = $1`, intent.ID); err != nil {
		return fmt.Errorf("failed to clear intent entities: %w", err)
	}

	ids := make([]int64, 0, len(intent.Entities()))
	for _, e := range intent.Entities() {
		if e.ID != 0 {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	query := `
		INSERT INTO rel_intent__entities (intent_id, entities_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`

	if _, err := q.Exec(ctx, query, intent.ID, ids); err != nil {
		return fmt.Errorf("failed to link intent entities: %w", err)
	}
	return nil
}

func (r *intentRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "intent", id)
}

// ============================================================================
// Reads
// ============================================================================

func (r *intentRepository) FindByID(ctx context.Context, id int64) (*models.Intent, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	intent, err := scanIntent(q.QueryRow(ctx, `SELECT `+intentColumns+` FROM intent i WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intent: %w", err)
	}
	return intent, nil
}

func (r *intentRepository) FindAll(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	return r.page(ctx, p, intentColumns, `FROM intent i`, scanIntent)
}

func (r *intentRepository) FindOneWithToOneRelationships(ctx context.Context, id int64) (*models.Intent, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + intentWithBotColumns + ` ` + intentWithBotFrom + ` WHERE i.id = $1`
	intent, err := scanIntentWithBot(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intent: %w", err)
	}
	return intent, nil
}

func (r *intentRepository) FindAllWithToOneRelationships(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	return r.page(ctx, p, intentWithBotColumns, intentWithBotFrom, scanIntentWithBot)
}

func (r *intentRepository) FindOneWithEagerRelationships(ctx context.Context, id int64) (*models.Intent, error) {
	intent, err := r.FindOneWithToOneRelationships(ctx, id)
	if err != nil || intent == nil {
		return intent, err
	}
	fetched, err := r.FetchBagRelationships(ctx, []*models.Intent{intent})
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, nil
	}
	return fetched[0], nil
}

func (r *intentRepository) FindAllWithEagerRelationships(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	page, err := r.FindAllWithToOneRelationships(ctx, p)
	if err != nil {
		return nil, err
	}
	page.Content, err = r.FetchBagRelationships(ctx, page.Content)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *intentRepository) FindAllByBot(ctx context.Context, botID int64) ([]*models.Intent, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + intentWithBotColumns + ` ` + intentWithBotFrom + ` WHERE i.bot_id = $1 ORDER BY i.id`
	rows, err := q.Query(ctx, query, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to list intents of bot: %w", err)
	}
	defer rows.Close()

	intents := make([]*models.Intent, 0)
	for rows.Next() {
		intent, err := scanIntentWithBot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intent: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intents: %w", err)
	}
	return intents, nil
}

func (r *intentRepository) FetchBagRelationships(ctx context.Context, intents []*models.Intent) ([]*models.Intent, error) {
	if len(intents) == 0 {
		return intents, nil
	}
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	positions := positionsOf(intents, func(i *models.Intent) int64 { return i.ID })
	byID := make(map[int64]*models.Intent, len(intents))
	ids := make([]int64, 0, len(intents))
	for _, intent := range intents {
		byID[intent.ID] = intent
		ids = append(ids, intent.ID)
	}

	// No ORDER BY: input order is restored by reorderByPosition.
	query := `
		SELECT i.id, e.id, e.name, e.optional
		FROM intent i
		LEFT JOIN rel_intent__entities r ON r.intent_id = i.id
		LEFT JOIN intent_entity e ON e.id = r.entities_id
		WHERE i.id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch intent entities: %w", err)
	}
	defer rows.Close()

	fetched := make([]*models.Intent, 0, len(intents))
	seen := make(map[int64]bool, len(intents))
	entities := make(map[int64]*models.IntentEntity)
	for rows.Next() {
		var intentID int64
		var entityID *int64
		var entityName *string
		var entityOptional *bool
		if err := rows.Scan(&intentID, &entityID, &entityName, &entityOptional); err != nil {
			return nil, fmt.Errorf("failed to scan intent entity: %w", err)
		}

		intent := byID[intentID]
		if !seen[intentID] {
			seen[intentID] = true
			intent.SetEntities(nil)
			fetched = append(fetched, intent)
		}
		if entityID == nil {
			continue
		}

		entity, ok := entities[*entityID]
		if !ok {
			entity = &models.IntentEntity{ID: *entityID, Optional: entityOptional}
			if entityName != nil {
				entity.Name = *entityName
			}
			entities[*entityID] = entity
		}
		intent.AddEntity(entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intent entities: %w", err)
	}

	return reorderByPosition(fetched, positions, func(i *models.Intent) int64 { return i.ID }), nil
}

func (r *intentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "intent", id)
}

func (r *intentRepository) page(
	ctx context.Context,
	p models.Pageable,
	columns, from string,
	scan func(pgx.Row) (*models.Intent, error),
) (*models.Page[*models.Intent], error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	order, err := orderBy(p, intentSortColumns, "i.id")
	if err != nil {
		return nil, err
	}

	total, err := count(ctx, q, "intent")
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + columns + ` ` + from + ` ` + order + ` LIMIT $1 OFFSET $2`
	rows, err := q.Query(ctx, query, p.Size, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list intents: %w", err)
	}
	defer rows.Close()

	intents := make([]*models.Intent, 0, p.Size)
	for rows.Next() {
		intent, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intent: %w", err)
		}
		intents = append(intents, intent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intents: %w", err)
	}

	return &models.Page[*models.Intent]{
		Content:       intents,
		Pageable:      p,
		TotalElements: total,
	}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func scanIntent(row pgx.Row) (*models.Intent, error) {
	var i models.Intent
	var respID, bID *int64
	if err := row.Scan(&i.ID, &i.Name, &i.Description, &respID, &bID); err != nil {
		return nil, err
	}
	attachToOneStubs(&i, respID, bID)
	return &i, nil
}

func scanIntentWithBot(row pgx.Row) (*models.Intent, error) {
	var i models.Intent
	var respID, bID *int64
	var botName, botDescription *string
	var botActive *bool
	if err := row.Scan(&i.ID, &i.Name, &i.Description, &respID, &bID,
		&botName, &botDescription, &botActive); err != nil {
		return nil, err
	}
	attachToOneStubs(&i, respID, bID)
	if i.Bot != nil {
		if botName != nil {
			i.Bot.Name = *botName
		}
		i.Bot.Description = botDescription
		i.Bot.Active = botActive
	}
	return &i, nil
}

func attachToOneStubs(i *models.Intent, respID, bID *int64) {
	if respID != nil {
		i.SetResponse(&models.IntentResponse{ID: *respID})
	}
	if bID != nil {
		i.Bot = &models.Bot{ID: *bID}
	}
}

func responseID(i *models.Intent) *int64 {
	if i.Response() == nil || i.Response().ID == 0 {
		return nil
	}
	id := i.Response().ID
	return &id
}

func botID(i *models.Intent) *int64 {
	if i.Bot == nil || i.Bot.ID == 0 {
		return nil
	}
	id := i.Bot.ID
	return &id
}
