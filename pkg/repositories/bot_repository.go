package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// BotRepository provides data access for bots.
type BotRepository interface {
	Create(ctx context.Context, bot *models.Bot) error
	Update(ctx context.Context, bot *models.Bot) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Bot, error)
	FindAll(ctx context.Context) ([]*models.Bot, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type botRepository struct{}

// NewBotRepository creates a new BotRepository.
func NewBotRepository() BotRepository {
	return &botRepository{}
}

var _ BotRepository = (*botRepository)(nil)

const botColumns = `id, name, description, active`

func (r *botRepository) Create(ctx context.Context, bot *models.Bot) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bot (name, description, active)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := q.QueryRow(ctx, query, bot.Name, bot.Description, bot.Active).Scan(&bot.ID); err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	return nil
}

func (r *botRepository) Update(ctx context.Context, bot *models.Bot) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE bot
		SET name = $2, description = $3, active = $4
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, bot.ID, bot.Name, bot.Description, bot.Active)
	if err != nil {
		return fmt.Errorf("failed to update bot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *botRepository) Delete(ctx context.Context, id int64) error {
	q, err := querier(ctx)
	if err != nil {
		return err
	}
	return deleteByID(ctx, q, "bot", id)
}

func (r *botRepository) FindByID(ctx context.Context, id int64) (*models.Bot, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	bot, err := scanBot(q.QueryRow(ctx, `SELECT `+botColumns+` FROM bot WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bot: %w", err)
	}
	return bot, nil
}

func (r *botRepository) FindAll(ctx context.Context) ([]*models.Bot, error) {
	q, err := querier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+botColumns+` FROM bot ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}
	defer rows.Close()

	bots := make([]*models.Bot, 0)
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bot: %w", err)
		}
		bots = append(bots, bot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bots: %w", err)
	}
	return bots, nil
}

func (r *botRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q, err := querier(ctx)
	if err != nil {
		return false, err
	}
	return exists(ctx, q, "bot", id)
}

func scanBot(row pgx.Row) (*models.Bot, error) {
	var b models.Bot
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Active); err != nil {
		return nil, err
	}
	return &b, nil
}
