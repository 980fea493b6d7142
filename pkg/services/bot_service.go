package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/cache"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/mappers"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// BotService manages bots.
type BotService interface {
	// Save creates a bot. The body must not carry an id.
	Save(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error)

	// Update overwrites every field of an existing bot.
	Update(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error)

	// PartialUpdate overwrites the fields present in d. Returns nil when the bot does not exist.
	PartialUpdate(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error)

	FindAll(ctx context.Context) ([]*dto.BotDTO, error)

	// FindOne returns nil when the bot does not exist.
	FindOne(ctx context.Context, id int64) (*dto.BotDTO, error)

	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type botService struct {
	repo   repositories.BotRepository
	tx     database.TxRunner
	cached cachedReads
	logger *zap.Logger
}

// NewBotService creates a new BotService.
func NewBotService(repo repositories.BotRepository, tx database.TxRunner, c cache.EntityCache, logger *zap.Logger) BotService {
	logger = logger.Named("bot")
	return &botService{
		repo:   repo,
		tx:     tx,
		cached: cachedReads{cache: c, kind: cache.KindBot, logger: logger},
		logger: logger,
	}
}

var _ BotService = (*botService)(nil)

func (s *botService) Save(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	bot := mappers.ToBotEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, bot)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved bot", zap.Int64("bot_id", bot.ID))
	return mappers.ToBotDTO(bot), nil
}

func (s *botService) Update(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	bot := mappers.ToBotEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, bot)
	})
	if err != nil {
		return nil, err
	}

	s.cached.evict(ctx, bot.ID)
	s.logger.Debug("Updated bot", zap.Int64("bot_id", bot.ID))
	return mappers.ToBotDTO(bot), nil
}

func (s *botService) PartialUpdate(ctx context.Context, d *dto.BotDTO) (*dto.BotDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.BotDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		existing, err := s.repo.FindByID(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateBot(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		result = mappers.ToBotDTO(existing)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		s.cached.evict(ctx, *d.ID)
	}
	return result, nil
}

func (s *botService) FindAll(ctx context.Context) ([]*dto.BotDTO, error) {
	var result []*dto.BotDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		bots, err := s.repo.FindAll(ctx)
		if err != nil {
			return err
		}
		result = make([]*dto.BotDTO, 0, len(bots))
		for _, b := range bots {
			result = append(result, mappers.ToBotDTO(b))
		}
		return nil
	})
	return result, err
}

func (s *botService) FindOne(ctx context.Context, id int64) (*dto.BotDTO, error) {
	var cached dto.BotDTO
	if s.cached.get(ctx, id, &cached) {
		return &cached, nil
	}

	var result *dto.BotDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		bot, err := s.repo.FindByID(ctx, id)
		if err != nil || bot == nil {
			return err
		}
		result = mappers.ToBotDTO(bot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		s.cached.put(ctx, id, result)
	}
	return result, nil
}

func (s *botService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cached.evict(ctx, id)
	s.logger.Debug("Deleted bot", zap.Int64("bot_id", id))
	return nil
}

func (s *botService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}
