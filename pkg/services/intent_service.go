package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/mappers"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// IntentService manages intents and their links to bots, responses and entities.
type IntentService interface {
	Save(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error)
	Update(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error)

	// PartialUpdate overwrites the fields present in d. A present relationship
	// field replaces the link; explicit null removes it.
	PartialUpdate(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error)

	// FindAll returns a page of intents with id-only relationship references.
	FindAll(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentDTO], error)

	// FindAllWithEagerRelationships returns a page of intents with their bot and entities loaded.
	FindAllWithEagerRelationships(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentDTO], error)

	FindOne(ctx context.Context, id int64) (*dto.IntentDTO, error)
	FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.IntentDTO, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type intentService struct {
	repo   repositories.IntentRepository
	tx     database.TxRunner
	logger *zap.Logger
}

// NewIntentService creates a new IntentService.
func NewIntentService(repo repositories.IntentRepository, tx database.TxRunner, logger *zap.Logger) IntentService {
	return &intentService{
		repo:   repo,
		tx:     tx,
		logger: logger.Named("intent"),
	}
}

var _ IntentService = (*intentService)(nil)

func (s *intentService) Save(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	intent := mappers.ToIntentEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, intent)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved intent", zap.Int64("intent_id", intent.ID), zap.String("name", intent.Name))
	return mappers.ToIntentDTO(intent), nil
}

func (s *intentService) Update(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	intent := mappers.ToIntentEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, intent)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Updated intent", zap.Int64("intent_id", intent.ID))
	return mappers.ToIntentDTO(intent), nil
}

func (s *intentService) PartialUpdate(ctx context.Context, d *dto.IntentDTO) (*dto.IntentDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.IntentDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		// Entities must be loaded so Update rewrites the join rows from the full set.
		existing, err := s.repo.FindOneWithEagerRelationships(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateIntent(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		result = mappers.ToIntentDTO(existing)
		return nil
	})
	return result, err
}

func (s *intentService) FindAll(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentDTO], error) {
	return s.findPage(ctx, p, s.repo.FindAll)
}

func (s *intentService) FindAllWithEagerRelationships(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentDTO], error) {
	return s.findPage(ctx, p, s.repo.FindAllWithEagerRelationships)
}

func (s *intentService) findPage(
	ctx context.Context,
	p models.Pageable,
	find func(context.Context, models.Pageable) (*models.Page[*models.Intent], error),
) (*models.Page[*dto.IntentDTO], error) {
	var result *models.Page[*dto.IntentDTO]
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		page, err := find(ctx, p)
		if err != nil {
			return err
		}
		result = models.MapPage(page, mappers.ToIntentDTO)
		return nil
	})
	return result, err
}

func (s *intentService) FindOne(ctx context.Context, id int64) (*dto.IntentDTO, error) {
	return s.findOne(ctx, id, s.repo.FindByID)
}

func (s *intentService) FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.IntentDTO, error) {
	return s.findOne(ctx, id, s.repo.FindOneWithEagerRelationships)
}

func (s *intentService) findOne(
	ctx context.Context,
	id int64,
	find func(context.Context, int64) (*models.Intent, error),
) (*dto.IntentDTO, error) {
	var result *dto.IntentDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		intent, err := find(ctx, id)
		if err != nil || intent == nil {
			return err
		}
		result = mappers.ToIntentDTO(intent)
		return nil
	})
	return result, err
}

func (s *intentService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("Deleted intent", zap.Int64("intent_id", id))
	return nil
}

func (s *intentService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}
