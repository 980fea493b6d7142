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

// IntentEntityService manages intent entities. Reads list the intents using each entity.
type IntentEntityService interface {
	Save(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error)
	Update(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error)
	PartialUpdate(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error)
	FindAll(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentEntityDTO], error)
	FindOne(ctx context.Context, id int64) (*dto.IntentEntityDTO, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type intentEntityService struct {
	repo   repositories.IntentEntityRepository
	tx     database.TxRunner
	logger *zap.Logger
}

// NewIntentEntityService creates a new IntentEntityService.
func NewIntentEntityService(repo repositories.IntentEntityRepository, tx database.TxRunner, logger *zap.Logger) IntentEntityService {
	return &intentEntityService{
		repo:   repo,
		tx:     tx,
		logger: logger.Named("intent-entity"),
	}
}

var _ IntentEntityService = (*intentEntityService)(nil)

func (s *intentEntityService) Save(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	entity := mappers.ToIntentEntityEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, entity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved intent entity", zap.Int64("intent_entity_id", entity.ID))
	return mappers.ToIntentEntityDTO(entity), nil
}

func (s *intentEntityService) Update(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	entity := mappers.ToIntentEntityEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return err
		}
		return s.repo.FetchIntents(ctx, []*models.IntentEntity{entity})
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToIntentEntityDTO(entity), nil
}

func (s *intentEntityService) PartialUpdate(ctx context.Context, d *dto.IntentEntityDTO) (*dto.IntentEntityDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.IntentEntityDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		existing, err := s.repo.FindByID(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateIntentEntity(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := s.repo.FetchIntents(ctx, []*models.IntentEntity{existing}); err != nil {
			return err
		}
		result = mappers.ToIntentEntityDTO(existing)
		return nil
	})
	return result, err
}

func (s *intentEntityService) FindAll(ctx context.Context, p models.Pageable) (*models.Page[*dto.IntentEntityDTO], error) {
	var result *models.Page[*dto.IntentEntityDTO]
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		page, err := s.repo.FindAll(ctx, p)
		if err != nil {
			return err
		}
		if err := s.repo.FetchIntents(ctx, page.Content); err != nil {
			return err
		}
		result = models.MapPage(page, mappers.ToIntentEntityDTO)
		return nil
	})
	return result, err
}

func (s *intentEntityService) FindOne(ctx context.Context, id int64) (*dto.IntentEntityDTO, error) {
	var result *dto.IntentEntityDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		entity, err := s.repo.FindByID(ctx, id)
		if err != nil || entity == nil {
			return err
		}
		if err := s.repo.FetchIntents(ctx, []*models.IntentEntity{entity}); err != nil {
			return err
		}
		result = mappers.ToIntentEntityDTO(entity)
		return nil
	})
	return result, err
}

func (s *intentEntityService) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *intentEntityService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}
