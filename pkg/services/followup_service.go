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

// FollowupService manages the follow-up questions of intents.
type FollowupService interface {
	Save(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error)
	Update(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error)
	PartialUpdate(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error)
	FindAll(ctx context.Context) ([]*dto.FollowupDTO, error)

	// FindAllWithEagerRelationships loads the name of each intent along with the follow-ups.
	FindAllWithEagerRelationships(ctx context.Context) ([]*dto.FollowupDTO, error)

	FindOne(ctx context.Context, id int64) (*dto.FollowupDTO, error)
	FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.FollowupDTO, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type followupService struct {
	repo   repositories.FollowupRepository
	tx     database.TxRunner
	logger *zap.Logger
}

// NewFollowupService creates a new FollowupService.
func NewFollowupService(repo repositories.FollowupRepository, tx database.TxRunner, logger *zap.Logger) FollowupService {
	return &followupService{
		repo:   repo,
		tx:     tx,
		logger: logger.Named("followup"),
	}
}

var _ FollowupService = (*followupService)(nil)

func (s *followupService) Save(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	record := mappers.ToFollowupEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved followup", zap.Int64("followup_id", record.ID))
	return mappers.ToFollowupDTO(record), nil
}

func (s *followupService) Update(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	record := mappers.ToFollowupEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToFollowupDTO(record), nil
}

func (s *followupService) PartialUpdate(ctx context.Context, d *dto.FollowupDTO) (*dto.FollowupDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.FollowupDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		existing, err := s.repo.FindOneWithToOneRelationships(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateFollowup(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		result = mappers.ToFollowupDTO(existing)
		return nil
	})
	return result, err
}

func (s *followupService) FindAll(ctx context.Context) ([]*dto.FollowupDTO, error) {
	return s.findAll(ctx, s.repo.FindAll)
}

func (s *followupService) FindAllWithEagerRelationships(ctx context.Context) ([]*dto.FollowupDTO, error) {
	return s.findAll(ctx, s.repo.FindAllWithToOneRelationships)
}

func (s *followupService) findAll(
	ctx context.Context,
	find func(context.Context) ([]*models.Followup, error),
) ([]*dto.FollowupDTO, error) {
	var result []*dto.FollowupDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		records, err := find(ctx)
		if err != nil {
			return err
		}
		result = make([]*dto.FollowupDTO, 0, len(records))
		for _, r := range records {
			result = append(result, mappers.ToFollowupDTO(r))
		}
		return nil
	})
	return result, err
}

func (s *followupService) FindOne(ctx context.Context, id int64) (*dto.FollowupDTO, error) {
	return s.findOne(ctx, id, s.repo.FindByID)
}

func (s *followupService) FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.FollowupDTO, error) {
	return s.findOne(ctx, id, s.repo.FindOneWithToOneRelationships)
}

func (s *followupService) findOne(
	ctx context.Context,
	id int64,
	find func(context.Context, int64) (*models.Followup, error),
) (*dto.FollowupDTO, error) {
	var result *dto.FollowupDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		record, err := find(ctx, id)
		if err != nil || record == nil {
			return err
		}
		result = mappers.ToFollowupDTO(record)
		return nil
	})
	return result, err
}

func (s *followupService) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *followupService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}
