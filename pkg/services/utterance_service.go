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

// UtteranceService manages the example phrases of intents.
type UtteranceService interface {
	Save(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error)
	Update(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error)
	PartialUpdate(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error)
	FindAll(ctx context.Context) ([]*dto.UtteranceDTO, error)

	// FindAllWithEagerRelationships loads the name of each intent along with the utterances.
	FindAllWithEagerRelationships(ctx context.Context) ([]*dto.UtteranceDTO, error)

	FindOne(ctx context.Context, id int64) (*dto.UtteranceDTO, error)
	FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.UtteranceDTO, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type utteranceService struct {
	repo   repositories.UtteranceRepository
	tx     database.TxRunner
	logger *zap.Logger
}

// NewUtteranceService creates a new UtteranceService.
func NewUtteranceService(repo repositories.UtteranceRepository, tx database.TxRunner, logger *zap.Logger) UtteranceService {
	return &utteranceService{
		repo:   repo,
		tx:     tx,
		logger: logger.Named("utterance"),
	}
}

var _ UtteranceService = (*utteranceService)(nil)

func (s *utteranceService) Save(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	record := mappers.ToUtteranceEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved utterance", zap.Int64("utterance_id", record.ID))
	return mappers.ToUtteranceDTO(record), nil
}

func (s *utteranceService) Update(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	record := mappers.ToUtteranceEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToUtteranceDTO(record), nil
}

func (s *utteranceService) PartialUpdate(ctx context.Context, d *dto.UtteranceDTO) (*dto.UtteranceDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.UtteranceDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		existing, err := s.repo.FindOneWithToOneRelationships(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateUtterance(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		result = mappers.ToUtteranceDTO(existing)
		return nil
	})
	return result, err
}

func (s *utteranceService) FindAll(ctx context.Context) ([]*dto.UtteranceDTO, error) {
	return s.findAll(ctx, s.repo.FindAll)
}

func (s *utteranceService) FindAllWithEagerRelationships(ctx context.Context) ([]*dto.UtteranceDTO, error) {
	return s.findAll(ctx, s.repo.FindAllWithToOneRelationships)
}

func (s *utteranceService) findAll(
	ctx context.Context,
	find func(context.Context) ([]*models.Utterance, error),
) ([]*dto.UtteranceDTO, error) {
	var result []*dto.UtteranceDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		records, err := find(ctx)
		if err != nil {
			return err
		}
		result = make([]*dto.UtteranceDTO, 0, len(records))
		for _, r := range records {
			result = append(result, mappers.ToUtteranceDTO(r))
		}
		return nil
	})
	return result, err
}

func (s *utteranceService) FindOne(ctx context.Context, id int64) (*dto.UtteranceDTO, error) {
	return s.findOne(ctx, id, s.repo.FindByID)
}

func (s *utteranceService) FindOneWithEagerRelationships(ctx context.Context, id int64) (*dto.UtteranceDTO, error) {
	return s.findOne(ctx, id, s.repo.FindOneWithToOneRelationships)
}

func (s *utteranceService) findOne(
	ctx context.Context,
	id int64,
	find func(context.Context, int64) (*models.Utterance, error),
) (*dto.UtteranceDTO, error) {
	var result *dto.UtteranceDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		record, err := find(ctx, id)
		if err != nil || record == nil {
			return err
		}
		result = mappers.ToUtteranceDTO(record)
		return nil
	})
	return result, err
}

func (s *utteranceService) Delete(ctx context.Context, id int64) error {
	return s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *utteranceService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}
