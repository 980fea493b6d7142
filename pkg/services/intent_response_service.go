package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/cache"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/mappers"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// IntentResponseService manages the canned responses of intents.
type IntentResponseService interface {
	Save(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error)
	Update(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error)
	PartialUpdate(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error)
	FindAll(ctx context.Context) ([]*dto.IntentResponseDTO, error)

	// FindAllWhereIntentIsNull lists the responses no intent points at.
	FindAllWhereIntentIsNull(ctx context.Context) ([]*dto.IntentResponseDTO, error)

	FindOne(ctx context.Context, id int64) (*dto.IntentResponseDTO, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type intentResponseService struct {
	repo   repositories.IntentResponseRepository
	tx     database.TxRunner
	cached cachedReads
	logger *zap.Logger
}

// NewIntentResponseService creates a new IntentResponseService.
func NewIntentResponseService(
	repo repositories.IntentResponseRepository,
	tx database.TxRunner,
	c cache.EntityCache,
	logger *zap.Logger,
) IntentResponseService {
	logger = logger.Named("intent-response")
	return &intentResponseService{
		repo:   repo,
		tx:     tx,
		cached: cachedReads{cache: c, kind: cache.KindIntentResponse, logger: logger},
		logger: logger,
	}
}

var _ IntentResponseService = (*intentResponseService)(nil)

func (s *intentResponseService) Save(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error) {
	if d.ID != nil {
		return nil, apperrors.ErrIDExists
	}
	resp := mappers.ToIntentResponseEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Create(ctx, resp)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved intent response", zap.Int64("intent_response_id", resp.ID))
	return mappers.ToIntentResponseDTO(resp), nil
}

func (s *intentResponseService) Update(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}
	resp := mappers.ToIntentResponseEntity(d)

	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Update(ctx, resp)
	})
	if err != nil {
		return nil, err
	}

	s.cached.evict(ctx, resp.ID)
	return mappers.ToIntentResponseDTO(resp), nil
}

func (s *intentResponseService) PartialUpdate(ctx context.Context, d *dto.IntentResponseDTO) (*dto.IntentResponseDTO, error) {
	if d.ID == nil {
		return nil, apperrors.ErrIDNull
	}

	var result *dto.IntentResponseDTO
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		existing, err := s.repo.FindByID(ctx, *d.ID)
		if err != nil || existing == nil {
			return err
		}
		mappers.PartialUpdateIntentResponse(existing, d)
		if err := s.repo.Update(ctx, existing); err != nil {
			return err
		}
		result = mappers.ToIntentResponseDTO(existing)
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

func (s *intentResponseService) FindAll(ctx context.Context) ([]*dto.IntentResponseDTO, error) {
	var result []*dto.IntentResponseDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		responses, err := s.repo.FindAll(ctx)
		if err != nil {
			return err
		}
		result = toIntentResponseDTOs(responses)
		return nil
	})
	return result, err
}

func (s *intentResponseService) FindAllWhereIntentIsNull(ctx context.Context) ([]*dto.IntentResponseDTO, error) {
	var result []*dto.IntentResponseDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		responses, err := s.repo.FindAllWithIntent(ctx)
		if err != nil {
			return err
		}
		orphans := make([]*models.IntentResponse, 0, len(responses))
		for _, r := range responses {
			if r.Intent() == nil {
				orphans = append(orphans, r)
			}
		}
		result = toIntentResponseDTOs(orphans)
		return nil
	})
	return result, err
}

func (s *intentResponseService) FindOne(ctx context.Context, id int64) (*dto.IntentResponseDTO, error) {
	var cached dto.IntentResponseDTO
	if s.cached.get(ctx, id, &cached) {
		return &cached, nil
	}

	var result *dto.IntentResponseDTO
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		resp, err := s.repo.FindByID(ctx, id)
		if err != nil || resp == nil {
			return err
		}
		result = mappers.ToIntentResponseDTO(resp)
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

func (s *intentResponseService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, database.ReadWrite, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cached.evict(ctx, id)
	return nil
}

func (s *intentResponseService) Exists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) (err error) {
		found, err = s.repo.ExistsByID(ctx, id)
		return err
	})
	return found, err
}

func toIntentResponseDTOs(responses []*models.IntentResponse) []*dto.IntentResponseDTO {
	out := make([]*dto.IntentResponseDTO, 0, len(responses))
	for _, r := range responses {
		out = append(out, mappers.ToIntentResponseDTO(r))
	}
	return out
}
