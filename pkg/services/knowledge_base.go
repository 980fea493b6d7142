package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// ExportFormatVersion is written at the top of every exported document.
const ExportFormatVersion = 1

// KnowledgeBaseExport is the YAML document describing one bot.
type KnowledgeBaseExport struct {
	Version int              `yaml:"version"`
	Bot     ExportedBot      `yaml:"bot"`
	Intents []ExportedIntent `yaml:"intents"`
}

type ExportedBot struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Active      *bool   `yaml:"active,omitempty"`
}

type ExportedIntent struct {
	Name        string              `yaml:"name"`
	Description *string             `yaml:"description,omitempty"`
	Response    *string             `yaml:"response,omitempty"`
	Entities    []ExportedEntity    `yaml:"entities,omitempty"`
	Utterances  []ExportedUtterance `yaml:"utterances,omitempty"`
	Followups   []ExportedFollowup  `yaml:"followups,omitempty"`
}

type ExportedEntity struct {
	Name     string `yaml:"name"`
	Optional *bool  `yaml:"optional,omitempty"`
}

type ExportedUtterance struct {
	Text     string  `yaml:"text"`
	Language *string `yaml:"language,omitempty"`
}

type ExportedFollowup struct {
	Question     string `yaml:"question"`
	TargetEntity string `yaml:"target_entity"`
	Order        *int32 `yaml:"order,omitempty"`
}

// KnowledgeBaseService assembles whole-bot views across repositories.
type KnowledgeBaseService interface {
	// ExportBot renders a bot with its intents, their response, entities,
	// utterances and follow-ups as YAML. Returns apperrors.ErrNotFound for an unknown bot.
	ExportBot(ctx context.Context, botID int64) ([]byte, error)
}

type knowledgeBaseService struct {
	bots       repositories.BotRepository
	intents    repositories.IntentRepository
	responses  repositories.IntentResponseRepository
	utterances repositories.UtteranceRepository
	followups  repositories.FollowupRepository
	tx         database.TxRunner
	logger     *zap.Logger
}

// NewKnowledgeBaseService creates a new KnowledgeBaseService.
func NewKnowledgeBaseService(
	bots repositories.BotRepository,
	intents repositories.IntentRepository,
	responses repositories.IntentResponseRepository,
	utterances repositories.UtteranceRepository,
	followups repositories.FollowupRepository,
	tx database.TxRunner,
	logger *zap.Logger,
) KnowledgeBaseService {
	return &knowledgeBaseService{
		bots:       bots,
		intents:    intents,
		responses:  responses,
		utterances: utterances,
		followups:  followups,
		tx:         tx,
		logger:     logger.Named("knowledge-base"),
	}
}

var _ KnowledgeBaseService = (*knowledgeBaseService)(nil)

func (s *knowledgeBaseService) ExportBot(ctx context.Context, botID int64) ([]byte, error) {
	var export *KnowledgeBaseExport
	err := s.tx.RunInTx(ctx, database.ReadOnly, func(ctx context.Context) error {
		var err error
		export, err = s.collect(ctx, botID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out, err := yaml.Marshal(export)
	if err != nil {
		return nil, fmt.Errorf("failed to encode knowledge base: %w", err)
	}

	s.logger.Info("Exported knowledge base",
		zap.Int64("bot_id", botID),
		zap.Int("intents", len(export.Intents)))
	return out, nil
}

func (s *knowledgeBaseService) collect(ctx context.Context, botID int64) (*KnowledgeBaseExport, error) {
	bot, err := s.bots.FindByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, fmt.Errorf("bot %d: %w", botID, apperrors.ErrNotFound)
	}

	intents, err := s.intents.FindAllByBot(ctx, botID)
	if err != nil {
		return nil, err
	}
	intents, err = s.intents.FetchBagRelationships(ctx, intents)
	if err != nil {
		return nil, err
	}

	intentIDs := make([]int64, 0, len(intents))
	responseIDs := make([]int64, 0, len(intents))
	for _, i := range intents {
		intentIDs = append(intentIDs, i.ID)
		if i.Response() != nil {
			responseIDs = append(responseIDs, i.Response().ID)
		}
	}

	responses, err := s.responses.FindAllByIDs(ctx, responseIDs)
	if err != nil {
		return nil, err
	}
	messages := make(map[int64]string, len(responses))
	for _, r := range responses {
		messages[r.ID] = r.Message
	}

	utterances, err := s.utterances.FindAllByIntentIDs(ctx, intentIDs)
	if err != nil {
		return nil, err
	}
	utterancesByIntent := make(map[int64][]ExportedUtterance)
	for _, u := range utterances {
		id := u.Intent().ID
		utterancesByIntent[id] = append(utterancesByIntent[id], ExportedUtterance{Text: u.Text, Language: u.Language})
	}

	followups, err := s.followups.FindAllByIntentIDs(ctx, intentIDs)
	if err != nil {
		return nil, err
	}
	followupsByIntent := make(map[int64][]ExportedFollowup)
	for _, f := range followups {
		id := f.Intent().ID
		followupsByIntent[id] = append(followupsByIntent[id], ExportedFollowup{
			Question:     f.Question,
			TargetEntity: f.TargetEntity,
			Order:        f.Order,
		})
	}

	export := &KnowledgeBaseExport{
		Version: ExportFormatVersion,
		Bot: ExportedBot{
			ID:          bot.ID,
			Name:        bot.Name,
			Description: bot.Description,
			Active:      bot.Active,
		},
		Intents: make([]ExportedIntent, 0, len(intents)),
	}
	for _, i := range intents {
		export.Intents = append(export.Intents, exportIntent(i, messages, utterancesByIntent[i.ID], followupsByIntent[i.ID]))
	}
	return export, nil
}

func exportIntent(
	i *models.Intent,
	messages map[int64]string,
	utterances []ExportedUtterance,
	followups []ExportedFollowup,
) ExportedIntent {
	out := ExportedIntent{
		Name:        i.Name,
		Description: i.Description,
		Utterances:  utterances,
		Followups:   followups,
	}
	if i.Response() != nil {
		if msg, ok := messages[i.Response().ID]; ok {
			out.Response = &msg
		}
	}
	for _, e := range i.Entities() {
		out.Entities = append(out.Entities, ExportedEntity{Name: e.Name, Optional: e.Optional})
	}
	return out
}
