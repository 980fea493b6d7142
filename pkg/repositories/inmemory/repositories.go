package inmemory

import (
	"context"
	"slices"

	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// ============================================================================
// Bots
// ============================================================================

// BotRepository is the in-memory repositories.BotRepository.
type BotRepository struct{ s *Store }

var _ repositories.BotRepository = (*BotRepository)(nil)

func (r *BotRepository) Create(_ context.Context, bot *models.Bot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bot.ID = r.s.next("bot")
	r.s.bots[bot.ID] = copyBot(bot)
	return nil
}

func (r *BotRepository) Update(_ context.Context, bot *models.Bot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bots[bot.ID]; !ok {
		return missing("bot", bot.ID)
	}
	r.s.bots[bot.ID] = copyBot(bot)
	return nil
}

func (r *BotRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.bots, id)
	for iid, row := range r.s.intents {
		if row.botID != nil && *row.botID == id {
			row.botID = nil
			r.s.intents[iid] = row
		}
	}
	return nil
}

func (r *BotRepository) FindByID(_ context.Context, id int64) (*models.Bot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bots[id]
	if !ok {
		return nil, nil
	}
	out := copyBot(&b)
	return &out, nil
}

func (r *BotRepository) FindAll(_ context.Context) ([]*models.Bot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bots := make([]*models.Bot, 0, len(r.s.bots))
	for _, id := range sortedKeys(r.s.bots) {
		b := r.s.bots[id]
		out := copyBot(&b)
		bots = append(bots, &out)
	}
	return bots, nil
}

func (r *BotRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.bots[id]
	return ok, nil
}

func copyBot(b *models.Bot) models.Bot {
	return models.Bot{ID: b.ID, Name: b.Name, Description: clone(b.Description), Active: clone(b.Active)}
}

// ============================================================================
// Intent responses
// ============================================================================

// IntentResponseRepository is the in-memory repositories.IntentResponseRepository.
type IntentResponseRepository struct{ s *Store }

var _ repositories.IntentResponseRepository = (*IntentResponseRepository)(nil)

func (r *IntentResponseRepository) Create(_ context.Context, resp *models.IntentResponse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	resp.ID = r.s.next("intent_response")
	r.s.responses[resp.ID] = resp.Message
	return nil
}

func (r *IntentResponseRepository) Update(_ context.Context, resp *models.IntentResponse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.responses[resp.ID]; !ok {
		return missing("intent_response", resp.ID)
	}
	r.s.responses[resp.ID] = resp.Message
	return nil
}

func (r *IntentResponseRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.responses, id)
	for iid, row := range r.s.intents {
		if row.responseID != nil && *row.responseID == id {
			row.responseID = nil
			r.s.intents[iid] = row
		}
	}
	return nil
}

func (r *IntentResponseRepository) FindByID(_ context.Context, id int64) (*models.IntentResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg, ok := r.s.responses[id]
	if !ok {
		return nil, nil
	}
	return &models.IntentResponse{ID: id, Message: msg}, nil
}

func (r *IntentResponseRepository) FindAll(_ context.Context) ([]*models.IntentResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.IntentResponse, 0, len(r.s.responses))
	for _, id := range sortedKeys(r.s.responses) {
		out = append(out, &models.IntentResponse{ID: id, Message: r.s.responses[id]})
	}
	return out, nil
}

func (r *IntentResponseRepository) FindAllByIDs(_ context.Context, ids []int64) ([]*models.IntentResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*models.IntentResponse, 0, len(ids))
	for _, id := range sortedKeys(r.s.responses) {
		if wanted[id] {
			out = append(out, &models.IntentResponse{ID: id, Message: r.s.responses[id]})
		}
	}
	return out, nil
}

func (r *IntentResponseRepository) FindAllWithIntent(ctx context.Context) ([]*models.IntentResponse, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner := make(map[int64]int64)
	for _, row := range r.s.intents {
		if row.responseID != nil {
			owner[*row.responseID] = row.id
		}
	}
	for _, resp := range all {
		if iid, ok := owner[resp.ID]; ok {
			resp.SetIntent(&models.Intent{ID: iid})
		}
	}
	return all, nil
}

func (r *IntentResponseRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.responses[id]
	return ok, nil
}

// ============================================================================
// Intent entities
// ============================================================================

// IntentEntityRepository is the in-memory repositories.IntentEntityRepository.
type IntentEntityRepository struct{ s *Store }

var _ repositories.IntentEntityRepository = (*IntentEntityRepository)(nil)

var entityComparators = map[string]func(a, b *models.IntentEntity) int{
	"id":       func(a, b *models.IntentEntity) int { return compareID(a.ID, b.ID) },
	"name":     func(a, b *models.IntentEntity) int { return compareOptString(&a.Name, &b.Name) },
	"optional": func(a, b *models.IntentEntity) int { return compareOptBool(a.Optional, b.Optional) },
}

func (r *IntentEntityRepository) Create(_ context.Context, e *models.IntentEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.next("intent_entity")
	r.s.entities[e.ID] = models.IntentEntity{ID: e.ID, Name: e.Name, Optional: clone(e.Optional)}
	return nil
}

func (r *IntentEntityRepository) Update(_ context.Context, e *models.IntentEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entities[e.ID]; !ok {
		return missing("intent_entity", e.ID)
	}
	r.s.entities[e.ID] = models.IntentEntity{ID: e.ID, Name: e.Name, Optional: clone(e.Optional)}
	return nil
}

func (r *IntentEntityRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.entities, id)
	for l := range r.s.links {
		if l.entityID == id {
			delete(r.s.links, l)
		}
	}
	return nil
}

func (r *IntentEntityRepository) FindByID(_ context.Context, id int64) (*models.IntentEntity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[id]
	if !ok {
		return nil, nil
	}
	return &models.IntentEntity{ID: e.ID, Name: e.Name, Optional: clone(e.Optional)}, nil
}

func (r *IntentEntityRepository) FindAll(_ context.Context, p models.Pageable) (*models.Page[*models.IntentEntity], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]*models.IntentEntity, 0, len(r.s.entities))
	for _, e := range r.s.entities {
		rows = append(rows, &models.IntentEntity{ID: e.ID, Name: e.Name, Optional: clone(e.Optional)})
	}
	if err := sortRows(rows, p, entityComparators); err != nil {
		return nil, err
	}
	return &models.Page[*models.IntentEntity]{
		Content:       paginate(rows, p),
		Pageable:      p,
		TotalElements: int64(len(rows)),
	}, nil
}

func (r *IntentEntityRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.entities[id]
	return ok, nil
}

func (r *IntentEntityRepository) FetchIntents(_ context.Context, entities []*models.IntentEntity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stubs := map[int64]*models.Intent{}
	for _, iid := range sortedKeys(r.s.intents) {
		for _, e := range entities {
			if _, ok := r.s.links[link{intentID: iid, entityID: e.ID}]; !ok {
				continue
			}
			stub, ok := stubs[iid]
			if !ok {
				stub = &models.Intent{ID: iid}
				stubs[iid] = stub
			}
			e.AddIntent(stub)
		}
	}
	return nil
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ============================================================================
// Utterances
// ============================================================================

// UtteranceRepository is the in-memory repositories.UtteranceRepository.
type UtteranceRepository struct{ s *Store }

var _ repositories.UtteranceRepository = (*UtteranceRepository)(nil)

func (r *UtteranceRepository) Create(_ context.Context, u *models.Utterance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkIntent(u.Intent()); err != nil {
		return err
	}
	u.ID = r.s.next("utterance")
	r.s.utterances[u.ID] = utteranceRow{id: u.ID, text: u.Text, language: clone(u.Language), intentID: intentRef(u.Intent())}
	return nil
}

func (r *UtteranceRepository) Update(_ context.Context, u *models.Utterance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.utterances[u.ID]; !ok {
		return missing("utterance", u.ID)
	}
	if err := r.s.checkIntent(u.Intent()); err != nil {
		return err
	}
	r.s.utterances[u.ID] = utteranceRow{id: u.ID, text: u.Text, language: clone(u.Language), intentID: intentRef(u.Intent())}
	return nil
}

func (r *UtteranceRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.utterances, id)
	return nil
}

func (r *UtteranceRepository) FindByID(_ context.Context, id int64) (*models.Utterance, error) {
	return r.one(id, false)
}

func (r *UtteranceRepository) FindOneWithToOneRelationships(_ context.Context, id int64) (*models.Utterance, error) {
	return r.one(id, true)
}

func (r *UtteranceRepository) FindAll(_ context.Context) ([]*models.Utterance, error) {
	return r.list(nil, false), nil
}

func (r *UtteranceRepository) FindAllWithToOneRelationships(_ context.Context) ([]*models.Utterance, error) {
	return r.list(nil, true), nil
}

func (r *UtteranceRepository) FindAllByIntentIDs(_ context.Context, intentIDs []int64) ([]*models.Utterance, error) {
	if len(intentIDs) == 0 {
		return []*models.Utterance{}, nil
	}
	return r.list(intentIDs, false), nil
}

func (r *UtteranceRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.utterances[id]
	return ok, nil
}

func (r *UtteranceRepository) one(id int64, withIntent bool) (*models.Utterance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.utterances[id]
	if !ok {
		return nil, nil
	}
	return r.s.toUtterance(row, withIntent, map[int64]*models.Intent{}), nil
}

func (r *UtteranceRepository) list(intentIDs []int64, withIntent bool) []*models.Utterance {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stubs := map[int64]*models.Intent{}
	out := make([]*models.Utterance, 0)
	for _, id := range sortedKeys(r.s.utterances) {
		row := r.s.utterances[id]
		if intentIDs != nil && !containsID(intentIDs, row.intentID) {
			continue
		}
		out = append(out, r.s.toUtterance(row, withIntent, stubs))
	}
	if intentIDs != nil {
		sortByIntent(out, func(u *models.Utterance) int64 { return u.Intent().ID })
	}
	return out
}

func (s *Store) toUtterance(row utteranceRow, withIntent bool, stubs map[int64]*models.Intent) *models.Utterance {
	u := &models.Utterance{ID: row.id, Text: row.text, Language: clone(row.language)}
	if intent := s.intentStub(row.intentID, withIntent, stubs); intent != nil {
		u.SetIntent(intent)
	}
	return u
}

// ============================================================================
// Follow-ups
// ============================================================================

// FollowupRepository is the in-memory repositories.FollowupRepository.
type FollowupRepository struct{ s *Store }

var _ repositories.FollowupRepository = (*FollowupRepository)(nil)

func (r *FollowupRepository) Create(_ context.Context, f *models.Followup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkIntent(f.Intent()); err != nil {
		return err
	}
	f.ID = r.s.next("followup")
	r.s.followups[f.ID] = followupRowOf(f)
	return nil
}

func (r *FollowupRepository) Update(_ context.Context, f *models.Followup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.followups[f.ID]; !ok {
		return missing("followup", f.ID)
	}
	if err := r.s.checkIntent(f.Intent()); err != nil {
		return err
	}
	r.s.followups[f.ID] = followupRowOf(f)
	return nil
}

func (r *FollowupRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.followups, id)
	return nil
}

func (r *FollowupRepository) FindByID(_ context.Context, id int64) (*models.Followup, error) {
	return r.one(id, false)
}

func (r *FollowupRepository) FindOneWithToOneRelationships(_ context.Context, id int64) (*models.Followup, error) {
	return r.one(id, true)
}

func (r *FollowupRepository) FindAll(_ context.Context) ([]*models.Followup, error) {
	return r.list(nil, false), nil
}

func (r *FollowupRepository) FindAllWithToOneRelationships(_ context.Context) ([]*models.Followup, error) {
	return r.list(nil, true), nil
}

func (r *FollowupRepository) FindAllByIntentIDs(_ context.Context, intentIDs []int64) ([]*models.Followup, error) {
	if len(intentIDs) == 0 {
		return []*models.Followup{}, nil
	}
	out := r.list(intentIDs, false)
	sortFollowups(out)
	return out, nil
}

func (r *FollowupRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.followups[id]
	return ok, nil
}

func (r *FollowupRepository) one(id int64, withIntent bool) (*models.Followup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.followups[id]
	if !ok {
		return nil, nil
	}
	return r.s.toFollowup(row, withIntent, map[int64]*models.Intent{}), nil
}

func (r *FollowupRepository) list(intentIDs []int64, withIntent bool) []*models.Followup {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stubs := map[int64]*models.Intent{}
	out := make([]*models.Followup, 0)
	for _, id := range sortedKeys(r.s.followups) {
		row := r.s.followups[id]
		if intentIDs != nil && !containsID(intentIDs, row.intentID) {
			continue
		}
		out = append(out, r.s.toFollowup(row, withIntent, stubs))
	}
	return out
}

func followupRowOf(f *models.Followup) followupRow {
	return followupRow{
		id:           f.ID,
		question:     f.Question,
		targetEntity: f.TargetEntity,
		order:        clone(f.Order),
		intentID:     intentRef(f.Intent()),
	}
}

func (s *Store) toFollowup(row followupRow, withIntent bool, stubs map[int64]*models.Intent) *models.Followup {
	f := &models.Followup{ID: row.id, Question: row.question, TargetEntity: row.targetEntity, Order: clone(row.order)}
	if intent := s.intentStub(row.intentID, withIntent, stubs); intent != nil {
		f.SetIntent(intent)
	}
	return f
}

// ============================================================================
// Shared helpers
// ============================================================================

func (s *Store) checkIntent(intent *models.Intent) error {
	if intent == nil || intent.ID == 0 {
		return nil
	}
	if _, ok := s.intents[intent.ID]; !ok {
		return fkViolation("intent", intent.ID)
	}
	return nil
}

func (s *Store) intentStub(id *int64, withIntent bool, stubs map[int64]*models.Intent) *models.Intent {
	if id == nil {
		return nil
	}
	if stub, ok := stubs[*id]; ok {
		return stub
	}
	stub := &models.Intent{ID: *id}
	if withIntent {
		if row, ok := s.intents[*id]; ok {
			stub.Name = row.name
			stub.Description = clone(row.description)
		}
	}
	stubs[*id] = stub
	return stub
}

func intentRef(intent *models.Intent) *int64 {
	if intent == nil {
		return nil
	}
	return idOf(intent.ID)
}

func containsID(ids []int64, id *int64) bool {
	if id == nil {
		return false
	}
	for _, v := range ids {
		if v == *id {
			return true
		}
	}
	return false
}

func sortByIntent[T any](items []T, intentID func(T) int64) {
	slices.SortStableFunc(items, func(a, b T) int { return compareID(intentID(a), intentID(b)) })
}

func sortFollowups(items []*models.Followup) {
	slices.SortStableFunc(items, func(a, b *models.Followup) int {
		if c := compareID(a.Intent().ID, b.Intent().ID); c != 0 {
			return c
		}
		switch {
		case a.Order == nil && b.Order == nil:
		case a.Order == nil:
			return 1
		case b.Order == nil:
			return -1
		case *a.Order != *b.Order:
			return compareID(int64(*a.Order), int64(*b.Order))
		}
		return compareID(a.ID, b.ID)
	})
}
