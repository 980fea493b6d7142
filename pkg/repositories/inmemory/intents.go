package inmemory

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
)

// IntentRepository is the in-memory repositories.IntentRepository.
type IntentRepository struct{ s *Store }

var _ repositories.IntentRepository = (*IntentRepository)(nil)

var intentComparators = map[string]func(a, b intentRow) int{
	"id":          func(a, b intentRow) int { return compareID(a.id, b.id) },
	"name":        func(a, b intentRow) int { return compareOptString(&a.name, &b.name) },
	"description": func(a, b intentRow) int { return compareOptString(a.description, b.description) },
}

func (r *IntentRepository) Create(_ context.Context, intent *models.Intent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, err := r.s.intentRowOf(intent, 0)
	if err != nil {
		return err
	}
	intent.ID = r.s.next("intent")
	row.id = intent.ID
	r.s.intents[intent.ID] = row
	r.s.writeLinks(intent)
	return nil
}

func (r *IntentRepository) Update(_ context.Context, intent *models.Intent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.intents[intent.ID]; !ok {
		return missing("intent", intent.ID)
	}
	row, err := r.s.intentRowOf(intent, intent.ID)
	if err != nil {
		return err
	}
	r.s.intents[intent.ID] = row
	r.s.writeLinks(intent)
	return nil
}

func (r *IntentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.intents, id)
	for l := range r.s.links {
		if l.intentID == id {
			delete(r.s.links, l)
		}
	}
	for uid, row := range r.s.utterances {
		if row.intentID != nil && *row.intentID == id {
			row.intentID = nil
			r.s.utterances[uid] = row
		}
	}
	for fid, row := range r.s.followups {
		if row.intentID != nil && *row.intentID == id {
			row.intentID = nil
			r.s.followups[fid] = row
		}
	}
	return nil
}

func (r *IntentRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.intents[id]
	return ok, nil
}

func (r *IntentRepository) FindByID(_ context.Context, id int64) (*models.Intent, error) {
	return r.one(id, false)
}

func (r *IntentRepository) FindOneWithToOneRelationships(_ context.Context, id int64) (*models.Intent, error) {
	return r.one(id, true)
}

func (r *IntentRepository) FindOneWithEagerRelationships(ctx context.Context, id int64) (*models.Intent, error) {
	intent, err := r.one(id, true)
	if err != nil || intent == nil {
		return intent, err
	}
	if _, err := r.FetchBagRelationships(ctx, []*models.Intent{intent}); err != nil {
		return nil, err
	}
	return intent, nil
}

func (r *IntentRepository) FindAll(_ context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	return r.page(p, false)
}

func (r *IntentRepository) FindAllWithToOneRelationships(_ context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	return r.page(p, true)
}

func (r *IntentRepository) FindAllWithEagerRelationships(ctx context.Context, p models.Pageable) (*models.Page[*models.Intent], error) {
	page, err := r.page(p, true)
	if err != nil {
		return nil, err
	}
	page.Content, err = r.FetchBagRelationships(ctx, page.Content)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *IntentRepository) FetchBagRelationships(_ context.Context, intents []*models.Intent) ([]*models.Intent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entities := map[int64]*models.IntentEntity{}
	out := make([]*models.Intent, 0, len(intents))
	for _, intent := range intents {
		if _, ok := r.s.intents[intent.ID]; !ok {
			continue
		}
		intent.SetEntities(nil)
		for _, eid := range sortedKeys(r.s.entities) {
			if _, ok := r.s.links[link{intentID: intent.ID, entityID: eid}]; !ok {
				continue
			}
			e, ok := entities[eid]
			if !ok {
				row := r.s.entities[eid]
				e = &models.IntentEntity{ID: eid, Name: row.Name, Optional: clone(row.Optional)}
				entities[eid] = e
			}
			intent.AddEntity(e)
		}
		out = append(out, intent)
	}
	return out, nil
}

func (r *IntentRepository) FindAllByBot(_ context.Context, botID int64) ([]*models.Intent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Intent, 0)
	for _, id := range sortedKeys(r.s.intents) {
		row := r.s.intents[id]
		if row.botID != nil && *row.botID == botID {
			out = append(out, r.s.toIntent(row, true))
		}
	}
	return out, nil
}

func (r *IntentRepository) one(id int64, withBot bool) (*models.Intent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.intents[id]
	if !ok {
		return nil, nil
	}
	return r.s.toIntent(row, withBot), nil
}

func (r *IntentRepository) page(p models.Pageable, withBot bool) (*models.Page[*models.Intent], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]intentRow, 0, len(r.s.intents))
	for _, row := range r.s.intents {
		rows = append(rows, row)
	}
	if err := sortRows(rows, p, intentComparators); err != nil {
		return nil, err
	}
	content := make([]*models.Intent, 0, p.Size)
	for _, row := range paginate(rows, p) {
		content = append(content, r.s.toIntent(row, withBot))
	}
	return &models.Page[*models.Intent]{
		Content:       content,
		Pageable:      p,
		TotalElements: int64(len(rows)),
	}, nil
}

// intentRowOf checks the constraints the intent table enforces.
func (s *Store) intentRowOf(intent *models.Intent, selfID int64) (intentRow, error) {
	row := intentRow{
		name:        intent.Name,
		description: clone(intent.Description),
	}
	if intent.Bot != nil {
		row.botID = idOf(intent.Bot.ID)
	}
	if intent.Response() != nil {
		row.responseID = idOf(intent.Response().ID)
	}

	for id, other := range s.intents {
		if id == selfID {
			continue
		}
		if other.name == row.name {
			return row, fmt.Errorf("ux_intent__name: %w", ErrUniqueViolation)
		}
		if row.responseID != nil && other.responseID != nil && *other.responseID == *row.responseID {
			return row, fmt.Errorf("ux_intent__response_id: %w", ErrUniqueViolation)
		}
	}
	if row.botID != nil {
		if _, ok := s.bots[*row.botID]; !ok {
			return row, fkViolation("bot", *row.botID)
		}
	}
	if row.responseID != nil {
		if _, ok := s.responses[*row.responseID]; !ok {
			return row, fkViolation("intent_response", *row.responseID)
		}
	}
	for _, e := range intent.Entities() {
		if _, ok := s.entities[e.ID]; e.ID != 0 && !ok {
			return row, fkViolation("intent_entity", e.ID)
		}
	}
	return row, nil
}

func (s *Store) writeLinks(intent *models.Intent) {
	for l := range s.links {
		if l.intentID == intent.ID {
			delete(s.links, l)
		}
	}
	for _, e := range intent.Entities() {
		if e.ID != 0 {
			s.links[link{intentID: intent.ID, entityID: e.ID}] = struct{}{}
		}
	}
}

func (s *Store) toIntent(row intentRow, withBot bool) *models.Intent {
	intent := &models.Intent{ID: row.id, Name: row.name, Description: clone(row.description)}
	if row.responseID != nil {
		intent.SetResponse(&models.IntentResponse{ID: *row.responseID})
	}
	if row.botID != nil {
		intent.Bot = &models.Bot{ID: *row.botID}
		if b, ok := s.bots[*row.botID]; ok && withBot {
			full := copyBot(&b)
			intent.Bot = &full
		}
	}
	return intent
}
