package models

// Intent is something a user can mean when talking to a bot.
//
// Relationship collections are unexported and only change through the
// mutators below, which keep the inverse side in step: a follow-up added
// here points back at this intent, an entity added here lists this intent.
type Intent struct {
	ID          int64
	Name        string
	Description *string
	Bot         *Bot

	response   *IntentResponse
	utterances []*Utterance
	followups  []*Followup
	entities   []*IntentEntity
}

// Response returns the attached response, or nil.
func (i *Intent) Response() *IntentResponse {
	return i.response
}

// SetResponse attaches response to this intent. The previous response is
// detached, and response is taken away from any other intent holding it.
func (i *Intent) SetResponse(response *IntentResponse) {
	if i.response == response {
		if response != nil {
			response.intent = i
		}
		return
	}
	if i.response != nil {
		i.response.intent = nil
	}
	if response != nil && response.intent != nil && response.intent != i {
		response.intent.response = nil
	}
	i.response = response
	if response != nil {
		response.intent = i
	}
}

// Utterances returns a copy of the intent's utterances.
func (i *Intent) Utterances() []*Utterance {
	return append([]*Utterance(nil), i.utterances...)
}

// AddUtterance attaches u to this intent.
func (i *Intent) AddUtterance(u *Utterance) {
	u.SetIntent(i)
}

// RemoveUtterance detaches u if it belongs to this intent.
func (i *Intent) RemoveUtterance(u *Utterance) {
	if u.intent == i {
		u.SetIntent(nil)
	}
}

// SetUtterances replaces the whole collection, detaching the previous members.
func (i *Intent) SetUtterances(utterances []*Utterance) {
	for _, u := range i.Utterances() {
		u.SetIntent(nil)
	}
	for _, u := range utterances {
		u.SetIntent(i)
	}
}

// Followups returns a copy of the intent's follow-up questions.
func (i *Intent) Followups() []*Followup {
	return append([]*Followup(nil), i.followups...)
}

// AddFollowup attaches f to this intent.
func (i *Intent) AddFollowup(f *Followup) {
	f.SetIntent(i)
}

// RemoveFollowup detaches f if it belongs to this intent.
func (i *Intent) RemoveFollowup(f *Followup) {
	if f.intent == i {
		f.SetIntent(nil)
	}
}

// SetFollowups replaces the whole collection, detaching the previous members.
func (i *Intent) SetFollowups(followups []*Followup) {
	for _, f := range i.Followups() {
		f.SetIntent(nil)
	}
	for _, f := range followups {
		f.SetIntent(i)
	}
}

// Entities returns a copy of the intent's entities.
func (i *Intent) Entities() []*IntentEntity {
	return append([]*IntentEntity(nil), i.entities...)
}

// AddEntity links e to this intent on both sides.
func (i *Intent) AddEntity(e *IntentEntity) {
	if !containsEntity(i.entities, e) {
		i.entities = append(i.entities, e)
	}
	if !containsIntent(e.intents, i) {
		e.intents = append(e.intents, i)
	}
}

// RemoveEntity unlinks e from this intent on both sides.
func (i *Intent) RemoveEntity(e *IntentEntity) {
	i.entities = removeEntity(i.entities, e)
	e.intents = removeIntent(e.intents, i)
}

// SetEntities replaces the entity set, unlinking the previous members.
func (i *Intent) SetEntities(entities []*IntentEntity) {
	for _, e := range i.Entities() {
		i.RemoveEntity(e)
	}
	for _, e := range entities {
		i.AddEntity(e)
	}
}

// Equal reports whether both intents are the same persisted row.
func (i *Intent) Equal(other *Intent) bool {
	if i == nil || other == nil {
		return false
	}
	if i == other {
		return true
	}
	return i.ID != 0 && i.ID == other.ID
}

func containsIntent(list []*Intent, i *Intent) bool {
	for _, item := range list {
		if item.Equal(i) {
			return true
		}
	}
	return false
}

func removeIntent(list []*Intent, i *Intent) []*Intent {
	out := make([]*Intent, 0, len(list))
	for _, item := range list {
		if !item.Equal(i) {
			out = append(out, item)
		}
	}
	return out
}
