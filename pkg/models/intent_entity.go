package models

// IntentEntity is a slot an intent needs filled, such as a date or a city.
// Optional marks slots the intent can do without.
type IntentEntity struct {
	ID       int64
	Name     string
	Optional *bool

	intents []*Intent
}

// Intents returns a copy of the intents this entity belongs to.
func (e *IntentEntity) Intents() []*Intent {
	return append([]*Intent(nil), e.intents...)
}

// AddIntent links this entity to intent on both sides.
func (e *IntentEntity) AddIntent(intent *Intent) {
	intent.AddEntity(e)
}

// RemoveIntent unlinks this entity from intent on both sides.
func (e *IntentEntity) RemoveIntent(intent *Intent) {
	intent.RemoveEntity(e)
}

// Equal reports whether both entities are the same persisted row.
func (e *IntentEntity) Equal(other *IntentEntity) bool {
	if e == nil || other == nil {
		return false
	}
	if e == other {
		return true
	}
	return e.ID != 0 && e.ID == other.ID
}

func containsEntity(list []*IntentEntity, e *IntentEntity) bool {
	for _, item := range list {
		if item.Equal(e) {
			return true
		}
	}
	return false
}

func removeEntity(list []*IntentEntity, e *IntentEntity) []*IntentEntity {
	out := make([]*IntentEntity, 0, len(list))
	for _, item := range list {
		if !item.Equal(e) {
			out = append(out, item)
		}
	}
	return out
}
