package models

// Utterance is an example phrase that expresses an intent.
type Utterance struct {
	ID       int64
	Text     string
	Language *string

	intent *Intent
}

// Intent returns the owning intent, or nil.
func (u *Utterance) Intent() *Intent {
	return u.intent
}

// SetIntent moves the utterance to intent, keeping both intents' collections
// in sync. Passing nil detaches it.
func (u *Utterance) SetIntent(intent *Intent) {
	if u.intent == intent {
		return
	}
	if u.intent != nil {
		u.intent.utterances = removeUtterance(u.intent.utterances, u)
	}
	u.intent = intent
	if intent != nil && !containsUtterance(intent.utterances, u) {
		intent.utterances = append(intent.utterances, u)
	}
}

// Equal reports whether both utterances are the same persisted row.
func (u *Utterance) Equal(other *Utterance) bool {
	if u == nil || other == nil {
		return false
	}
	if u == other {
		return true
	}
	return u.ID != 0 && u.ID == other.ID
}

func containsUtterance(list []*Utterance, u *Utterance) bool {
	for _, item := range list {
		if item.Equal(u) {
			return true
		}
	}
	return false
}

func removeUtterance(list []*Utterance, u *Utterance) []*Utterance {
	out := make([]*Utterance, 0, len(list))
	for _, item := range list {
		if !item.Equal(u) {
			out = append(out, item)
		}
	}
	return out
}
