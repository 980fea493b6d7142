package models

// Followup is a question asked to fill a missing entity of an intent.
// TargetEntity holds the IntentEntity name the question is meant to fill.
type Followup struct {
	ID           int64
	Question     string
	TargetEntity string
	Order        *int32

	intent *Intent
}

// Intent returns the owning intent, or nil.
func (f *Followup) Intent() *Intent {
	return f.intent
}

// SetIntent moves the follow-up to intent, keeping both intents' collections
// in sync. Passing nil detaches it.
func (f *Followup) SetIntent(intent *Intent) {
	if f.intent == intent {
		return
	}
	if f.intent != nil {
		f.intent.followups = removeFollowup(f.intent.followups, f)
	}
	f.intent = intent
	if intent != nil && !containsFollowup(intent.followups, f) {
		intent.followups = append(intent.followups, f)
	}
}

// Equal reports whether both follow-ups are the same persisted row.
func (f *Followup) Equal(other *Followup) bool {
	if f == nil || other == nil {
		return false
	}
	if f == other {
		return true
	}
	return f.ID != 0 && f.ID == other.ID
}

func containsFollowup(list []*Followup, f *Followup) bool {
	for _, item := range list {
		if item.Equal(f) {
			return true
		}
	}
	return false
}

func removeFollowup(list []*Followup, f *Followup) []*Followup {
	out := make([]*Followup, 0, len(list))
	for _, item := range list {
		if !item.Equal(f) {
			out = append(out, item)
		}
	}
	return out
}
