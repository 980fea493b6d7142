package models

// IntentResponse is the canned message returned for an intent.
// The owning side of the one-to-one link is the intent (intent.response_id).
type IntentResponse struct {
	ID      int64
	Message string

	intent *Intent
}

// Intent returns the intent this response is attached to, or nil.
func (r *IntentResponse) Intent() *Intent {
	return r.intent
}

// SetIntent attaches the response to intent, detaching it from its previous
// intent and displacing any response the new intent held. Passing nil detaches.
func (r *IntentResponse) SetIntent(intent *Intent) {
	if intent == nil {
		if r.intent != nil {
			r.intent.response = nil
			r.intent = nil
		}
		return
	}
	intent.SetResponse(r)
}

// Equal reports whether both responses are the same persisted row.
func (r *IntentResponse) Equal(other *IntentResponse) bool {
	if r == nil || other == nil {
		return false
	}
	if r == other {
		return true
	}
	return r.ID != 0 && r.ID == other.ID
}
