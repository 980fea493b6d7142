package models

// Bot is a chatbot whose knowledge base is made of intents.
// Intents point at their bot; the bot does not hold the collection.
type Bot struct {
	ID          int64
	Name        string
	Description *string
	Active      *bool
}

// Equal reports whether both bots are the same persisted row.
// Unsaved bots (ID 0) are only equal to themselves.
func (b *Bot) Equal(other *Bot) bool {
	if b == nil || other == nil {
		return false
	}
	if b == other {
		return true
	}
	return b.ID != 0 && b.ID == other.ID
}
