package dto

// The reference types below are the only shapes related records take inside
// another record's DTO. Each relationship direction has its own narrow view
// so responses never embed a full object graph.

// BotRef is how an intent shows its bot.
type BotRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// IntentRef is how an utterance or follow-up shows its intent.
type IntentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// IntentIDRef is how an intent entity lists the intents using it.
type IntentIDRef struct {
	ID int64 `json:"id"`
}

// IntentResponseRef is how an intent shows its response.
type IntentResponseRef struct {
	ID int64 `json:"id"`
}

// IntentEntityRef is how an intent lists its entities.
type IntentEntityRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}
