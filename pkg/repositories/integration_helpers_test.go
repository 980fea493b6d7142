//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/testhelpers"
)

// setupRepositoryTest empties the schema and returns a context holding a
// connection to the shared test database.
func setupRepositoryTest(t *testing.T) context.Context {
	t.Helper()
	testhelpers.TruncateAll(t)
	return testhelpers.ScopedContext(t)
}

func mustCreateBot(t *testing.T, ctx context.Context, name string) *models.Bot {
	t.Helper()
	bot := &models.Bot{Name: name}
	if err := NewBotRepository().Create(ctx, bot); err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return bot
}

func mustCreateIntent(t *testing.T, ctx context.Context, intent *models.Intent) *models.Intent {
	t.Helper()
	if err := NewIntentRepository().Create(ctx, intent); err != nil {
		t.Fatalf("failed to create intent %q: %v", intent.Name, err)
	}
	return intent
}

func mustCreateEntity(t *testing.T, ctx context.Context, name string) *models.IntentEntity {
	t.Helper()
	entity := &models.IntentEntity{Name: name}
	if err := NewIntentEntityRepository().Create(ctx, entity); err != nil {
		t.Fatalf("failed to create intent entity: %v", err)
	}
	return entity
}

func mustCreateResponse(t *testing.T, ctx context.Context, message string) *models.IntentResponse {
	t.Helper()
	response := &models.IntentResponse{Message: message}
	if err := NewIntentResponseRepository().Create(ctx, response); err != nil {
		t.Fatalf("failed to create intent response: %v", err)
	}
	return response
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
