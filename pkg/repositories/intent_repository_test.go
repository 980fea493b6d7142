//go:build integration

package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

func entityNames(i *models.Intent) []string {
	names := make([]string, 0)
	for _, e := range i.Entities() {
		names = append(names, e.Name)
	}
	return names
}

func TestIntentRepository_CreateWithRelations(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewIntentRepository()

	bot := mustCreateBot(t, ctx, "Travel")
	response := mustCreateResponse(t, ctx, "Where to?")
	city := mustCreateEntity(t, ctx, "city")
	date := mustCreateEntity(t, ctx, "date")

	intent := &models.Intent{Name: "book_flight", Bot: &models.Bot{ID: bot.ID}}
	intent.SetResponse(&models.IntentResponse{ID: response.ID})
	intent.SetEntities([]*models.IntentEntity{{ID: city.ID}, {ID: date.ID}})
	mustCreateIntent(t, ctx, intent)

	plain, err := repo.FindByID(ctx, intent.ID)
	require.NoError(t, err)
	require.NotNil(t, plain)
	assert.Equal(t, bot.ID, plain.Bot.ID)
	assert.Empty(t, plain.Bot.Name, "plain reads carry id-only stubs")
	assert.Equal(t, response.ID, plain.Response().ID)
	assert.Empty(t, plain.Entities())

	eager, err := repo.FindOneWithEagerRelationships(ctx, intent.ID)
	require.NoError(t, err)
	require.NotNil(t, eager)
	assert.Equal(t, "Travel", eager.Bot.Name)
	assert.ElementsMatch(t, []string{"city", "date"}, entityNames(eager))
	assert.Equal(t, []*models.Intent{eager}, eager.Entities()[0].Intents())
}

func TestIntentRepository_UpdateReplacesEntitySet(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewIntentRepository()

	city := mustCreateEntity(t, ctx, "city")
	date := mustCreateEntity(t, ctx, "date")

	intent := &models.Intent{Name: "weather"}
	intent.SetEntities([]*models.IntentEntity{{ID: city.ID}})
	mustCreateIntent(t, ctx, intent)

	intent.SetEntities([]*models.IntentEntity{{ID: date.ID}})
	intent.Description = strPtr("forecast")
	require.NoError(t, repo.Update(ctx, intent))

	eager, err := repo.FindOneWithEagerRelationships(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"date"}, entityNames(eager))
	assert.Equal(t, "forecast", *eager.Description)
}

func TestIntentRepository_UniqueName(t *testing.T) {
	ctx := setupRepositoryTest(t)
	mustCreateIntent(t, ctx, &models.Intent{Name: "greet"})

	err := NewIntentRepository().Create(ctx, &models.Intent{Name: "greet"})
	assert.Error(t, err)
}

func TestIntentRepository_UpdateMissing(t *testing.T) {
	ctx := setupRepositoryTest(t)

	err := NewIntentRepository().Update(ctx, &models.Intent{ID: 4242, Name: "nope"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestIntentRepository_FetchBagRelationshipsKeepsInputOrder(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewIntentRepository()
	city := mustCreateEntity(t, ctx, "city")

	var created []*models.Intent
	for _, name := range []string{"a", "b", "c"} {
		intent := &models.Intent{Name: name}
		intent.SetEntities([]*models.IntentEntity{{ID: city.ID}})
		created = append(created, mustCreateIntent(t, ctx, intent))
	}

	input := []*models.Intent{
		{ID: created[2].ID, Name: "c"},
		{ID: created[0].ID, Name: "a"},
		{ID: created[1].ID, Name: "b"},
	}
	fetched, err := repo.FetchBagRelationships(ctx, input)
	require.NoError(t, err)
	require.Len(t, fetched, 3)

	for i := range input {
		assert.Same(t, input[i], fetched[i], "instances are attached in place and keep input order")
		assert.Equal(t, []string{"city"}, entityNames(fetched[i]))
	}
	assert.Len(t, fetched[0].Entities()[0].Intents(), 3, "one entity instance shared across intents")
}

func TestIntentRepository_FindAllWithEagerRelationshipsPaged(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewIntentRepository()
	city := mustCreateEntity(t, ctx, "city")

	for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
		intent := &models.Intent{Name: name}
		intent.SetEntities([]*models.IntentEntity{{ID: city.ID}})
		mustCreateIntent(t, ctx, intent)
	}

	p := models.Pageable{Page: 0, Size: 3, Sort: []models.SortOrder{{Property: "name", Descending: true}}}
	page, err := repo.FindAllWithEagerRelationships(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages())
	names := make([]string, 0)
	for _, i := range page.Content {
		names = append(names, i.Name)
		assert.Len(t, i.Entities(), 1)
	}
	assert.Equal(t, []string{"delta", "charlie", "bravo"}, names)

	p.Page = 1
	page, err = repo.FindAllWithEagerRelationships(ctx, p)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "alpha", page.Content[0].Name)
}

func TestIntentRepository_FindAllRejectsUnknownSort(t *testing.T) {
	ctx := setupRepositoryTest(t)

	_, err := NewIntentRepository().FindAll(ctx, models.Pageable{
		Size: 10,
		Sort: []models.SortOrder{{Property: "bot_id"}},
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSort))
}

func TestIntentRepository_FindAllByBot(t *testing.T) {
	ctx := setupRepositoryTest(t)
	travel := mustCreateBot(t, ctx, "Travel")
	other := mustCreateBot(t, ctx, "Other")

	mustCreateIntent(t, ctx, &models.Intent{Name: "book", Bot: &models.Bot{ID: travel.ID}})
	mustCreateIntent(t, ctx, &models.Intent{Name: "cancel", Bot: &models.Bot{ID: travel.ID}})
	mustCreateIntent(t, ctx, &models.Intent{Name: "smalltalk", Bot: &models.Bot{ID: other.ID}})

	intents, err := NewIntentRepository().FindAllByBot(ctx, travel.ID)
	require.NoError(t, err)
	require.Len(t, intents, 2)
	assert.Equal(t, "book", intents[0].Name)
	assert.Equal(t, "Travel", intents[1].Bot.Name)
}

func TestIntentRepository_DeleteRemovesLinks(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewIntentRepository()
	city := mustCreateEntity(t, ctx, "city")

	intent := &models.Intent{Name: "weather"}
	intent.SetEntities([]*models.IntentEntity{{ID: city.ID}})
	mustCreateIntent(t, ctx, intent)

	require.NoError(t, repo.Delete(ctx, intent.ID))

	entity, err := NewIntentEntityRepository().FindByID(ctx, city.ID)
	require.NoError(t, err)
	require.NotNil(t, entity)
	require.NoError(t, NewIntentEntityRepository().FetchIntents(ctx, []*models.IntentEntity{entity}))
	assert.Empty(t, entity.Intents())
}
