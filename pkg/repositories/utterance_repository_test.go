//go:build integration

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

func TestUtteranceRepository_ToOneRelationships(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewUtteranceRepository()
	intent := mustCreateIntent(t, ctx, &models.Intent{Name: "greet", Description: strPtr("say hi")})

	u := &models.Utterance{Text: "hello", Language: strPtr("en")}
	u.SetIntent(&models.Intent{ID: intent.ID})
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, &models.Utterance{Text: "unassigned"}))

	plain, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, intent.ID, plain.Intent().ID)
	assert.Empty(t, plain.Intent().Name)

	eager, err := repo.FindOneWithToOneRelationships(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "greet", eager.Intent().Name)
	assert.Equal(t, "say hi", *eager.Intent().Description)

	all, err := repo.FindAllWithToOneRelationships(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[0].Intent())
	assert.Nil(t, all[1].Intent())
}

func TestUtteranceRepository_IntentDeleteNullsReference(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewUtteranceRepository()
	intent := mustCreateIntent(t, ctx, &models.Intent{Name: "greet"})

	u := &models.Utterance{Text: "hi"}
	u.SetIntent(&models.Intent{ID: intent.ID})
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, NewIntentRepository().Delete(ctx, intent.ID))

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Intent())
}

func TestUtteranceRepository_FindAllByIntentIDs(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewUtteranceRepository()
	greet := mustCreateIntent(t, ctx, &models.Intent{Name: "greet"})
	bye := mustCreateIntent(t, ctx, &models.Intent{Name: "bye"})

	for _, tc := range []struct {
		text   string
		intent int64
	}{{"see you", bye.ID}, {"hello", greet.ID}, {"hey", greet.ID}} {
		u := &models.Utterance{Text: tc.text}
		u.SetIntent(&models.Intent{ID: tc.intent})
		require.NoError(t, repo.Create(ctx, u))
	}

	found, err := repo.FindAllByIntentIDs(ctx, []int64{greet.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Same(t, found[0].Intent(), found[1].Intent())
	assert.Len(t, found[0].Intent().Utterances(), 2)
}
