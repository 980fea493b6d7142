//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

func TestBotRepository_CRUD(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewBotRepository()

	bot := &models.Bot{Name: "Greeter", Description: strPtr("says hello"), Active: boolPtr(true)}
	require.NoError(t, repo.Create(ctx, bot))
	require.NotZero(t, bot.ID)

	found, err := repo.FindByID(ctx, bot.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Greeter", found.Name)
	assert.Equal(t, "says hello", *found.Description)
	assert.True(t, *found.Active)

	found.Name = "Concierge"
	found.Description = nil
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.FindByID(ctx, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concierge", found.Name)
	assert.Nil(t, found.Description)

	ok, err := repo.ExistsByID(ctx, bot.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, bot.ID))
	found, err = repo.FindByID(ctx, bot.ID)
	require.NoError(t, err)
	assert.Nil(t, found, "missing rows are nil, not an error")

	// Deleting again is not an error.
	require.NoError(t, repo.Delete(ctx, bot.ID))
}

func TestBotRepository_UpdateMissing(t *testing.T) {
	ctx := setupRepositoryTest(t)

	err := NewBotRepository().Update(ctx, &models.Bot{ID: 9999, Name: "Ghost"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestBotRepository_FindAllOrdersByID(t *testing.T) {
	ctx := setupRepositoryTest(t)
	a := mustCreateBot(t, ctx, "Alpha")
	b := mustCreateBot(t, ctx, "Bravo")

	bots, err := NewBotRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, a.ID, bots[0].ID)
	assert.Equal(t, b.ID, bots[1].ID)
}

func TestBotRepository_RequiresScope(t *testing.T) {
	_, err := NewBotRepository().FindByID(context.Background(), 1)
	assert.True(t, errors.Is(err, database.ErrNoScope))
}
