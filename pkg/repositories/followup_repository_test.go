//go:build integration

package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

func int32Ptr(v int32) *int32 { return &v }

func TestFollowupRepository_CRUD(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewFollowupRepository()
	intent := mustCreateIntent(t, ctx, &models.Intent{Name: "book"})

	f := &models.Followup{Question: "Which city?", TargetEntity: "city", Order: int32Ptr(1)}
	f.SetIntent(&models.Intent{ID: intent.ID})
	require.NoError(t, repo.Create(ctx, f))

	f.Order = nil
	f.SetIntent(nil)
	require.NoError(t, repo.Update(ctx, f))

	found, err := repo.FindOneWithToOneRelationships(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "city", found.TargetEntity)
	assert.Nil(t, found.Order)
	assert.Nil(t, found.Intent())

	require.NoError(t, repo.Delete(ctx, f.ID))
	ok, err := repo.ExistsByID(ctx, f.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowupRepository_FindAllByIntentIDsUsesAskingOrder(t *testing.T) {
	ctx := setupRepositoryTest(t)
	repo := NewFollowupRepository()
	intent := mustCreateIntent(t, ctx, &models.Intent{Name: "book"})

	for _, f := range []*models.Followup{
		{Question: "When?", TargetEntity: "date"},
		{Question: "Where to?", TargetEntity: "city", Order: int32Ptr(2)},
		{Question: "From?", TargetEntity: "origin", Order: int32Ptr(1)},
	} {
		f.SetIntent(&models.Intent{ID: intent.ID})
		require.NoError(t, repo.Create(ctx, f))
	}

	found, err := repo.FindAllByIntentIDs(ctx, []int64{intent.ID})
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "From?", found[0].Question)
	assert.Equal(t, "Where to?", found[1].Question)
	assert.Equal(t, "When?", found[2].Question)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
