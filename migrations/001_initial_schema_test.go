//go:build integration

package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/chatbot-admin/pkg/testhelpers"
)

// Test_001_InitialSchema verifies every knowledge base table exists after migration.
func Test_001_InitialSchema(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx := context.Background()

	for _, table := range []string{
		"bot", "intent_response", "intent_entity", "intent",
		"rel_intent__entities", "utterance", "followup",
	} {
		var exists bool
		err := engineDB.DB.Pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)
		`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}

// Test_001_IntentNameUnique verifies the unique constraint on intent names.
func Test_001_IntentNameUnique(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx := context.Background()

	defer func() {
		_, _ = engineDB.DB.Pool.Exec(ctx, "DELETE FROM intent WHERE name = 'migration_unique_probe'")
	}()

	_, err := engineDB.DB.Pool.Exec(ctx, "INSERT INTO intent (name) VALUES ('migration_unique_probe')")
	require.NoError(t, err)

	_, err = engineDB.DB.Pool.Exec(ctx, "INSERT INTO intent (name) VALUES ('migration_unique_probe')")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ux_intent__name")
}

// Test_001_DeleteParentNullsChildren verifies child foreign keys use ON DELETE SET NULL
// and join table rows are removed with their intent.
func Test_001_DeleteParentNullsChildren(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	pool := engineDB.DB.Pool

	var intentID, entityID, utteranceID, followupID int64
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO intent (name) VALUES ('migration_cascade_probe') RETURNING id").Scan(&intentID))
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO intent_entity (name) VALUES ('probe_entity') RETURNING id").Scan(&entityID))
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO utterance (text, intent_id) VALUES ('probe', $1) RETURNING id", intentID).Scan(&utteranceID))
	require.NoError(t, pool.QueryRow(ctx,
		"INSERT INTO followup (question, target_entity, intent_id) VALUES ('probe?', 'probe_entity', $1) RETURNING id",
		intentID).Scan(&followupID))
	_, err := pool.Exec(ctx, "INSERT INTO rel_intent__entities (intent_id, entities_id) VALUES ($1, $2)", intentID, entityID)
	require.NoError(t, err)

	defer func() {
		_, _ = pool.Exec(ctx, "DELETE FROM utterance WHERE id = $1", utteranceID)
		_, _ = pool.Exec(ctx, "DELETE FROM followup WHERE id = $1", followupID)
		_, _ = pool.Exec(ctx, "DELETE FROM intent_entity WHERE id = $1", entityID)
	}()

	_, err = pool.Exec(ctx, "DELETE FROM intent WHERE id = $1", intentID)
	require.NoError(t, err)

	var utteranceIntent, followupIntent *int64
	require.NoError(t, pool.QueryRow(ctx, "SELECT intent_id FROM utterance WHERE id = $1", utteranceID).Scan(&utteranceIntent))
	require.NoError(t, pool.QueryRow(ctx, "SELECT intent_id FROM followup WHERE id = $1", followupID).Scan(&followupIntent))
	assert.Nil(t, utteranceIntent)
	assert.Nil(t, followupIntent)

	var links int
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM rel_intent__entities WHERE entities_id = $1", entityID).Scan(&links))
	assert.Zero(t, links)
}
