//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestEngineDB_MigratedSchema(t *testing.T) {
	engineDB := GetEngineDB(t)

	var tableCount int
	err := engineDB.DB.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name <> 'schema_migrations'").
		Scan(&tableCount)
	if err != nil {
		t.Fatalf("failed to count tables: %v", err)
	}

	if tableCount != 7 {
		t.Errorf("expected 7 tables in migrated schema, got %d", tableCount)
	}
}

func TestTestRedis_Ping(t *testing.T) {
	r := GetTestRedis(t)
	if err := r.Client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}
}
