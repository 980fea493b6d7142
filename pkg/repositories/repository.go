package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// querier returns the transaction open on the request scope, or its connection.
func querier(ctx context.Context) (database.Querier, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, database.ErrNoScope
	}
	return scope.Querier(), nil
}

// orderBy renders an ORDER BY clause for p. Properties are looked up in
// columns (API name -> qualified column); anything else is rejected.
// The primary key is appended as a tiebreaker so pages are stable.
func orderBy(p models.Pageable, columns map[string]string, idColumn string) (string, error) {
	parts := make([]string, 0, len(p.Sort)+1)
	hasID := false
	for _, s := range p.Sort {
		col, ok := columns[s.Property]
		if !ok {
			return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSort, s.Property)
		}
		if col == idColumn {
			hasID = true
		}
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if !hasID {
		parts = append(parts, idColumn+" ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

// count runs a COUNT(*) over table.
func count(ctx context.Context, q database.Querier, table string) (int64, error) {
	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	return total, nil
}

// exists reports whether table has a row with id.
func exists(ctx context.Context, q database.Querier, table string, id int64) (bool, error) {
	var found bool
	err := q.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return found, nil
}

// deleteByID removes the row with id. A missing row is not an error.
func deleteByID(ctx context.Context, q database.Querier, table string, id int64) error {
	if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", table, err)
	}
	return nil
}

// intentStubs hands out one shared placeholder per intent id, so rows that
// reference the same intent attach to the same instance.
type intentStubs map[int64]*models.Intent

func (s intentStubs) get(id *int64) *models.Intent {
	if id == nil {
		return nil
	}
	if intent, ok := s[*id]; ok {
		return intent
	}
	intent := &models.Intent{ID: *id}
	s[*id] = intent
	return intent
}
