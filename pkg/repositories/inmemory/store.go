// Package inmemory implements the repository interfaces over maps guarded by
// a mutex. It mirrors the PostgreSQL schema closely enough for service and
// handler tests: foreign keys are nulled when a parent row is deleted, join
// rows cascade, and intent names and response links are unique.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/chatbot-admin/pkg/apperrors"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ErrUniqueViolation mimics a unique constraint failure.
var ErrUniqueViolation = errors.New("duplicate key value violates unique constraint")

type intentRow struct {
	id          int64
	name        string
	description *string
	responseID  *int64
	botID       *int64
}

type utteranceRow struct {
	id       int64
	text     string
	language *string
	intentID *int64
}

type followupRow struct {
	id           int64
	question     string
	targetEntity string
	order        *int32
	intentID     *int64
}

type link struct {
	intentID int64
	entityID int64
}

// Store holds every table. Use the accessor methods to get repositories over it.
type Store struct {
	mu sync.Mutex

	seq        map[string]int64
	bots       map[int64]models.Bot
	responses  map[int64]string
	entities   map[int64]models.IntentEntity
	intents    map[int64]intentRow
	utterances map[int64]utteranceRow
	followups  map[int64]followupRow
	links      map[link]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		seq:        map[string]int64{},
		bots:       map[int64]models.Bot{},
		responses:  map[int64]string{},
		entities:   map[int64]models.IntentEntity{},
		intents:    map[int64]intentRow{},
		utterances: map[int64]utteranceRow{},
		followups:  map[int64]followupRow{},
		links:      map[link]struct{}{},
	}
}

func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Bots returns a BotRepository over the store.
func (s *Store) Bots() *BotRepository { return &BotRepository{s: s} }

// Intents returns an IntentRepository over the store.
func (s *Store) Intents() *IntentRepository { return &IntentRepository{s: s} }

// IntentEntities returns an IntentEntityRepository over the store.
func (s *Store) IntentEntities() *IntentEntityRepository { return &IntentEntityRepository{s: s} }

// IntentResponses returns an IntentResponseRepository over the store.
func (s *Store) IntentResponses() *IntentResponseRepository {
	return &IntentResponseRepository{s: s}
}

// Utterances returns an UtteranceRepository over the store.
func (s *Store) Utterances() *UtteranceRepository { return &UtteranceRepository{s: s} }

// Followups returns a FollowupRepository over the store.
func (s *Store) Followups() *FollowupRepository { return &FollowupRepository{s: s} }

// TxRunner runs fn directly. The store has no transactions; tests that need
// rollback semantics use the PostgreSQL integration suite.
type TxRunner struct {
	// Calls counts RunInTx invocations; ReadOnlyCalls those in read-only mode.
	Calls         int
	ReadOnlyCalls int
}

var _ database.TxRunner = (*TxRunner)(nil)

func (r *TxRunner) RunInTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	r.Calls++
	if opts.AccessMode == pgx.ReadOnly {
		r.ReadOnlyCalls++
	}
	return fn(ctx)
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func idOf(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func missing(table string, id int64) error {
	return fmt.Errorf("%s %d: %w", table, id, apperrors.ErrNotFound)
}

// fkViolation mimics a foreign key failure for a reference to a missing row.
func fkViolation(table string, id int64) error {
	return fmt.Errorf("insert or update violates foreign key constraint: %s %d is not present", table, id)
}

// paginate slices rows for p after sorting them with less.
func paginate[T any](rows []T, p models.Pageable) []T {
	start := p.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + p.Size
	if p.Size <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// sortRows orders rows by p.Sort using compare for known properties.
// The id comparator is the final tiebreaker.
func sortRows[T any](rows []T, p models.Pageable, compare map[string]func(a, b T) int) error {
	for _, o := range p.Sort {
		if _, ok := compare[o.Property]; !ok {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidSort, o.Property)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range p.Sort {
			c := compare[o.Property](rows[i], rows[j])
			if o.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return compare["id"](rows[i], rows[j]) < 0
	})
	return nil
}

func compareOptString(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func compareOptBool(a, b *bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	case !*a:
		return -1
	}
	return 1
}
