package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/audit"
	"github.com/ekaya-inc/chatbot-admin/pkg/config"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

func newTestPager() *Pager {
	logger := zap.NewNop()
	return NewPager(config.PaginationConfig{DefaultSize: 20, MaxSize: 50}, audit.NewSecurityAuditor(logger), logger)
}

func TestPager_Parse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  models.Pageable
	}{
		{"defaults", "", models.Pageable{Page: 0, Size: 20}},
		{"explicit page and size", "page=3&size=10", models.Pageable{Page: 3, Size: 10}},
		{"size capped", "size=500", models.Pageable{Page: 0, Size: 50}},
		{
			name:  "sort clauses keep their order",
			query: "sort=name,desc&sort=id",
			want: models.Pageable{Page: 0, Size: 20, Sort: []models.SortOrder{
				{Property: "name", Descending: true},
				{Property: "id"},
			}},
		},
		{"direction is case insensitive", "sort=name,DESC", models.Pageable{Page: 0, Size: 20, Sort: []models.SortOrder{{Property: "name", Descending: true}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/intents?"+tt.query, nil)
			rec := httptest.NewRecorder()

			got, ok := newTestPager().Parse(rec, req, "intents")

			require.True(t, ok, rec.Body.String())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPager_ParseRejects(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantError string
	}{
		{"page not a number", "page=x", "invalid_page"},
		{"negative size", "size=-4", "invalid_size"},
		{"empty property", "sort=,asc", "invalid_sort"},
		{"injection", "sort=" + url.QueryEscape("name; DROP TABLE intent--"), "invalid_sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/intents?"+tt.query, nil)
			rec := httptest.NewRecorder()

			_, ok := newTestPager().Parse(rec, req, "intents")

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}
}

func TestWriteHeaders_MiddlePage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/intents?page=1&size=2&sort=name,asc", nil)
	rec := httptest.NewRecorder()
	page := &models.Page[int]{Content: []int{3, 4}, Pageable: models.Pageable{Page: 1, Size: 2}, TotalElements: 5}

	WriteHeaders(rec, req, page)

	assert.Equal(t, "5", rec.Header().Get(HeaderTotalCount))
	assert.Equal(t,
		`</api/intents?page=2&size=2&sort=name%2Casc>; rel="next",`+
			`</api/intents?page=0&size=2&sort=name%2Casc>; rel="prev",`+
			`</api/intents?page=2&size=2&sort=name%2Casc>; rel="last",`+
			`</api/intents?page=0&size=2&sort=name%2Casc>; rel="first"`,
		rec.Header().Get("Link"))
}

func TestLinkHeader_EmptyResult(t *testing.T) {
	u, err := url.Parse("/api/intent-entities")
	require.NoError(t, err)

	got := linkHeader(u, 0, 20, 0)

	assert.Equal(t,
		`</api/intent-entities?page=0&size=20>; rel="last",</api/intent-entities?page=0&size=20>; rel="first"`,
		got)
}
