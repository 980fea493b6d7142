package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/audit"
	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/cache"
	"github.com/ekaya-inc/chatbot-admin/pkg/config"
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories/inmemory"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
	"github.com/ekaya-inc/chatbot-admin/pkg/testhelpers"
)

// ============================================================================
// Test Server
// ============================================================================

const testAppName = "chatbotApp"

// testServer routes requests through the real handlers, services and auth
// middleware over an in-memory store.
type testServer struct {
	store *inmemory.Store
	mux   *http.ServeMux
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := inmemory.NewStore()
	tx := &inmemory.TxRunner{}
	c := cache.NewNoopCache()

	jwks, err := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: false, Audience: "chatbot-admin"})
	require.NoError(t, err)
	t.Cleanup(jwks.Close)
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwks, logger), logger)
	passthrough := func(next http.HandlerFunc) http.HandlerFunc { return next }

	auditor := audit.NewSecurityAuditor(logger)
	pager := NewPager(config.PaginationConfig{DefaultSize: 20, MaxSize: 100}, auditor, logger)

	bots := services.NewBotService(store.Bots(), tx, c, logger)
	intents := services.NewIntentService(store.Intents(), tx, logger)
	entities := services.NewIntentEntityService(store.IntentEntities(), tx, logger)
	responses := services.NewIntentResponseService(store.IntentResponses(), tx, c, logger)
	utterances := services.NewUtteranceService(store.Utterances(), tx, logger)
	followups := services.NewFollowupService(store.Followups(), tx, logger)
	kb := services.NewKnowledgeBaseService(store.Bots(), store.Intents(), store.IntentResponses(),
		store.Utterances(), store.Followups(), tx, logger)

	mux := http.NewServeMux()
	NewHealthHandler(&config.Config{Version: "test", Env: "test"}, logger).RegisterRoutes(mux)
	NewBotHandler(bots, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewIntentHandler(intents, pager, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewIntentEntityHandler(entities, pager, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewIntentResponseHandler(responses, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewUtteranceHandler(utterances, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewFollowupHandler(followups, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)
	NewExportHandler(kb, auditor, testAppName, logger).RegisterRoutes(mux, authMiddleware, passthrough)

	return &testServer{
		store: store,
		mux:   mux,
		token: testhelpers.GenerateTestJWTWithBearer("admin-1", "admin@example.com"),
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", s.token)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

// create posts body and returns the generated id.
func (s *testServer) create(t *testing.T, path, body string) int64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// ============================================================================
// End-to-end Scenarios
// ============================================================================

func TestBotHandler_CreateReturnsLocation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/bots", `{"name":"Greeter","description":"d","active":false}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bot := decode[dto.BotDTO](t, rec)
	require.NotNil(t, bot.ID)
	assert.Equal(t, "/api/bots/"+itoa(*bot.ID), rec.Header().Get("Location"))
	assert.Equal(t, "Greeter", bot.Name.Get())
	assert.Equal(t, "d", bot.Description.Get())
	assert.True(t, bot.Active.Valid)
	assert.False(t, bot.Active.Value)
	assert.Equal(t, "chatbotApp.bot.created", rec.Header().Get(HeaderAlert))
	assert.Equal(t, itoa(*bot.ID), rec.Header().Get(HeaderParams))
}

func TestBotHandler_CreateWithIDIsRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/bots", `{"id":1,"name":"X"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[IDErrorResponse](t, rec)
	assert.Equal(t, "idexists", body.Error)
	assert.Equal(t, "bot", body.EntityName)
	assert.Equal(t, "error.idexists", rec.Header().Get(HeaderError))

	bots, err := s.store.Bots().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bots)
}

func TestBotHandler_PatchKeepsAbsentFields(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "/api/bots", `{"name":"Greeter","description":"old","active":true}`)

	rec := s.do(t, http.MethodPatch, "/api/bots/"+itoa(id), `{"id":`+itoa(id)+`,"description":"new"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "chatbotApp.bot.updated", rec.Header().Get(HeaderAlert))

	rec = s.do(t, http.MethodGet, "/api/bots/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	bot := decode[dto.BotDTO](t, rec)
	assert.Equal(t, "Greeter", bot.Name.Get())
	assert.Equal(t, "new", bot.Description.Get())
	assert.True(t, bot.Active.Get())
}

func TestFollowupHandler_NullQuestionIsRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/followups", `{"question":null,"targetEntity":"city"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ValidationErrorResponse](t, rec)
	assert.Equal(t, "validation_error", body.Error)
	require.Len(t, body.FieldErrors, 1)
	assert.Equal(t, dto.FieldError{ObjectName: "followup", Field: "question", Message: "NotNull"}, body.FieldErrors[0])

	followups, err := s.store.Followups().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, followups)
}

func TestIntentHandler_DeleteUnknownIsNoContent(t *testing.T) {
	s := newTestServer(t)
	s.create(t, "/api/intents", `{"name":"greet"}`)

	rec := s.do(t, http.MethodDelete, "/api/intents/999", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "chatbotApp.intent.deleted", rec.Header().Get(HeaderAlert))
	page, err := s.store.Intents().FindAll(context.Background(), models.Pageable{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}

// ============================================================================
// Identifier Checks
// ============================================================================

func TestBotHandler_UpdateIDChecks(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "/api/bots", `{"name":"Greeter"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		reason string
	}{
		{"put without id", http.MethodPut, "/api/bots/" + itoa(id), `{"name":"Renamed"}`, "idnull"},
		{"put with mismatched id", http.MethodPut, "/api/bots/" + itoa(id), `{"id":` + itoa(id+1) + `,"name":"Renamed"}`, "idinvalid"},
		{"put unknown id", http.MethodPut, "/api/bots/999", `{"id":999,"name":"Renamed"}`, "idnotfound"},
		{"patch without id", http.MethodPatch, "/api/bots/" + itoa(id), `{"name":"Renamed"}`, "idnull"},
		{"patch unknown id", http.MethodPatch, "/api/bots/999", `{"id":999}`, "idnotfound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[IDErrorResponse](t, rec)
			assert.Equal(t, tt.reason, body.Error)
			assert.Equal(t, "error."+tt.reason, rec.Header().Get(HeaderError))
		})
	}
}

func TestBotHandler_IDCheckPrecedesValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/bots/1", `{"name":null}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "idnull", decode[IDErrorResponse](t, rec).Error)
}

func TestBotHandler_PutValidatesEveryField(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "/api/bots", `{"name":"Greeter"}`)

	rec := s.do(t, http.MethodPut, "/api/bots/"+itoa(id), `{"id":`+itoa(id)+`,"description":"no name"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[ValidationErrorResponse](t, rec)
	require.Len(t, body.FieldErrors, 1)
	assert.Equal(t, "name", body.FieldErrors[0].Field)
}

func TestBotHandler_PutReplacesAllFields(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "/api/bots", `{"name":"Greeter","description":"old","active":true}`)

	rec := s.do(t, http.MethodPut, "/api/bots/"+itoa(id), `{"id":`+itoa(id)+`,"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	bot := decode[dto.BotDTO](t, s.do(t, http.MethodGet, "/api/bots/"+itoa(id), ""))
	assert.Equal(t, "Renamed", bot.Name.Get())
	assert.False(t, bot.Description.Valid)
	assert.False(t, bot.Active.Valid)
}

// ============================================================================
// Request Errors
// ============================================================================

func TestHandlers_RequestErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"non-numeric id", http.MethodGet, "/api/bots/abc", "", http.StatusBadRequest, "invalid_id"},
		{"malformed body", http.MethodPost, "/api/intents", `{"name":`, http.StatusBadRequest, "invalid_request"},
		{"missing bot", http.MethodGet, "/api/bots/42", "", http.StatusNotFound, "not_found"},
		{"missing intent", http.MethodGet, "/api/intents/42", "", http.StatusNotFound, "not_found"},
		{"missing utterance", http.MethodGet, "/api/utterances/42?eagerload=false", "", http.StatusNotFound, "not_found"},
		{"missing export", http.MethodGet, "/api/bots/42/export", "", http.StatusNotFound, "not_found"},
		{"unknown sort property", http.MethodGet, "/api/intents?sort=bogus,asc", "", http.StatusBadRequest, "invalid_sort"},
		{"bad sort direction", http.MethodGet, "/api/intents?sort=name,sideways", "", http.StatusBadRequest, "invalid_sort"},
		{"injected sort", http.MethodGet, "/api/intent-entities?sort=1'%20OR%20'1'='1", "", http.StatusBadRequest, "invalid_sort"},
		{"negative page", http.MethodGet, "/api/intents?page=-1", "", http.StatusBadRequest, "invalid_page"},
		{"zero size", http.MethodGet, "/api/intent-entities?size=0", "", http.StatusBadRequest, "invalid_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestHandlers_RequireAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bots", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlers_WrongMethod(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/bots/1", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ============================================================================
// Listing
// ============================================================================

func TestIntentHandler_ListIsPaged(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		s.create(t, "/api/intents", `{"name":"`+name+`"}`)
	}

	rec := s.do(t, http.MethodGet, "/api/intents?page=0&size=2&sort=name,desc", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get(HeaderTotalCount))
	link := rec.Header().Get("Link")
	assert.Contains(t, link, `rel="next"`)
	assert.Contains(t, link, `rel="last"`)
	assert.Contains(t, link, "sort=name%2Cdesc")
	assert.NotContains(t, link, `rel="prev"`)

	intents := decode[[]dto.IntentDTO](t, rec)
	require.Len(t, intents, 2)
	assert.Equal(t, "charlie", intents[0].Name.Get())
	assert.Equal(t, "bravo", intents[1].Name.Get())
}

func TestIntentHandler_EagerLoadShowsRelationships(t *testing.T) {
	s := newTestServer(t)
	botID := s.create(t, "/api/bots", `{"name":"Greeter"}`)
	cityID := s.create(t, "/api/intent-entities", `{"name":"city"}`)
	dateID := s.create(t, "/api/intent-entities", `{"name":"date","optional":true}`)
	intentID := s.create(t, "/api/intents", `{"name":"book","bot":{"id":`+itoa(botID)+`},"entities":[{"id":`+itoa(dateID)+`},{"id":`+itoa(cityID)+`}]}`)

	rec := s.do(t, http.MethodGet, "/api/intents/"+itoa(intentID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	intent := decode[dto.IntentDTO](t, rec)
	require.True(t, intent.Bot.Valid)
	assert.Equal(t, "Greeter", intent.Bot.Value.Name)
	names := make([]string, 0, len(intent.Entities.Value))
	for _, e := range intent.Entities.Get() {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"city", "date"}, names)
}

func TestIntentHandler_PatchReplacesEntities(t *testing.T) {
	s := newTestServer(t)
	cityID := s.create(t, "/api/intent-entities", `{"name":"city"}`)
	dateID := s.create(t, "/api/intent-entities", `{"name":"date"}`)
	intentID := s.create(t, "/api/intents", `{"name":"book","description":"keep","entities":[{"id":`+itoa(cityID)+`}]}`)

	rec := s.do(t, http.MethodPatch, "/api/intents/"+itoa(intentID), `{"id":`+itoa(intentID)+`,"entities":[{"id":`+itoa(dateID)+`}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	intent := decode[dto.IntentDTO](t, s.do(t, http.MethodGet, "/api/intents/"+itoa(intentID), ""))
	assert.Equal(t, "keep", intent.Description.Get())
	require.Len(t, intent.Entities.Get(), 1)
	assert.Equal(t, dateID, intent.Entities.Get()[0].ID)

	entity := decode[dto.IntentEntityDTO](t, s.do(t, http.MethodGet, "/api/intent-entities/"+itoa(cityID), ""))
	assert.Empty(t, entity.Intents)
}

func TestIntentEntityHandler_ListsIntentsUsingIt(t *testing.T) {
	s := newTestServer(t)
	cityID := s.create(t, "/api/intent-entities", `{"name":"city"}`)
	intentID := s.create(t, "/api/intents", `{"name":"book","entities":[{"id":`+itoa(cityID)+`}]}`)

	rec := s.do(t, http.MethodGet, "/api/intent-entities?sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get(HeaderTotalCount))

	entities := decode[[]dto.IntentEntityDTO](t, rec)
	require.Len(t, entities, 1)
	assert.Equal(t, []dto.IntentIDRef{{ID: intentID}}, entities[0].Intents)
}

func TestIntentResponseHandler_FilterIntentIsNull(t *testing.T) {
	s := newTestServer(t)
	usedID := s.create(t, "/api/intent-responses", `{"message":"Hello!"}`)
	freeID := s.create(t, "/api/intent-responses", `{"message":"Bye!"}`)
	s.create(t, "/api/intents", `{"name":"greet","response":{"id":`+itoa(usedID)+`}}`)

	all := decode[[]dto.IntentResponseDTO](t, s.do(t, http.MethodGet, "/api/intent-responses", ""))
	assert.Len(t, all, 2)

	rec := s.do(t, http.MethodGet, "/api/intent-responses?filter="+FilterIntentIsNull, "")
	require.Equal(t, http.StatusOK, rec.Code)
	free := decode[[]dto.IntentResponseDTO](t, rec)
	require.Len(t, free, 1)
	assert.Equal(t, freeID, *free[0].ID)
}

func TestUtteranceHandler_EagerLoadShowsIntentName(t *testing.T) {
	s := newTestServer(t)
	intentID := s.create(t, "/api/intents", `{"name":"greet"}`)
	uttID := s.create(t, "/api/utterances", `{"text":"hello there","language":"en","intent":{"id":`+itoa(intentID)+`}}`)

	eager := decode[dto.UtteranceDTO](t, s.do(t, http.MethodGet, "/api/utterances/"+itoa(uttID), ""))
	require.True(t, eager.Intent.Valid)
	assert.Equal(t, dto.IntentRef{ID: intentID, Name: "greet"}, eager.Intent.Value)

	list := decode[[]dto.UtteranceDTO](t, s.do(t, http.MethodGet, "/api/utterances?eagerload=false", ""))
	require.Len(t, list, 1)
	require.True(t, list[0].Intent.Valid)
	assert.Equal(t, intentID, list[0].Intent.Value.ID)
}

func TestFollowupHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	intentID := s.create(t, "/api/intents", `{"name":"book"}`)
	id := s.create(t, "/api/followups", `{"question":"Which city?","targetEntity":"city","order":1,"intent":{"id":`+itoa(intentID)+`}}`)

	rec := s.do(t, http.MethodPatch, "/api/followups/"+itoa(id), `{"id":`+itoa(id)+`,"order":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f := decode[dto.FollowupDTO](t, rec)
	assert.Equal(t, "Which city?", f.Question.Get())
	assert.False(t, f.Order.Valid)

	rec = s.do(t, http.MethodDelete, "/api/followups/"+itoa(id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, itoa(id), rec.Header().Get(HeaderParams))

	rec = s.do(t, http.MethodGet, "/api/followups/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// Export and Health
// ============================================================================

func TestExportHandler_Export(t *testing.T) {
	s := newTestServer(t)
	botID := s.create(t, "/api/bots", `{"name":"Greeter"}`)
	respID := s.create(t, "/api/intent-responses", `{"message":"Hello!"}`)
	intentID := s.create(t, "/api/intents", `{"name":"greet","bot":{"id":`+itoa(botID)+`},"response":{"id":`+itoa(respID)+`}}`)
	s.create(t, "/api/utterances", `{"text":"hi","intent":{"id":`+itoa(intentID)+`}}`)

	rec := s.do(t, http.MethodGet, "/api/bots/"+itoa(botID)+"/export", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bot-"+itoa(botID)+".yaml")
	doc := rec.Body.String()
	assert.Contains(t, doc, "name: Greeter")
	assert.Contains(t, doc, "response: Hello!")
	assert.Contains(t, doc, "text: hi")
}

func TestHealthHandler_Ping(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/ping", "")

	require.Equal(t, http.StatusOK, rec.Code)
	ping := decode[PingResponse](t, rec)
	assert.Equal(t, "ok", ping.Status)
	assert.Equal(t, ServiceName, ping.Service)
	assert.Equal(t, "test", ping.Version)
	assert.NotEmpty(t, ping.GoVersion)
}

func TestHealthHandler_HealthNeedsNoToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
