package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/activity"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/auth"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/middleware"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/querycache"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/realtime"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/testutil"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type contactEnv struct {
	router *gin.Engine
	token  string
}

func newContactEnv(t *testing.T) contactEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	cache := querycache.NewStore(querycache.Options{})
	t.Cleanup(cache.Close)

	log := zap.NewNop()
	act := activity.NewLogger(db, realtime.NewHub(), log)
	objects := storage.NewFileStore(afero.NewMemMapFs(), "uploads", "test-secret")
	hooks := webhook.NewDispatcher("", log)
	stores := store.New(db, cache, act, objects, hooks, log, 300)

	tokens := auth.NewManager("test-secret", "iss", "aud")
	token, err := tokens.GenerateToken("u-1", "broker@example.com")
	require.NoError(t, err)

	h := NewContactHandler(stores)
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.JWTAuth(tokens))
	api.GET("/clients", h.ListClients)
	api.POST("/clients", h.CreateClient)
	api.PUT("/clients/:id", h.UpdateClient)
	api.DELETE("/clients/:id", h.DeleteClient)

	return contactEnv{router: r, token: token}
}

func (e contactEnv) do(method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestClientLifecycle(t *testing.T) {
	env := newContactEnv(t)

	w := env.do(http.MethodPost, "/api/clients", map[string]any{
		"person": map[string]string{
			"firstName": "Dana",
			"lastName":  "Reyes",
			"email":     "dana@example.com",
		},
		"client": map[string]any{
			"annualIncome": 95000,
			"creditScore":  710,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Dana", created.PrimaryPerson.FirstName)
	require.Equal(t, models.ClientStatusLead, created.Status)

	w = env.do(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Clients []models.Client `json:"clients"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Count)
	require.Equal(t, created.ID, listed.Clients[0].ID)

	w = env.do(http.MethodPut, "/api/clients/"+created.ID, map[string]any{
		"status":      "active",
		"creditScore": 725,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, models.ClientStatus("active"), updated.Status)
	require.Equal(t, 725, updated.CreditScore)

	w = env.do(http.MethodDelete, "/api/clients/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 0, listed.Count)
}

func TestCreateClient_ValidationError(t *testing.T) {
	env := newContactEnv(t)

	w := env.do(http.MethodPost, "/api/clients", map[string]any{
		"person": map[string]string{
			"firstName": "Dana",
			"lastName":  "Reyes",
			"email":     "dana@example.com",
		},
		"client": map[string]any{
			"annualIncome": -1000,
			"creditScore":  900,
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "validation failed")
}

func TestCreateClient_Unauthorized(t *testing.T) {
	env := newContactEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateClient_NotFound(t *testing.T) {
	env := newContactEnv(t)

	w := env.do(http.MethodPut, "/api/clients/missing", map[string]any{"creditScore": 700})
	require.Equal(t, http.StatusNotFound, w.Code)
}
