package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"designshop/internal/config"
	"designshop/internal/database"
	"designshop/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) (*gin.Engine, func(method, path, body, token string) (int, map[string]json.RawMessage)) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.Create(&domain.Product{Name: "Tote", BasePrice: 12.5}).Error)

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		MetricsEnabled:     true,
		MetricsToken:       "scrape",
		RateLimitPerMinute: 60,
	}
	r := newRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), db, nil)

	do := func(method, path, body, token string) (int, map[string]json.RawMessage) {
		var rd io.Reader
		if body != "" {
			rd = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, rd)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var env map[string]json.RawMessage
		_ = json.Unmarshal(w.Body.Bytes(), &env)
		return w.Code, env
	}
	return r, do
}

func TestRouter_Health(t *testing.T) {
	_, do := testRouter(t)
	code, _ := do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_MetricsRequiresToken(t *testing.T) {
	r, do := testRouter(t)

	code, _ := do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer scrape")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RegisterLoginOrder(t *testing.T) {
	_, do := testRouter(t)

	code, env := do(http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", string(env["data"]))

	code, _ = do(http.MethodPost, "/api/auth/register", `{"username":"ana","email":"ana@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, code)

	code, env = do(http.MethodGet, "/api/auth/check-email/ANA@example.com", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"available":false}`, string(env["data"]))

	code, env = do(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env["data"], &login))
	require.NotEmpty(t, login.Token)

	code, env = do(http.MethodGet, "/api/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env["data"]), `"userTypes":["customer"]`)
	assert.Contains(t, string(env["data"]), `"role":"regular"`)

	code, _ = do(http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = do(http.MethodPost, "/api/orders", `{"productId":1,"quantity":2}`, login.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env["data"]), `"total_amount":25`)

	code, env = do(http.MethodGet, "/api/orders/my-orders", "", login.Token)
	require.Equal(t, http.StatusOK, code)
	var mine []domain.OrderView
	require.NoError(t, json.Unmarshal(env["data"], &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, domain.OrderPendingDesign, mine[0].Status)

	code, _ = do(http.MethodGet, "/api/auth/logs", "", login.Token)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(http.MethodPost, "/api/auth/request-designer", "", login.Token)
	assert.Equal(t, http.StatusCreated, code)
}
