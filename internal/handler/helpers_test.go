package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/naedex/naedex/internal/middleware"
	"github.com/naedex/naedex/internal/model"
)

// withProfile はテスト用にログイン済みプロファイルをコンテキストに注入するヘルパー。
func withProfile(r *http.Request, profile *model.Profile) *http.Request {
	ctx := middleware.ContextWithProfile(r.Context(), profile)
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("エラーレスポンスのデコードに失敗: %v", err)
	}
	return result
}

func testUserProfile() *model.Profile {
	return &model.Profile{
		ID:          "2",
		Email:       "user@example.com",
		Name:        "Demo User",
		DisplayName: "Demo User",
		Role:        model.RoleUser,
	}
}

func testAdminProfile() *model.Profile {
	return &model.Profile{
		ID:          "1",
		Email:       "admin@naedex.com",
		Name:        "Admin User",
		DisplayName: "Admin User",
		Role:        model.RoleAdmin,
	}
}
