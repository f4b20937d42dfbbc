// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naedex/naedex/internal/model"
)

// SessionCookieName はセッションIDを格納するHTTP Only Cookieの名前。
const SessionCookieName = "naedex_session"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// profileContextKey はリクエストコンテキストにプロファイルを格納するためのキー。
	profileContextKey = contextKey("profile")
	// sessionIDContextKey はリクエストコンテキストにセッションIDを格納するためのキー。
	sessionIDContextKey = contextKey("session_id")
)

// ProfileResolver はセッションIDからプロファイルを解決するインターフェース。
// auth.Serviceの部分集合として定義する。
type ProfileResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.Profile, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 解決したプロファイルをリクエストコンテキストに注入するミドルウェアを返す。
// セッションがない・無効な場合もリクエストは通し、認証の強制は
// RequireAuth / RequireAdmin が行う。
func NewSessionMiddleware(resolver ProfileResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			profile, err := resolver.CurrentUser(r.Context(), cookie.Value)
			if err != nil || profile == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithProfile(r.Context(), profile)
			ctx = context.WithValue(ctx, sessionIDContextKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth は認証済みリクエストのみを通すミドルウェアを返す。
// 未認証リクエストには401を統一エラーフォーマットで返す。
func RequireAuth() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := ProfileFromContext(r.Context()); err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin は管理者のみを通すミドルウェアを返す。
// 未認証は401、一般ユーザーは403を返す。
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := ProfileFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(""))
				return
			}
			if !profile.IsAdmin() {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ProfileFromContext はリクエストコンテキストからプロファイルを取得する。
// セッションミドルウェアを通過した認証済みリクエストでのみ有効。
func ProfileFromContext(ctx context.Context) (*model.Profile, error) {
	profile, ok := ctx.Value(profileContextKey).(*model.Profile)
	if !ok || profile == nil {
		return nil, fmt.Errorf("profile not found in context")
	}
	return profile, nil
}

// ContextWithProfile はコンテキストにプロファイルを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}

// ContextWithSessionID はコンテキストにセッションIDを注入する。
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// SessionIDFromContext はリクエストコンテキストからセッションIDを取得する。
func SessionIDFromContext(ctx context.Context) (string, error) {
	sessionID, ok := ctx.Value(sessionIDContextKey).(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session ID not found in context")
	}
	return sessionID, nil
}
