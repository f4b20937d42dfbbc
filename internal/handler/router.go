package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/naedex/naedex/internal/metrics"
	"github.com/naedex/naedex/internal/middleware"
	"github.com/naedex/naedex/internal/notify"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	ProfileResolver   middleware.ProfileResolver
	CORSAllowedOrigin string

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	ProjectService ProjectServiceInterface
	LikeService    LikeServiceInterface
	CommentService CommentServiceInterface
	ContentService ContentServiceInterface

	// 通知
	ToastHub *notify.ToastHub

	// メトリクスエンドポイント用のレジストリ。nilの場合は/metricsを公開しない。
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Session
//
// Sessionミドルウェアは未ログインでも素通しし、認可はRequireAuth/RequireAdminが行う。
// 公開ルート・要ログインルート・管理者ルートの三層を同じチェーンに載せるための構成。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewSessionMiddleware(deps.ProfileResolver))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	projectHandler := NewProjectHandler(deps.ProjectService)
	likeHandler := NewLikeHandler(deps.LikeService, deps.Collector)
	commentHandler := NewCommentHandler(deps.CommentService)
	contentHandler := NewContentHandler(deps.ContentService)
	toastHandler := NewToastHandler(deps.ToastHub)

	// 死活監視
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Post("/refresh-profile", authHandler.RefreshProfile)
	})

	// プロジェクト
	r.Route("/api/projects", func(r chi.Router) {
		// 公開: 承認済み一覧と投稿
		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Submit)

		// 管理者専用
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/all", projectHandler.ListAll)
			r.Get("/status/{status}", projectHandler.ListByStatus)
			r.Get("/stats", projectHandler.Stats)
			r.Post("/{id}/approve", projectHandler.Approve)
			r.Post("/{id}/reject", projectHandler.Reject)
			r.Delete("/{id}", projectHandler.Delete)
		})
	})

	// いいね
	r.Route("/api/likes", func(r chi.Router) {
		r.Get("/count", likeHandler.Count)
		r.Post("/bulk", likeHandler.Bulk)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Post("/toggle", likeHandler.Toggle)
			r.Get("/status", likeHandler.Status)
		})
	})

	// コメント
	r.Route("/api/comments", func(r chi.Router) {
		r.Get("/", commentHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Post("/", commentHandler.Add)
			r.Delete("/{id}", commentHandler.Delete)
			r.Post("/{id}/like", commentHandler.ToggleLike)
		})
	})

	// コンテンツ
	r.Get("/api/stories", contentHandler.Stories)
	r.Get("/api/stories/{id}", contentHandler.Story)
	r.Get("/api/events", contentHandler.Events)
	r.Post("/api/contact", contentHandler.Contact)
	r.Post("/api/join", contentHandler.Join)

	// トースト通知
	r.Route("/api/toasts", func(r chi.Router) {
		r.Get("/", toastHandler.Recent)
		r.Get("/stream", toastHandler.Stream)
	})

	return r
}
