// Package app はアプリケーションの起動と依存関係の組み立てを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/naedex/naedex/internal/auth"
	"github.com/naedex/naedex/internal/comment"
	"github.com/naedex/naedex/internal/config"
	"github.com/naedex/naedex/internal/content"
	"github.com/naedex/naedex/internal/database"
	"github.com/naedex/naedex/internal/handler"
	"github.com/naedex/naedex/internal/like"
	"github.com/naedex/naedex/internal/logger"
	"github.com/naedex/naedex/internal/metrics"
	"github.com/naedex/naedex/internal/notify"
	"github.com/naedex/naedex/internal/project"
	"github.com/naedex/naedex/internal/repository"
	"github.com/naedex/naedex/internal/security"
	"github.com/naedex/naedex/internal/supabase"
	"github.com/naedex/naedex/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// stores はストレージバックエンド一式。
// リモートストアかインメモリモックのどちらか一方で、起動時に1回だけ選択される。
type stores struct {
	projects repository.ProjectStore
	likes    repository.LikeStore
	comments repository.CommentStore
	profiles repository.ProfileStore
	provider auth.IdentityProvider
	backend  string
}

// buildStores は設定に基づいてストレージバックエンドを組み立てる。
// リモートストアの認証情報がプレースホルダーのままの場合はインメモリモックを選ぶ。
// 選択は起動時の1回きりで、稼働中にリモート障害があってもモックへは切り替えない。
func buildStores(cfg *config.Config) (*stores, error) {
	if !cfg.HasValidStore() {
		return &stores{
			projects: repository.NewMemoryProjectRepository(),
			likes:    repository.NewMemoryLikeRepository(),
			comments: repository.NewMemoryCommentRepository(),
			profiles: repository.NewMemoryProfileRepository(),
			provider: auth.NewMockProvider(),
			backend:  "memory",
		}, nil
	}

	client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote store client: %w", err)
	}

	return &stores{
		projects: repository.NewSupabaseProjectRepository(client),
		likes:    repository.NewSupabaseLikeRepository(client),
		comments: repository.NewSupabaseCommentRepository(client),
		profiles: repository.NewSupabaseProfileRepository(client),
		provider: auth.NewSupabaseProvider(client),
		backend:  "supabase",
	}, nil
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ストレージバックエンドの選択
	st, err := buildStores(cfg)
	if err != nil {
		return err
	}

	slog.Info("storage backend selected",
		slog.String("backend", st.backend),
		slog.Bool("mail_enabled", cfg.HasValidMail()),
	)

	// セッションはバックエンドに関わらず常にインメモリ
	sessionRepo := repository.NewMemorySessionRepository()

	// 2. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. 通知系の初期化
	hub := notify.NewToastHub(collector)
	mailKey := cfg.BrevoAPIKey
	if !cfg.HasValidMail() {
		mailKey = ""
	}
	mailer := notify.NewBrevoMailer(
		mailKey, cfg.FromEmail, cfg.FromName, cfg.SiteOrigin,
		&http.Client{Timeout: cfg.HTTPTimeout},
		slog.Default(), collector,
	)
	dispatcher := notify.NewDispatcher(hub, mailer, slog.Default(), collector)

	// 4. ドメインサービスの初期化
	sanitizer := security.NewContentSanitizer()
	sessionTTL := time.Duration(cfg.SessionMaxAge) * time.Second

	authService := auth.NewService(st.provider, st.profiles, sessionRepo, sessionTTL, slog.Default())
	projectService := project.NewService(st.projects, sanitizer, dispatcher, slog.Default())
	likeService := like.NewService(st.likes, slog.Default())
	commentService := comment.NewService(st.comments, sanitizer, slog.Default())
	contentService := content.NewService(sanitizer, mailer, slog.Default())

	// 5. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		Collector:         collector,
		ProfileResolver:   authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
			SessionTTL:   sessionTTL,
		},

		ProjectService: projectService,
		LikeService:    likeService,
		CommentService: commentService,
		ContentService: contentService,

		ToastHub: hub,
		Gatherer: registry,
	}

	router := handler.NewRouter(deps)

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// SSEストリームを切らないようWriteTimeoutは設定しない
		IdleTimeout: 60 * time.Second,
	}

	// 7. 期限切れセッションの定期クリーンアップ
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	cleanupJob := cleanup.NewSessionCleanupJob(sessionRepo, slog.Default())
	go cleanupJob.Start(cleanupCtx)

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
