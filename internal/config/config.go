// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// リモートストア未設定時に配布テンプレートへ残るプレースホルダー値。
// これらが設定されている場合は「未設定」として扱い、モックモードで起動する。
const (
	placeholderSupabaseURL = "https://your-project.supabase.co"
	placeholderSupabaseKey = "your-anon-key-here"
	placeholderBrevoKey    = "your-brevo-api-key-here"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// リモートストアとメールの認証情報は全てオプション:
// 欠落はエラーではなく、検出済みの構成状態（モックモード）である。
type Config struct {
	// Supabase（リモートストア + 認証）
	SupabaseURL     string
	SupabaseAnonKey string

	// 直接DB接続（migrateサブコマンド専用）
	DatabaseURL string

	// Brevo（トランザクションメール）
	BrevoAPIKey string
	FromEmail   string
	FromName    string

	// Server
	ServerPort  string
	BaseURL     string
	SiteOrigin  string // メール本文内のリンク先
	HTTPTimeout time.Duration

	// Session
	SessionMaxAge int

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリの.envがあれば先に読み込む（既存の環境変数が優先）。
// 必須環境変数は存在しない。バックエンド認証情報の欠落はモックモードを意味する。
func Load() (*Config, error) {
	// .envはローカル開発用。存在しなくてもエラーにしない。
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		BrevoAPIKey:     os.Getenv("BREVO_API_KEY"),
		FromEmail:       getEnvString("FROM_EMAIL", "noreply@naedex.com"),
		FromName:        getEnvString("FROM_NAME", "NaedeX Team"),
		ServerPort:      getEnvString("SERVER_PORT", "8080"),
		BaseURL:         getEnvString("BASE_URL", "http://localhost:8080"),
		SiteOrigin:      getEnvString("SITE_ORIGIN", "https://naedex.com"),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		SessionMaxAge:   getEnvInt("SESSION_MAX_AGE", 86400),
		CookieDomain:    getEnvString("COOKIE_DOMAIN", ""),
	}

	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return cfg, nil
}

// HasValidStore はリモートストアの認証情報が実際に設定されているかを返す。
// プレースホルダー値は未設定として扱う。
// この判定は起動時に1回だけ行われ、依存の組み立てで参照される。
// セッション中にバックエンドが切り替わることはない。
func (c *Config) HasValidStore() bool {
	return c.SupabaseURL != "" &&
		c.SupabaseAnonKey != "" &&
		c.SupabaseURL != placeholderSupabaseURL &&
		c.SupabaseAnonKey != placeholderSupabaseKey
}

// HasValidMail はメールAPIキーが実際に設定されているかを返す。
// 未設定の場合、メール送信はログ出力のみの成功扱いにダウングレードされる。
func (c *Config) HasValidMail() bool {
	return c.BrevoAPIKey != "" && c.BrevoAPIKey != placeholderBrevoKey
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
