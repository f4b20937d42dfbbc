package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/repository"
)

// profileCreateTimeout はバックグラウンドのプロファイル作成の上限。
const profileCreateTimeout = 10 * time.Second

// LoginResult はログイン・サインアップの結果。
// Warningはサインアップ時にプロファイル作成だけが失敗した場合の注意文。
type LoginResult struct {
	Profile *model.Profile
	Session *model.Session
	Warning string
}

// Service は認証・セッション管理のサービス層。
type Service struct {
	provider   IdentityProvider
	profiles   repository.ProfileStore
	sessions   repository.SessionStore
	cache      *profileCache
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	provider IdentityProvider,
	profiles repository.ProfileStore,
	sessions repository.SessionStore,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider:   provider,
		profiles:   profiles,
		sessions:   sessions,
		cache:      newProfileCache(),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login は本人確認を行い、サーバー発行のセッションとプロファイルを返す。
// 認証失敗はUNAUTHORIZEDで返し、メール不在とパスワード不一致は区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, model.NewValidationError("Email and password are required")
	}

	identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := s.loadProfile(ctx, identity)
	session, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", identity.UserID),
		slog.String("role", string(profile.Role)))

	return &LoginResult{Profile: profile, Session: session}, nil
}

// Signup は新規ユーザーを登録し、ログイン済みセッションを返す。
// プロファイル作成だけが失敗した場合も登録自体は成功とし、Warningを添える。
func (s *Service) Signup(ctx context.Context, email, password, name string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, model.NewValidationError("Email, password and name are required")
	}

	identity, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:          identity.UserID,
		Email:       email,
		Name:        name,
		DisplayName: name,
		Role:        model.RoleUser,
	}

	warning := ""
	if err := s.profiles.Insert(ctx, profile); err != nil {
		// プロファイルなしでも基本機能は使えるため登録は成功させる
		s.logger.Warn("profile creation failed during signup",
			slog.String("user_id", identity.UserID),
			slog.String("error", err.Error()))
		warning = "Account created, but profile setup is incomplete. Some features may be limited."
	} else {
		s.cache.put(profile)
	}

	session, err := s.createSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", slog.String("user_id", identity.UserID))

	return &LoginResult{Profile: profile, Session: session, Warning: warning}, nil
}

// Logout はセッションを破棄し、プロバイダー側のトークンを失効させる。
// トークン失効の失敗はログに残すだけでエラーにしない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil
	}

	if session.AccessToken != "" {
		if err := s.provider.SignOut(ctx, session.AccessToken); err != nil {
			s.logger.Warn("provider sign-out failed",
				slog.String("user_id", session.UserID),
				slog.String("error", err.Error()))
		}
	}

	s.cache.invalidate(session.UserID)
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	s.logger.Info("user logged out", slog.String("user_id", session.UserID))
	return nil
}

// CurrentUser はセッションIDからプロファイルを返す。
// セッションが無効な場合はnilを返す（エラーにはしない）。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.Profile, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	identity := &Identity{UserID: session.UserID, Email: session.Email}
	return s.loadProfile(ctx, identity), nil
}

// RefreshProfile はキャッシュを破棄してプロファイルをストアから再読込する。
// 管理者昇格などrole変更の反映に使う。
func (s *Service) RefreshProfile(ctx context.Context, sessionID string) (*model.Profile, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError("Not logged in")
	}

	s.cache.invalidate(session.UserID)

	identity := &Identity{UserID: session.UserID, Email: session.Email}
	return s.loadProfile(ctx, identity), nil
}

// loadProfile はキャッシュ→ストアの順でプロファイルを解決する。
// ストアに見つからない場合はrole=userのフォールバックプロファイルを返し、
// バックグラウンドで作成を試みる。参照の失敗でログインを妨げない。
func (s *Service) loadProfile(ctx context.Context, identity *Identity) *model.Profile {
	if cached, ok := s.cache.get(identity.UserID); ok {
		return cached
	}

	profile, err := s.profiles.FindByID(ctx, identity.UserID)
	if err != nil {
		s.logger.Warn("profile lookup failed, using fallback",
			slog.String("user_id", identity.UserID),
			slog.String("error", err.Error()))
		return s.fallbackProfile(identity)
	}
	if profile == nil {
		fallback := s.fallbackProfile(identity)
		s.createProfileInBackground(fallback)
		return fallback
	}

	s.cache.put(profile)
	return profile
}

func (s *Service) fallbackProfile(identity *Identity) *model.Profile {
	prefix, _, _ := strings.Cut(identity.Email, "@")
	name := EmailPrefixToName(prefix)
	return &model.Profile{
		ID:          identity.UserID,
		Email:       identity.Email,
		Name:        name,
		DisplayName: name,
		Role:        model.RoleUser,
	}
}

func (s *Service) createProfileInBackground(profile *model.Profile) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), profileCreateTimeout)
		defer cancel()

		if err := s.profiles.Insert(ctx, profile); err != nil {
			s.logger.Warn("background profile creation failed",
				slog.String("user_id", profile.ID),
				slog.String("error", err.Error()))
			return
		}
		s.logger.Debug("profile created in background", slog.String("user_id", profile.ID))
	}()
}

func (s *Service) createSession(ctx context.Context, identity *Identity) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Email:       identity.Email,
		AccessToken: identity.AccessToken,
		ExpiresAt:   now.Add(s.sessionTTL),
		CreatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}
	return session, nil
}
