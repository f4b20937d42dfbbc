// Package auth は認証・セッション管理のドメインロジックを提供する。
//
// 本人確認は外部IDプロバイダー（Supabase Auth）またはモックプロバイダーが行い、
// どちらを使うかは起動時の構成検査で1回だけ決定される。確認後のセッションは
// バックエンドに関係なく常にサーバー内で発行・管理する。
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/supabase"
)

// Identity は本人確認に成功したユーザーの識別情報。
type Identity struct {
	UserID      string
	Email       string
	AccessToken string
}

// IdentityProvider は本人確認のインターフェース。
type IdentityProvider interface {
	// SignIn はメールとパスワードで本人確認を行う。
	// 認証失敗はUNAUTHORIZEDのAPIErrorで返す。
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignUp は新規ユーザーを登録する。
	SignUp(ctx context.Context, email, password string) (*Identity, error)

	// SignOut はプロバイダー側のトークンを失効させる。
	SignOut(ctx context.Context, accessToken string) error
}

// SupabaseProvider はSupabase Authを使うIdentityProvider実装。
type SupabaseProvider struct {
	client *supabase.Client
}

var _ IdentityProvider = (*SupabaseProvider)(nil)

// NewSupabaseProvider はSupabaseProviderを作成する。
func NewSupabaseProvider(client *supabase.Client) *SupabaseProvider {
	return &SupabaseProvider{client: client}
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	session, err := p.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, model.NewUnauthorizedError("Invalid email or password")
	}
	return &Identity{
		UserID:      session.User.ID,
		Email:       session.User.Email,
		AccessToken: session.AccessToken,
	}, nil
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	session, err := p.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("ユーザー登録に失敗しました: %w", err)
	}
	return &Identity{
		UserID:      session.User.ID,
		Email:       session.User.Email,
		AccessToken: session.AccessToken,
	}, nil
}

func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	return p.client.SignOut(ctx, accessToken)
}

// mockCredential はモックプロバイダーの固定認証情報。
type mockCredential struct {
	userID   string
	password string
}

// MockProvider は固定認証情報で動くIdentityProvider実装。
// リモートストア未構成時のデモ用。
type MockProvider struct {
	credentials map[string]mockCredential
}

var _ IdentityProvider = (*MockProvider)(nil)

// NewMockProvider は管理者と一般ユーザーの固定認証情報を持つMockProviderを作成する。
func NewMockProvider() *MockProvider {
	return &MockProvider{
		credentials: map[string]mockCredential{
			"admin@naedex.com": {userID: "1", password: "admin123"},
			"user@example.com": {userID: "2", password: "user123"},
		},
	}
}

func (p *MockProvider) SignIn(_ context.Context, email, password string) (*Identity, error) {
	cred, ok := p.credentials[email]
	if !ok || cred.password != password {
		return nil, model.NewUnauthorizedError("Invalid email or password")
	}
	return &Identity{UserID: cred.userID, Email: email}, nil
}

func (p *MockProvider) SignUp(_ context.Context, email, _ string) (*Identity, error) {
	return &Identity{UserID: uuid.NewString(), Email: email}, nil
}

func (p *MockProvider) SignOut(_ context.Context, _ string) error {
	return nil
}
