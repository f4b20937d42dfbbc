package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthUser はGoTrueが管理する認証ユーザーを表す。
// IDは外部プロバイダー発行の不透明な識別子で、profilesテーブルの主キーと一致する。
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession はGoTrueが発行したトークンセッションを表す。
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// SignInWithPassword はメールアドレスとパスワードで認証する。
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	return c.tokenRequest(ctx, c.authURL+"/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp は新しい認証ユーザーを作成する。
// プロファイル行の作成は呼び出し側の責務（認証とプロファイルは別テーブル）。
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	return c.tokenRequest(ctx, c.authURL+"/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

// RefreshSession はリフレッシュトークンで新しいセッションを取得する。
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*AuthSession, error) {
	return c.tokenRequest(ctx, c.authURL+"/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut はアクセストークンを失効させる。
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	respBody, statusCode, _, err := c.requestWithToken(ctx, http.MethodPost, c.authURL+"/logout", nil, nil, accessToken)
	if err != nil {
		return err
	}

	if statusCode >= 400 {
		return parseError(respBody, statusCode)
	}

	return nil
}

// GetUser はアクセストークンに対応する認証ユーザーを取得する。
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	respBody, statusCode, _, err := c.requestWithToken(ctx, http.MethodGet, c.authURL+"/user", nil, nil, accessToken)
	if err != nil {
		return nil, err
	}

	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var user AuthUser
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("unmarshal auth user: %w", err)
	}

	return &user, nil
}

// tokenRequest はGoTrueのトークン系エンドポイントを呼び出す共通処理。
func (c *Client) tokenRequest(ctx context.Context, urlStr string, payload map[string]string) (*AuthSession, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal auth request: %w", err)
	}

	respBody, statusCode, _, err := c.request(ctx, http.MethodPost, urlStr, body, nil)
	if err != nil {
		return nil, err
	}

	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	var session AuthSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal auth session: %w", err)
	}

	return &session, nil
}
