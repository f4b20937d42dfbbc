package model

import "time"

// Role はプロファイルの権限種別を表す。
// roleの昇格は本人には許可されず、ストア側の管理操作でのみ行われる。
type Role string

const (
	// RoleUser は一般ユーザー。
	RoleUser Role = "user"
	// RoleAdmin は管理者。モデレーション操作が許可される。
	RoleAdmin Role = "admin"
)

// Profile は認証済みユーザーのプロファイルを表す。
// IDは外部IDプロバイダーが発行する不透明な識別子。
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin は管理者権限を持つかを返す。
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Session はサーバー発行のログインセッションを表す。
// AccessTokenはリモートIDプロバイダー利用時のみ設定され、ログアウト時の
// トークン失効に使われる。
type Session struct {
	ID          string
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
