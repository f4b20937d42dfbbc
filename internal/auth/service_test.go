package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/naedex/naedex/internal/model"
	"github.com/naedex/naedex/internal/repository"
)

// mockProfileStore はProfileStoreのテスト用モック。
type mockProfileStore struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Profile, error)
	insertFunc   func(ctx context.Context, profile *model.Profile) error
}

var _ repository.ProfileStore = (*mockProfileStore)(nil)

func (m *mockProfileStore) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockProfileStore) Insert(ctx context.Context, profile *model.Profile) error {
	if m.insertFunc == nil {
		return nil
	}
	return m.insertFunc(ctx, profile)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newMockService() *Service {
	return NewService(
		NewMockProvider(),
		repository.NewMemoryProfileRepository(),
		repository.NewMemorySessionRepository(),
		24*time.Hour,
		testLogger(),
	)
}

func TestLogin_MockCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantRole model.Role
		wantErr  string
	}{
		{"管理者ログイン", "admin@naedex.com", "admin123", model.RoleAdmin, ""},
		{"一般ユーザーログイン", "user@example.com", "user123", model.RoleUser, ""},
		{"パスワード不一致", "admin@naedex.com", "wrong", "", "UNAUTHORIZED"},
		{"未知のメール", "nobody@example.com", "admin123", "", "UNAUTHORIZED"},
		{"メール未入力", "", "admin123", "", "VALIDATION_ERROR"},
		{"パスワード未入力", "admin@naedex.com", "", "", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockService()
			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != "" {
				var apiErr *model.APIError
				if !errors.As(err, &apiErr) || apiErr.Code != tt.wantErr {
					t.Fatalf("Login() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.Profile.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", result.Profile.Role, tt.wantRole)
			}
			if result.Session == nil || result.Session.ID == "" {
				t.Error("session was not created")
			}
			if !result.Session.ExpiresAt.After(time.Now()) {
				t.Error("session already expired")
			}
		})
	}
}

func TestLogin_ProfileFallback(t *testing.T) {
	created := make(chan *model.Profile, 1)
	profiles := &mockProfileStore{
		findByIDFunc: func(_ context.Context, _ string) (*model.Profile, error) {
			return nil, nil
		},
		insertFunc: func(_ context.Context, p *model.Profile) error {
			created <- p
			return nil
		},
	}
	svc := NewService(NewMockProvider(), profiles, repository.NewMemorySessionRepository(), time.Hour, testLogger())

	result, err := svc.Login(context.Background(), "admin@naedex.com", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// プロファイル不在時はrole=userでメール由来の表示名にフォールバックする
	if result.Profile.Role != model.RoleUser {
		t.Errorf("fallback role = %q, want user", result.Profile.Role)
	}
	if result.Profile.Name != "Admin" {
		t.Errorf("fallback name = %q, want Admin", result.Profile.Name)
	}

	// バックグラウンドでプロファイル作成が試行される
	select {
	case p := <-created:
		if p.ID != "1" {
			t.Errorf("background-created profile ID = %q, want 1", p.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("background profile creation did not happen")
	}
}

func TestLogin_ProfileLookupFailureDoesNotBlockLogin(t *testing.T) {
	profiles := &mockProfileStore{
		findByIDFunc: func(_ context.Context, _ string) (*model.Profile, error) {
			return nil, errors.New("store down")
		},
	}
	svc := NewService(NewMockProvider(), profiles, repository.NewMemorySessionRepository(), time.Hour, testLogger())

	result, err := svc.Login(context.Background(), "user@example.com", "user123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Profile.Role != model.RoleUser {
		t.Errorf("fallback role = %q, want user", result.Profile.Role)
	}
}

func TestSignup(t *testing.T) {
	t.Run("登録成功", func(t *testing.T) {
		svc := newMockService()
		result, err := svc.Signup(context.Background(), "new@example.com", "secret", "New User")
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if result.Warning != "" {
			t.Errorf("warning = %q, want empty", result.Warning)
		}
		if result.Profile.Name != "New User" || result.Profile.Role != model.RoleUser {
			t.Errorf("profile = %+v, want user role with given name", result.Profile)
		}
		if result.Session == nil {
			t.Error("session was not created")
		}
	})

	t.Run("プロファイル作成失敗でも登録は成功する", func(t *testing.T) {
		profiles := &mockProfileStore{
			findByIDFunc: func(_ context.Context, _ string) (*model.Profile, error) { return nil, nil },
			insertFunc:   func(_ context.Context, _ *model.Profile) error { return errors.New("insert failed") },
		}
		svc := NewService(NewMockProvider(), profiles, repository.NewMemorySessionRepository(), time.Hour, testLogger())

		result, err := svc.Signup(context.Background(), "new@example.com", "secret", "New User")
		if err != nil {
			t.Fatalf("Signup() error = %v", err)
		}
		if result.Warning == "" {
			t.Error("warning is empty, want a profile-setup warning")
		}
		if result.Session == nil {
			t.Error("session was not created")
		}
	})

	t.Run("必須項目の欠落", func(t *testing.T) {
		svc := newMockService()
		_, err := svc.Signup(context.Background(), "new@example.com", "secret", " ")
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Signup() error = %v, want VALIDATION_ERROR", err)
		}
	})
}

func TestLogoutAndCurrentUser(t *testing.T) {
	svc := newMockService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "admin@naedex.com", "admin123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sessionID := result.Session.ID

	profile, err := svc.CurrentUser(ctx, sessionID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if profile == nil || profile.Email != "admin@naedex.com" {
		t.Errorf("CurrentUser() = %+v, want admin profile", profile)
	}

	if err := svc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	profile, err = svc.CurrentUser(ctx, sessionID)
	if err != nil {
		t.Fatalf("CurrentUser() after logout error = %v", err)
	}
	if profile != nil {
		t.Errorf("CurrentUser() after logout = %+v, want nil", profile)
	}

	// 無効なセッションIDのログアウトはエラーにしない
	if err := svc.Logout(ctx, "no-such-session"); err != nil {
		t.Errorf("Logout() with unknown session error = %v", err)
	}
}

func TestRefreshProfile_ReflectsRoleChange(t *testing.T) {
	role := model.RoleUser
	profiles := &mockProfileStore{
		findByIDFunc: func(_ context.Context, id string) (*model.Profile, error) {
			return &model.Profile{ID: id, Email: "user@example.com", Name: "Demo", Role: role}, nil
		},
	}
	svc := NewService(NewMockProvider(), profiles, repository.NewMemorySessionRepository(), time.Hour, testLogger())
	ctx := context.Background()

	result, err := svc.Login(ctx, "user@example.com", "user123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Profile.Role != model.RoleUser {
		t.Fatalf("initial role = %q, want user", result.Profile.Role)
	}

	// ストア側でroleが昇格してもキャッシュは古いまま
	role = model.RoleAdmin
	cached, err := svc.CurrentUser(ctx, result.Session.ID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if cached.Role != model.RoleUser {
		t.Fatalf("cached role = %q, want stale user role", cached.Role)
	}

	// RefreshProfileで再読込される
	refreshed, err := svc.RefreshProfile(ctx, result.Session.ID)
	if err != nil {
		t.Fatalf("RefreshProfile() error = %v", err)
	}
	if refreshed.Role != model.RoleAdmin {
		t.Errorf("refreshed role = %q, want admin", refreshed.Role)
	}
}

func TestRefreshProfile_RequiresSession(t *testing.T) {
	svc := newMockService()

	_, err := svc.RefreshProfile(context.Background(), "no-such-session")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "UNAUTHORIZED" {
		t.Errorf("RefreshProfile() error = %v, want UNAUTHORIZED", err)
	}
}
