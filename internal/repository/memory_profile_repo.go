package repository

import (
	"context"
	"sync"
	"time"

	"github.com/naedex/naedex/internal/model"
)

// MemoryProfileRepository はProfileStoreのインメモリ実装。
// モック認証用の管理者・一般ユーザーのプロファイルをシードとして持つ。
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

var _ ProfileStore = (*MemoryProfileRepository)(nil)

// NewMemoryProfileRepository はシード入りのMemoryProfileRepositoryを作成する。
func NewMemoryProfileRepository() *MemoryProfileRepository {
	now := time.Now()
	r := &MemoryProfileRepository{profiles: make(map[string]*model.Profile)}
	r.profiles["1"] = &model.Profile{
		ID:          "1",
		Email:       "admin@naedex.com",
		Name:        "Admin User",
		DisplayName: "Admin User",
		Role:        model.RoleAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.profiles["2"] = &model.Profile{
		ID:          "2",
		Email:       "user@example.com",
		Name:        "Demo User",
		DisplayName: "Demo User",
		Role:        model.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r
}

func (r *MemoryProfileRepository) FindByID(_ context.Context, id string) (*model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *MemoryProfileRepository) Insert(_ context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	clone := *profile
	clone.Role = model.RoleUser
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.profiles[clone.ID] = &clone
	return nil
}
