package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naedex/naedex/internal/model"
)

// MemoryLikeRepository はLikeStoreのインメモリ実装。
type MemoryLikeRepository struct {
	mu    sync.RWMutex
	likes map[string]*model.Like
}

var _ LikeStore = (*MemoryLikeRepository)(nil)

// NewMemoryLikeRepository はMemoryLikeRepositoryを作成する。
func NewMemoryLikeRepository() *MemoryLikeRepository {
	return &MemoryLikeRepository{likes: make(map[string]*model.Like)}
}

func (r *MemoryLikeRepository) Find(_ context.Context, userEmail, itemID string, itemType model.ItemType) (*model.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.likes {
		if l.UserEmail == userEmail && l.ItemID == itemID && l.ItemType == itemType {
			clone := *l
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemoryLikeRepository) Insert(_ context.Context, like *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	clone := *like
	r.likes[like.ID] = &clone
	return nil
}

func (r *MemoryLikeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.likes, id)
	return nil
}

func (r *MemoryLikeRepository) CountByItem(_ context.Context, itemID string, itemType model.ItemType) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, l := range r.likes {
		if l.ItemID == itemID && l.ItemType == itemType {
			count++
		}
	}
	return count, nil
}

func (r *MemoryLikeRepository) ListByItems(_ context.Context, itemIDs []string) ([]*model.Like, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var likes []*model.Like
	for _, l := range r.likes {
		if _, ok := wanted[l.ItemID]; ok {
			clone := *l
			likes = append(likes, &clone)
		}
	}
	return likes, nil
}
