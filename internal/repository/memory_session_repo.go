package repository

import (
	"context"
	"sync"
	"time"

	"github.com/naedex/naedex/internal/model"
)

// MemorySessionRepository はSessionStoreのインメモリ実装。
// セッションはサーバーローカルな状態のため、バックエンド構成に関係なく常にこれを使う。
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

var _ SessionStore = (*MemorySessionRepository)(nil)

// NewMemorySessionRepository はMemorySessionRepositoryを作成する。
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*model.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *MemorySessionRepository) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *MemorySessionRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

// PurgeExpired は期限切れセッションを一括削除し、削除件数を返す。
// 期限切れセッションはFindByID時にも遅延削除されるが、
// 参照されないまま残ったものはこのバッチで回収する。
func (r *MemorySessionRepository) PurgeExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	purged := 0
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			purged++
		}
	}
	return purged, nil
}
