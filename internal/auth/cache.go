package auth

import (
	"sync"

	"github.com/naedex/naedex/internal/model"
)

// profileCache はユーザーIDをキーにしたプロファイルのインメモリキャッシュ。
//
// プロファイル参照はリクエストごとに発生するため、ストアへの往復を
// 避ける目的で保持する。roleの変更（管理者昇格など）を反映するには
// Invalidateで明示的に破棄する。
type profileCache struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

func newProfileCache() *profileCache {
	return &profileCache{profiles: make(map[string]*model.Profile)}
}

func (c *profileCache) get(userID string) (*model.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.profiles[userID]
	if !ok {
		return nil, false
	}
	clone := *p
	return &clone, true
}

func (c *profileCache) put(profile *model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := *profile
	c.profiles[profile.ID] = &clone
}

// invalidate は指定ユーザーのキャッシュを破棄する。
// 次回参照時に必ずストアから再読込される。
func (c *profileCache) invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.profiles, userID)
}
