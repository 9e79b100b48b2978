// internal/identity/registry.go
//
// Registry 為相關人的外部擁有者：發號、保存、查詢。
// 帳戶端只拿 PartyID，因此相關人資料的生命週期完全由這裡決定；
// 移除或替換相關人不需要觸碰任何帳戶狀態。
package identity

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Registry 管理全系統相關人。
// - mu：保護 parties map 的讀寫。
// - nextID：以原子遞增產生 PartyID，避免併發碰撞。
type Registry struct {
	mu      sync.Mutex
	nextID  int64
	parties map[PartyID]Party
}

// NewRegistry 建立空白登錄簿。
func NewRegistry() *Registry {
	return &Registry{parties: make(map[PartyID]Party)}
}

// newID 回傳唯一遞增的 PartyID。
func (r *Registry) newID() PartyID {
	return PartyID(fmt.Sprintf("p-%d", atomic.AddInt64(&r.nextID, 1)))
}

// Add 以角色與個人資料登錄新的相關人，回傳已配號的 Party。
func (r *Registry) Add(role Role, ind Individual) Party {
	p := Party{ID: r.newID(), Role: role, Individual: ind}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parties[p.ID] = p
	return p
}

// Get 依 ID 查詢相關人；第二回傳值標示是否存在。
func (r *Registry) Get(id PartyID) (Party, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parties[id]
	return p, ok
}

// List 回傳所有相關人（依 ID 排序的值拷貝）。
func (r *Registry) List() []Party {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Party, 0, len(r.parties))
	for _, p := range r.parties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Restore 以既有資料重建登錄簿內容（供快照還原使用）。
func (r *Registry) Restore(nextID int64, parties []Party) {
	r.mu.Lock()
	defer r.mu.Unlock()
	atomic.StoreInt64(&r.nextID, nextID)
	r.parties = make(map[PartyID]Party, len(parties))
	for _, p := range parties {
		r.parties[p.ID] = p
	}
}

// NextID 回傳目前的發號水位（供快照匯出使用）。
func (r *Registry) NextID() int64 {
	return atomic.LoadInt64(&r.nextID)
}
