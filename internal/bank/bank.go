// internal/bank/bank.go

// Package bank 為帳戶目錄（聚合層）：開戶、查詢、相關人登錄與快照匯出/還原。
// 與單一大鎖的設計不同，這裡的互斥粒度是「每帳戶一把鎖」（見 internal/account）：
// Bank.mu 只保護帳戶索引表本身，存提款與轉帳完全委派給 account 核心，
// 聚合層絕不在持有索引鎖的狀態下進入任何帳戶的臨界區。
// 代價是跨帳戶轉帳不具單一臨界區的原子性——這是核心的既定語意，非此層可補救。
package bank

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"bankcore/internal/account"
	"bankcore/internal/identity"
	"bankcore/internal/storage"
)

// Bank 管理全系統帳戶與相關人。
// - mu：保護 accts 索引表（僅此而已；帳戶內部狀態由各自的鎖保護）。
// - nextNum：以原子遞增產生帳號，避免併發碰撞。
// - routing：本行路由碼，開出的帳戶一律掛在此路由碼下。
// - parties：相關人登錄簿；帳戶僅以 PartyID 參照其中的資料。
type Bank struct {
	mu      sync.Mutex
	nextNum int64
	routing string
	accts   map[string]*account.Account
	parties *identity.Registry
}

// NewBank 以路由碼建立空白銀行實例（in-memory，無外部依賴）。
func NewBank(routing string) *Bank {
	return &Bank{
		routing: routing,
		accts:   make(map[string]*account.Account),
		parties: identity.NewRegistry(),
	}
}

// Routing 回傳本行路由碼。
func (b *Bank) Routing() string { return b.routing }

// newNumber 回傳唯一遞增帳號。
// 使用 atomic 避免高併發下碰撞；真正寫入 map 仍在 mu 保護下。
func (b *Bank) newNumber() string {
	n := atomic.AddInt64(&b.nextNum, 1)
	return fmt.Sprintf("%08d", n)
}

// RegisterParty 登錄相關人；角色必須是已知的角色標籤。
func (b *Bank) RegisterParty(role identity.Role, ind identity.Individual) (identity.Party, error) {
	if !role.Valid() {
		return identity.Party{}, ErrBadRole
	}
	return b.parties.Add(role, ind), nil
}

// Party 依 ID 查詢相關人。
func (b *Bank) Party(id identity.PartyID) (identity.Party, error) {
	p, ok := b.parties.Get(id)
	if !ok {
		return identity.Party{}, ErrNotFound
	}
	return p, nil
}

// Parties 回傳所有相關人。
func (b *Bank) Parties() []identity.Party {
	return b.parties.List()
}

// Open 以初始餘額與零或多個相關人參照開戶；初始餘額不得為負，
// 相關人必須已存在於登錄簿。回傳的 *account.Account 自身即同步邊界，
// 可安全地與其他呼叫者共享。
func (b *Bank) Open(initial float64, owners ...identity.PartyID) (*account.Account, error) {
	if initial < 0 {
		return nil, ErrBadAmount
	}
	for _, id := range owners {
		if _, ok := b.parties.Get(id); !ok {
			return nil, ErrUnknownOwner
		}
	}
	a := account.New(b.routing, b.newNumber(), initial, owners...)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accts[a.AccountNumber] = a
	return a, nil
}

// Get 依帳號取得帳戶；不存在回傳 ErrNotFound。
// 與「值拷貝快照」的做法不同，這裡直接回傳共享指標：
// 帳戶的可變欄位全部收在它自己的受護儲存格內，外部無法越過鎖改寫。
func (b *Bank) Get(number string) (*account.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accts[number]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// List 回傳所有帳戶（依帳號排序）。
func (b *Bank) List() []*account.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*account.Account, 0, len(b.accts))
	for _, a := range b.accts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out
}

// Deposit 存款：金額需 > 0；委派 account 核心執行，失敗時換成領域錯誤。
// 失敗原因的判別（凍結 vs. 不足額）是事後的免鎖讀取，與當下拒絕的原因
// 可能存在極小的時間差；對回報目的而言可接受。
func (b *Bank) Deposit(number string, amt float64) error {
	if amt <= 0 {
		return ErrBadAmount
	}
	a, err := b.Get(number)
	if err != nil {
		return err
	}
	if a.Deposit(amt) {
		return nil
	}
	if a.IsFrozen() {
		return ErrFrozen
	}
	return ErrInsufficient
}

// Withdraw 提款：金額需 > 0；委派 account 核心執行，失敗時換成領域錯誤。
// 不足額的提款已由核心補上 Overdrawn 旗標，此層不重複處理。
func (b *Bank) Withdraw(number string, amt float64) error {
	if amt <= 0 {
		return ErrBadAmount
	}
	a, err := b.Get(number)
	if err != nil {
		return err
	}
	if a.Withdraw(amt) {
		return nil
	}
	if a.IsFrozen() {
		return ErrFrozen
	}
	return ErrInsufficient
}

// Transfer 轉帳：檢核參數與帳戶存在性後委派 account.Transfer。
// 注意這「不是」單一臨界區內的原子操作：兩帳戶各自上鎖、先後變更，
// 失敗時由核心盡力補償（見 account/transfer.go）。
func (b *Bank) Transfer(fromNum, toNum string, amt float64) error {
	if amt <= 0 {
		return ErrBadAmount
	}
	if fromNum == toNum {
		return ErrSameAccount
	}
	from, err := b.Get(fromNum)
	if err != nil {
		return err
	}
	to, err := b.Get(toNum)
	if err != nil {
		return err
	}
	if account.Transfer(from, to, amt) {
		return nil
	}
	if from.IsFrozen() || to.IsFrozen() {
		return ErrFrozen
	}
	return ErrInsufficient
}

// Freeze 為帳戶補上凍結旗標（冪等）。
func (b *Bank) Freeze(number string) error {
	a, err := b.Get(number)
	if err != nil {
		return err
	}
	a.AddFlag(account.FlagFreeze)
	return nil
}

// ClearFlags 清空帳戶的旗標集合（解除凍結與 Overdrawn 的唯一途徑）。
func (b *Bank) ClearFlags(number string) error {
	a, err := b.Get(number)
	if err != nil {
		return err
	}
	a.ClearFlags()
	return nil
}

// Interest 回傳帳戶的利息試算（balance × rate，純讀取不改變狀態）。
func (b *Bank) Interest(number string, rate float64) (float64, error) {
	a, err := b.Get(number)
	if err != nil {
		return 0, err
	}
	return a.CalculateInterest(rate), nil
}

// Snapshot 匯出銀行狀態到可持久化的 storage.Snapshot：
// 路由碼、發號水位、所有帳戶（餘額與旗標為當下的快照讀值）與相關人。
// 各帳戶的讀取彼此獨立，匯出期間仍有交易進行時，快照代表的是
// 「每個帳戶各自的一致時點」，而非全行的單一時點。
func (b *Bank) Snapshot() storage.Snapshot {
	s := storage.Snapshot{
		Meta: storage.Meta{
			Storage: "json_snapshot",
			Version: 1,
			Note:    "Can be replaced by database backend in the future.",
		},
		Routing:     b.routing,
		NextAccount: atomic.LoadInt64(&b.nextNum),
		NextParty:   b.parties.NextID(),
	}
	for _, a := range b.List() {
		pa := storage.PersistAccount{
			RoutingNumber: a.RoutingNumber,
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance(),
		}
		for _, f := range a.Flags() {
			pa.Flags = append(pa.Flags, string(f))
		}
		for _, id := range a.Owners {
			pa.Owners = append(pa.Owners, string(id))
		}
		s.Accounts = append(s.Accounts, pa)
	}
	for _, p := range b.parties.List() {
		s.Parties = append(s.Parties, storage.PersistParty{
			ID:    string(p.ID),
			Role:  string(p.Role),
			Name:  p.Individual.Name,
			Email: p.Individual.Email,
		})
	}
	return s
}

// Restore 由 storage.Snapshot 還原銀行狀態：重建發號水位、相關人與帳戶。
// 旗標透過 AddFlag 逐一補回（冪等，重複項自然去重）。
func (b *Bank) Restore(s storage.Snapshot) {
	parties := make([]identity.Party, 0, len(s.Parties))
	for _, pp := range s.Parties {
		parties = append(parties, identity.Party{
			ID:         identity.PartyID(pp.ID),
			Role:       identity.Role(pp.Role),
			Individual: identity.Individual{Name: pp.Name, Email: pp.Email},
		})
	}
	b.parties.Restore(s.NextParty, parties)

	accts := make(map[string]*account.Account, len(s.Accounts))
	for _, pa := range s.Accounts {
		owners := make([]identity.PartyID, 0, len(pa.Owners))
		for _, id := range pa.Owners {
			owners = append(owners, identity.PartyID(id))
		}
		a := account.New(pa.RoutingNumber, pa.AccountNumber, pa.Balance, owners...)
		for _, f := range pa.Flags {
			a.AddFlag(account.Flag(f))
		}
		accts[a.AccountNumber] = a
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if s.Routing != "" {
		b.routing = s.Routing
	}
	atomic.StoreInt64(&b.nextNum, s.NextAccount)
	b.accts = accts
}
