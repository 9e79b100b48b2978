// internal/account/account.go

// Package account 定義單一帳戶的併發核心：
// 餘額與狀態旗標由一把自旋鎖保護（spinlock.Cell），所有變更在各自的臨界區內序列化完成；
// 讀取（餘額、旗標、凍結檢查、利息試算）走免鎖的快照路徑，容忍過期值。
//
// 重要的併發邊界：
//   - 每個帳戶恰好一把鎖；任何操作最多持有一個帳戶的鎖，且不跨操作持鎖。
//   - 因此兩帳戶間不可能死鎖，但跨帳戶轉帳也「不是」原子交易（見 transfer.go）。
package account

import (
	"bankcore/internal/identity"
	"bankcore/internal/spinlock"
)

// Flag 為帳戶狀態旗標。旗標集合中同種旗標至多一枚，順序無意義。
type Flag string

const (
	// FlagOverdrawn 於提款因餘額不足失敗時設置。
	FlagOverdrawn Flag = "overdrawn"
	// FlagFreeze 凍結帳戶：存款與提款一律拒絕。
	FlagFreeze Flag = "freeze"
)

// state 為鎖保護下的可變欄位；只能透過 cell.Do 變更。
// flags 採 copy-on-write：已發布的快照不可變。
type state struct {
	balance float64
	flags   []Flag
}

// Account 代表一個銀行帳戶。
// 識別欄位（路由碼、帳號、相關人參照）建構後即不再變動，可自由讀取；
// balance 與 flags 收在受護儲存格內。相關人僅以 PartyID 參照，核心不解參考也不管理其生命週期。
type Account struct {
	RoutingNumber string
	AccountNumber string
	Owners        []identity.PartyID
	cell          *spinlock.Cell[state]
}

// New 以路由碼、帳號、初始餘額與零或多個相關人參照建構帳戶。
// 初始狀態：旗標集合為空、鎖未持有。路由碼與帳號視為不透明字串，核心不驗證。
func New(routing, number string, initial float64, owners ...identity.PartyID) *Account {
	return &Account{
		RoutingNumber: routing,
		AccountNumber: number,
		Owners:        append([]identity.PartyID(nil), owners...),
		cell:          spinlock.NewCell(state{balance: initial}),
	}
}

// Balance 回傳餘額的免鎖快照讀值（可能落後於進行中的變更）。
func (a *Account) Balance() float64 {
	return a.cell.Peek().balance
}

// Flags 回傳旗標集合的值拷貝（免鎖快照讀值）。
func (a *Account) Flags() []Flag {
	return append([]Flag(nil), a.cell.Peek().flags...)
}

// HasFlag 回報旗標是否存在（免鎖快照讀值）。
func (a *Account) HasFlag(f Flag) bool {
	for _, g := range a.cell.Peek().flags {
		if g == f {
			return true
		}
	}
	return false
}

// IsFrozen 回報帳戶是否凍結。刻意不取鎖：與進行中的凍結操作並行時
// 可能讀到上一版旗標，這是快路徑的既定取捨，下一次呼叫即可觀察到新狀態。
func (a *Account) IsFrozen() bool {
	return a.HasFlag(FlagFreeze)
}

// CalculateInterest 回傳 balance × rate 的純試算值，不改變任何狀態。
// 與 IsFrozen 相同走免鎖快照，容忍同等程度的過期。
func (a *Account) CalculateInterest(rate float64) float64 {
	return a.cell.Peek().balance * rate
}
