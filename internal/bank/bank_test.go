// internal/bank/bank_test.go
//
// 本檔為帳戶目錄（聚合層）的單元與整合測試。
// 覆蓋：開戶、相關人登錄、存提款與轉帳的錯誤映射、凍結與旗標管理、
// 利息試算、併發轉帳守恆與快照還原。
// 所有測試皆為 in-memory 執行，不依賴外部服務或資料庫。
package bank

import (
	"errors"
	"sync"
	"testing"

	"bankcore/internal/account"
	"bankcore/internal/identity"
)

const routing = "021000021"

// get 為小工具：安全取出帳戶。
// 若發生錯誤，立即讓測試失敗（方便多測例共用）。
func get(t *testing.T, b *Bank, number string) *account.Account {
	t.Helper()
	a, err := b.Get(number)
	if err != nil {
		t.Fatalf("Get(%s) err=%v", number, err)
	}
	return a
}

// TestOpenAndListGet 驗證開戶、查詢與列出功能。
// 涵蓋：唯一帳號、路由碼掛載、初始餘額正確性。
func TestOpenAndListGet(t *testing.T) {
	b := NewBank(routing)
	a1, err := b.Open(1000)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := b.Open(500)
	if err != nil {
		t.Fatal(err)
	}
	// 帳號必須唯一且非空
	if a1.AccountNumber == a2.AccountNumber || a1.AccountNumber == "" {
		t.Fatalf("numbers should be unique and non-empty: %q %q", a1.AccountNumber, a2.AccountNumber)
	}
	// 路由碼由銀行統一掛載
	if a1.RoutingNumber != routing {
		t.Fatalf("routing=%q want=%q", a1.RoutingNumber, routing)
	}
	if all := b.List(); len(all) != 2 {
		t.Fatalf("List len=%d want=2", len(all))
	}
	if g := get(t, b, a1.AccountNumber); g.Balance() != 1000 {
		t.Fatalf("balance=%v want=1000", g.Balance())
	}
}

// TestOpenNegativeBalance 驗證開戶初始餘額不得為負。
func TestOpenNegativeBalance(t *testing.T) {
	b := NewBank(routing)
	if _, err := b.Open(-1); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("want ErrBadAmount, got %v", err)
	}
}

// TestOwners 驗證相關人登錄與開戶時的參照檢核。
func TestOwners(t *testing.T) {
	b := NewBank(routing)

	// ❌ 未知角色
	if _, err := b.RegisterParty("banker", identity.Individual{Name: "X"}); !errors.Is(err, ErrBadRole) {
		t.Fatalf("want ErrBadRole, got %v", err)
	}

	p, err := b.RegisterParty(identity.RoleHolder, identity.Individual{Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}

	// ❌ 開戶參照不存在的相關人
	if _, err := b.Open(100, "p-999"); !errors.Is(err, ErrUnknownOwner) {
		t.Fatalf("want ErrUnknownOwner, got %v", err)
	}

	// ✅ 正常開戶並記錄參照
	a, err := b.Open(100, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Owners) != 1 || a.Owners[0] != p.ID {
		t.Fatalf("owners=%v want=[%s]", a.Owners, p.ID)
	}
	if got, err := b.Party(p.ID); err != nil || got.Individual.Name != "Alice" {
		t.Fatalf("Party=%+v err=%v", got, err)
	}
}

// TestDepositWithdrawErrors 驗證存提款的錯誤映射。
// 涵蓋：非法金額、帳戶不存在、餘額不足（含存款金額大於餘額的沿襲行為）。
func TestDepositWithdrawErrors(t *testing.T) {
	b := NewBank(routing)
	a, _ := b.Open(100)

	// ✅ 正常存提款
	if err := b.Deposit(a.AccountNumber, 50); err != nil {
		t.Fatal(err)
	}
	if err := b.Withdraw(a.AccountNumber, 30); err != nil {
		t.Fatal(err)
	}
	if bal := get(t, b, a.AccountNumber).Balance(); bal != 120 {
		t.Fatalf("balance=%v want=120", bal)
	}

	// ❌ 錯誤金額：0 或負數
	if err := b.Deposit(a.AccountNumber, 0); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("expect ErrBadAmount, got %v", err)
	}
	if err := b.Withdraw(a.AccountNumber, -1); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("expect ErrBadAmount, got %v", err)
	}

	// ❌ 帳戶不存在
	if err := b.Deposit("99999999", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound, got %v", err)
	}

	// ❌ 餘額不足：提款失敗並留下 Overdrawn 旗標
	if err := b.Withdraw(a.AccountNumber, 9999); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("expect ErrInsufficient, got %v", err)
	}
	if flags := get(t, b, a.AccountNumber).Flags(); len(flags) != 1 || flags[0] != account.FlagOverdrawn {
		t.Fatalf("flags=%v want {overdrawn}", flags)
	}

	// ❌ 沿襲行為：金額大於目前餘額的「存款」同樣被判不足額
	if err := b.Deposit(a.AccountNumber, 9999); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("expect ErrInsufficient on oversized deposit, got %v", err)
	}
}

// TestFreezeAndClearFlags 驗證凍結映射與旗標清除。
func TestFreezeAndClearFlags(t *testing.T) {
	b := NewBank(routing)
	a, _ := b.Open(100)

	if err := b.Freeze(a.AccountNumber); err != nil {
		t.Fatal(err)
	}
	// ❌ 凍結帳戶存提款 → ErrFrozen
	if err := b.Deposit(a.AccountNumber, 10); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expect ErrFrozen, got %v", err)
	}
	if err := b.Withdraw(a.AccountNumber, 10); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expect ErrFrozen, got %v", err)
	}

	// ✅ 清旗標後恢復正常
	if err := b.ClearFlags(a.AccountNumber); err != nil {
		t.Fatal(err)
	}
	if err := b.Deposit(a.AccountNumber, 10); err != nil {
		t.Fatal(err)
	}
	if bal := get(t, b, a.AccountNumber).Balance(); bal != 110 {
		t.Fatalf("balance=%v want=110", bal)
	}
}

// TestTransfer 驗證轉帳映射。
// 涵蓋：正常轉帳、相同帳戶、餘額不足、非法金額。
func TestTransfer(t *testing.T) {
	b := NewBank(routing)
	a1, _ := b.Open(1000)
	a2, _ := b.Open(500)

	// ✅ 正常轉帳
	if err := b.Transfer(a1.AccountNumber, a2.AccountNumber, 300); err != nil {
		t.Fatal(err)
	}
	if got := get(t, b, a1.AccountNumber).Balance(); got != 700 {
		t.Fatalf("a1=%v want=700", got)
	}
	if got := get(t, b, a2.AccountNumber).Balance(); got != 800 {
		t.Fatalf("a2=%v want=800", got)
	}

	// ❌ 相同帳戶不得轉帳
	if err := b.Transfer(a1.AccountNumber, a1.AccountNumber, 1); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("expect ErrSameAccount, got %v", err)
	}

	// ❌ 餘額不足
	if err := b.Transfer(a1.AccountNumber, a2.AccountNumber, 99999); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("expect ErrInsufficient, got %v", err)
	}

	// ❌ 金額必須大於 0
	for _, amt := range []float64{0, -5} {
		if err := b.Transfer(a1.AccountNumber, a2.AccountNumber, amt); !errors.Is(err, ErrBadAmount) {
			t.Fatalf("amt=%v want ErrBadAmount, got %v", amt, err)
		}
	}
}

// TestTransferFrozen 驗證凍結端造成的轉帳失敗映射為 ErrFrozen，
// 且來源端已被補償回原餘額。
func TestTransferFrozen(t *testing.T) {
	b := NewBank(routing)
	a1, _ := b.Open(1000)
	a2, _ := b.Open(500)
	_ = b.Freeze(a2.AccountNumber)

	if err := b.Transfer(a1.AccountNumber, a2.AccountNumber, 300); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expect ErrFrozen, got %v", err)
	}
	if got := get(t, b, a1.AccountNumber).Balance(); got != 1000 {
		t.Fatalf("a1=%v want compensated 1000", got)
	}
}

// TestInterest 驗證利息試算端到端：純讀取、不改變餘額。
func TestInterest(t *testing.T) {
	b := NewBank(routing)
	a, _ := b.Open(100)

	v, err := b.Interest(a.AccountNumber, 0.05)
	if err != nil || v != 5.0 {
		t.Fatalf("interest=%v err=%v want 5.0", v, err)
	}
	if _, err := b.Interest("99999999", 0.05); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound, got %v", err)
	}
}

// TestConcurrentTransfersConservation 驗證高併發下雙向轉帳後總額守恆。
// 每帳戶一把鎖：單筆轉帳不是跨帳戶原子操作，但成功者成對增減，
// 靜止後的總額必定不變、餘額皆非負。
func TestConcurrentTransfersConservation(t *testing.T) {
	b := NewBank(routing)
	a1, _ := b.Open(1000)
	a2, _ := b.Open(1000)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := b.Transfer(a1.AccountNumber, a2.AccountNumber, 1); err != nil {
				t.Errorf("A->B: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := b.Transfer(a2.AccountNumber, a1.AccountNumber, 1); err != nil {
				t.Errorf("B->A: %v", err)
			}
		}()
	}
	wg.Wait()

	b1 := get(t, b, a1.AccountNumber).Balance()
	b2 := get(t, b, a2.AccountNumber).Balance()
	if b1 < 0 || b2 < 0 {
		t.Fatalf("negative balance: a1=%v a2=%v", b1, b2)
	}
	if total := b1 + b2; total != 2000 {
		t.Fatalf("total=%v want 2000", total)
	}
}

// TestSnapshotRestore 驗證快照儲存與還原功能。
// 確保餘額、旗標、相關人參照與發號水位在還原後完全一致。
func TestSnapshotRestore(t *testing.T) {
	b := NewBank(routing)
	p, _ := b.RegisterParty(identity.RoleHolder, identity.Individual{Name: "Alice"})
	a1, _ := b.Open(1000, p.ID)
	a2, _ := b.Open(500)
	_ = b.Deposit(a1.AccountNumber, 200)
	_ = b.Withdraw(a2.AccountNumber, 9999) // 留下 overdrawn 旗標
	_ = b.Freeze(a2.AccountNumber)

	snap := b.Snapshot()

	// 新的 Bank 從快照復原
	b2 := NewBank("")
	b2.Restore(snap)

	if b2.Routing() != routing {
		t.Fatalf("routing=%q want=%q", b2.Routing(), routing)
	}
	if got := get(t, b2, a1.AccountNumber).Balance(); got != 1200 {
		t.Fatalf("restored a1 balance=%v want=1200", got)
	}
	ra2 := get(t, b2, a2.AccountNumber)
	if got := ra2.Balance(); got != 500 {
		t.Fatalf("restored a2 balance=%v want=500", got)
	}
	// 旗標完整還原（overdrawn + freeze）
	if !ra2.HasFlag(account.FlagOverdrawn) || !ra2.HasFlag(account.FlagFreeze) {
		t.Fatalf("restored a2 flags=%v want overdrawn+freeze", ra2.Flags())
	}
	// 相關人參照還原
	ra1 := get(t, b2, a1.AccountNumber)
	if len(ra1.Owners) != 1 || ra1.Owners[0] != p.ID {
		t.Fatalf("restored owners=%v want=[%s]", ra1.Owners, p.ID)
	}
	if got, err := b2.Party(p.ID); err != nil || got.Individual.Name != "Alice" {
		t.Fatalf("restored party=%+v err=%v", got, err)
	}

	// 還原後繼續開戶不得與既有帳號重複
	a3, err := b2.Open(1)
	if err != nil {
		t.Fatal(err)
	}
	if a3.AccountNumber == a1.AccountNumber || a3.AccountNumber == a2.AccountNumber {
		t.Fatalf("number collision after restore: %q", a3.AccountNumber)
	}
}
