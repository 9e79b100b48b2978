// internal/account/transfer.go
//
// 跨帳戶轉帳的協調流程。兩個帳戶各自上鎖、先後變更，
// 全程沒有任何一把鎖同時護住兩邊——這不是兩階段提交，
// 併發讀取者可能觀察到「來源已扣款、目的未入帳」的中間狀態。
package account

// Transfer 自 src 提款 amount，成功後存入 dst。
//   - 提款失敗：不再動作，回傳 false。
//   - 入帳失敗：盡力補償（把款項存回 src），無論補償是否成功都回傳 false；
//     補償本身的失敗被靜默吸收。已知的弱點：若 src 在空檔被凍結，
//     或扣款後餘額低於補償金額（整筆餘額轉出時必然如此，肇因於 mutate 的
//     無條件不足額檢查），補償會失敗而款項實質消失。
//   - 兩段都成功：回傳 true。
func Transfer(src, dst *Account, amount float64) bool {
	if !src.Withdraw(amount) {
		return false
	}
	if !dst.Deposit(amount) {
		_ = src.Deposit(amount)
		return false
	}
	return true
}
