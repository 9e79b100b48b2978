// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// account 核心以結果值（bool / Outcome）回報商業層級的失敗；
// bank 聚合層把這些結果值轉成 error，供上層 HTTP handler 與 CLI 映射成適當的回應。
// 統一集中管理錯誤類別能確保 API 回傳行為一致、方便測試與維護。
package bank

import "errors"

var (
	// ErrNotFound 代表帳戶不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrNotFound = errors.New("account not found")

	// ErrBadAmount 代表金額非法（<=0 或初始餘額為負）。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrBadAmount = errors.New("amount must be > 0")

	// ErrInsufficient 代表餘額不足，導致提款、存款（見 account 核心對
	// 不足額的無條件檢查）或轉帳被拒。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrInsufficient = errors.New("insufficient balance")

	// ErrFrozen 代表帳戶帶有凍結旗標，存提款一律拒絕。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrFrozen = errors.New("account frozen")

	// ErrSameAccount 代表轉帳來源與目標帳戶相同。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrSameAccount = errors.New("from and to are same")

	// ErrBadRole 代表登錄相關人時給了未知角色。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrBadRole = errors.New("unknown party role")

	// ErrUnknownOwner 代表開戶時參照了不存在的相關人。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrUnknownOwner = errors.New("owner not registered")
)
