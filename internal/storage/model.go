// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// 該層的責任是提供帳戶目錄的資料序列化格式（目前為 JSON），
// 並保存必要的中繼資訊 (Meta)，以便版本控制與未來可擴充為資料庫後端。
//
// ───────────────────────────────
// 設計理念：
// - **關注分離**：此層僅定義資料結構，不涉入商業邏輯，也不碰任何鎖。
// - **可演進性**：Meta 保留版本與時間戳，可支援多種儲存實作（JSON / DB）。
// - **可追溯性**：所有快照具備建立時間與註解，便於除錯或人工檢視。
// ───────────────────────────────
package storage

import "time"

// Meta 為所有持久化快照的中繼資料 (metadata)。
// 用於記錄儲存方式、版本、建立時間與說明。
// 可協助後續進行格式升級、除錯或追蹤快照來源。
type Meta struct {
	Storage   string    `json:"storage"`        // 儲存類型，例如 "json_snapshot"
	Version   int       `json:"version"`        // 結構版本號，用於未來升級時比對
	Timestamp time.Time `json:"timestamp"`      // 快照建立時間
	Note      string    `json:"note,omitempty"` // 備註欄，可選，用於人工說明
}

// PersistAccount 為帳戶在儲存層的序列化格式。
// 不含鎖或方法，僅保存資料狀態；旗標與相關人參照攤平成字串，
// 確保可安全序列化至 JSON 或資料庫。
type PersistAccount struct {
	RoutingNumber string   `json:"routing_number"`
	AccountNumber string   `json:"account_number"`
	Balance       float64  `json:"balance"`
	Flags         []string `json:"flags,omitempty"`
	Owners        []string `json:"owners,omitempty"`
}

// PersistParty 為相關人在儲存層的序列化格式。
type PersistParty struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Snapshot 為帳戶目錄的完整快照。
// 包含路由碼、帳號與相關人的發號水位、所有帳戶與相關人資料。
// 注意：快照中的每個帳戶各自取自該帳戶的一致時點；
// 匯出期間若仍有交易進行，快照不代表全行的單一瞬間。
type Snapshot struct {
	Meta        Meta             `json:"_meta"`
	Routing     string           `json:"routing"`
	NextAccount int64            `json:"next_account"`
	NextParty   int64            `json:"next_party"`
	Accounts    []PersistAccount `json:"accounts"`
	Parties     []PersistParty   `json:"parties,omitempty"`
}
