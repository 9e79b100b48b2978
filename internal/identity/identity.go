// internal/identity/identity.go
//
// Package identity 定義帳戶相關人 (party) 的資料模型。
// 這一層是純資料：不含任何行為，也不參與帳戶核心的同步邏輯；
// 帳戶只保存 PartyID（非擁有式參照），生命週期由外部的 Registry 管理。
//
// 歷史上持有人、管理員、經理與觀察者是四個結構完全相同的型別，
// 此處收斂為單一 Party 結構，以 Role 標籤區分身分。
package identity

// Individual 為基本個人資料。
type Individual struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Role 標示 party 與帳戶的關係。
type Role string

// 支援的角色標籤。
const (
	RoleHolder        Role = "holder"
	RoleAdministrator Role = "administrator"
	RoleManager       Role = "manager"
	RoleObserver      Role = "observer"
)

// Valid 回報 r 是否為已知角色。
func (r Role) Valid() bool {
	switch r {
	case RoleHolder, RoleAdministrator, RoleManager, RoleObserver:
		return true
	}
	return false
}

// PartyID 為 Registry 發出的識別碼；帳戶以此參照相關人，不持有其資料。
type PartyID string

// Party represents an individual acting in a given role.
type Party struct {
	ID         PartyID    `json:"id"`
	Role       Role       `json:"role"`
	Individual Individual `json:"individual"`
}
