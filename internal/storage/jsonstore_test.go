// internal/storage/jsonstore_test.go
//
// 測試目標：驗證 JSON 快照 (Snapshot) 的序列化與反序列化是否正確。
// 這屬於 storage 層的「資料持久化一致性測試 (persistence integrity test)」，
// 確保資料在寫入與讀取之間沒有遺失或格式錯誤。
//
// 測試重點：
//  1. SaveSnapshot() 能正確建立 JSON 檔案（原子寫入後不留 .tmp 殘檔）。
//  2. LoadSnapshot() 能完整讀回資料，Meta、帳戶與相關人內容一致。
//  3. 使用 t.TempDir() 確保測試不汙染本機環境。
package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// TestJSONSnapshotRoundTrip 驗證 JSON 快照的 round-trip 過程：
// 將 Snapshot 結構序列化成 JSON 檔案，再讀回並比對欄位。
func TestJSONSnapshotRoundTrip(t *testing.T) {
	// 建立暫存目錄（每次測試獨立，執行結束自動清除）
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	orig := Snapshot{
		Meta:        Meta{Storage: "json_snapshot", Version: 1, Note: "test"},
		Routing:     "021000021",
		NextAccount: 3,
		NextParty:   2,
		Accounts: []PersistAccount{
			{RoutingNumber: "021000021", AccountNumber: "00000001", Balance: 100.5, Flags: []string{"overdrawn"}, Owners: []string{"p-1"}},
			{RoutingNumber: "021000021", AccountNumber: "00000002", Balance: 200},
		},
		Parties: []PersistParty{
			{ID: "p-1", Role: "holder", Name: "Alice", Email: "alice@example.com"},
		},
	}

	// 寫入 JSON 檔案
	if err := SaveSnapshot(path, orig); err != nil {
		t.Fatalf("SaveSnapshot err=%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	// 原子寫入不應留下暫存檔
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}

	// 從 JSON 檔案重新載入
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot err=%v", err)
	}

	// 驗證主要欄位一致性
	if loaded.Routing != orig.Routing || loaded.NextAccount != orig.NextAccount || loaded.NextParty != orig.NextParty {
		t.Fatalf("header mismatch: loaded=%+v", loaded)
	}
	if len(loaded.Accounts) != 2 || len(loaded.Parties) != 1 {
		t.Fatalf("counts mismatch: %d accounts %d parties", len(loaded.Accounts), len(loaded.Parties))
	}
	a1 := loaded.Accounts[0]
	if a1.AccountNumber != "00000001" || a1.Balance != 100.5 {
		t.Fatalf("account mismatch: %+v", a1)
	}
	if len(a1.Flags) != 1 || a1.Flags[0] != "overdrawn" {
		t.Fatalf("flags mismatch: %v", a1.Flags)
	}
	if len(a1.Owners) != 1 || a1.Owners[0] != "p-1" {
		t.Fatalf("owners mismatch: %v", a1.Owners)
	}
	if loaded.Parties[0].Name != "Alice" || loaded.Parties[0].Role != "holder" {
		t.Fatalf("party mismatch: %+v", loaded.Parties[0])
	}
	// Meta 由 SaveSnapshot 補上時間戳
	if loaded.Meta.Storage != "json_snapshot" || loaded.Meta.Timestamp.IsZero() {
		t.Fatalf("meta mismatch: %+v", loaded.Meta)
	}
}

// TestLoadSnapshotMissingFile 驗證檔案不存在時回傳錯誤（啟動時以空目錄繼續）。
func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expect error for missing file")
	}
}
