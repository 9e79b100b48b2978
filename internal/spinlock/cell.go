// internal/spinlock/cell.go
//
// Cell 是泛型「受護儲存格 (guarded cell)」：資料只能透過範圍式臨界區 (Do) 變更，
// 釋放動作由 defer 保證在所有離開路徑（含提前 return 與 panic）執行，
// 從結構上排除「忘記解鎖」與「鎖被永久洩漏」兩類錯誤。
//
// 另提供免鎖讀取路徑 Peek：回傳「上一次釋放鎖時」以 atomic 指標發布的狀態快照。
// 讀取端因此可能看到略為過期的值——這是刻意的一致性/效能取捨，
// 用於凍結檢查與利息試算這類快路徑；快照本身不可變，所以免鎖讀取不構成資料競爭。
package spinlock

import "sync/atomic"

// Cell 將一份型別 T 的資料與其自旋鎖綁定。
// 變更一律經過 Do；讀取可走 Peek（過期容忍）或同樣經過 Do（強一致）。
type Cell[T any] struct {
	mu   SpinLock
	data T
	snap atomic.Pointer[T]
}

// NewCell 以初始值建立儲存格，並發布第一份快照。
func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{data: v}
	c.publish()
	return c
}

// publish 複製當前資料並以 atomic 指標換出，供 Peek 免鎖讀取。
// 僅能在持鎖中呼叫。
func (c *Cell[T]) publish() {
	v := c.data
	c.snap.Store(&v)
}

// Do 取得互斥權後執行 f，f 透過指標就地修改資料。
// 無論 f 正常結束、提前返回或 panic，快照發布與解鎖都會執行。
// f 內不得再對同一儲存格呼叫 Do（鎖不可重入）。
// 若 T 內含 slice 等參考型別，f 應以「整個替換」而非就地改寫元素的方式變更，
// 維持已發布快照的不可變性（copy-on-write）。
func (c *Cell[T]) Do(f func(*T)) {
	c.mu.Lock()
	defer func() {
		c.publish()
		c.mu.Unlock()
	}()
	f(&c.data)
}

// Peek 免鎖回傳最後一次發布的狀態快照。
// 快照為值拷貝；呼叫端拿到的是過去某個一致時點的狀態，可能落後於當前值。
func (c *Cell[T]) Peek() T {
	return *c.snap.Load()
}
