// internal/spinlock/spinlock.go

// Package spinlock 提供帳戶狀態保護所需的互斥原語。
// 核心為二元互斥權杖 (SpinLock)：以 atomic CAS 將權杖自「空閒」轉為「持有」，
// 取鎖失敗時在迴圈中讓出排程器 (runtime.Gosched) 後重試，直到成功為止。
//
// 設計上的取捨（刻意保留的簡化）：
//   - 無公平性、無逾時、無優先權繼承；重度競爭下可能活鎖 (livelock)，不偵測也不回報。
//   - 不追蹤持有者；鎖不可重入，持鎖中再次 Lock 會自旋到永遠。
//   - Unlock 無條件釋放，僅允許目前持有者呼叫；責任由上層的 Cell 封裝承擔，
//     一般程式碼不應直接操作 SpinLock。
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// 權杖的兩種狀態。
const (
	unlocked int32 = 0
	locked   int32 = 1
)

// SpinLock 為二元互斥權杖；零值即為未上鎖狀態，可直接使用。
// 不可複製（內含狀態字），應以指標或內嵌於結構中使用。
type SpinLock struct {
	state int32
}

// TryLock 嘗試一次 CAS 取鎖：權杖自空閒轉為持有時回傳 true。
// 不自旋、不等待；失敗時由呼叫端決定是否重試。
func (l *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapInt32(&l.state, unlocked, locked)
}

// Lock 以忙等 (busy-wait) 方式取鎖：每次 CAS 失敗後讓出排程器再重試。
// 重試次數沒有上限。
func (l *SpinLock) Lock() {
	for !l.TryLock() {
		runtime.Gosched()
	}
}

// Unlock 無條件將權杖設回空閒。
// 僅限目前持有者呼叫；未持鎖而呼叫會破壞互斥不變量。
func (l *SpinLock) Unlock() {
	atomic.StoreInt32(&l.state, unlocked)
}
