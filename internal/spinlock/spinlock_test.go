// internal/spinlock/spinlock_test.go
//
// 本檔驗證自旋鎖的基本契約：
//  1. TryLock 僅在權杖自空閒轉為持有時回傳 true。
//  2. Unlock 後權杖可再次取得。
//  3. Lock/Unlock 在高併發下提供真正的互斥（無遺失更新）。
package spinlock

import (
	"sync"
	"testing"
)

// TestTryLockTransition 驗證 CAS 轉移語意：
// 只有執行「空閒 → 持有」那一次呼叫拿到 true。
func TestTryLockTransition(t *testing.T) {
	var l SpinLock

	if !l.TryLock() {
		t.Fatal("first TryLock should succeed on a fresh lock")
	}
	if l.TryLock() {
		t.Fatal("second TryLock should fail while held")
	}

	l.Unlock()
	if !l.TryLock() {
		t.Fatal("TryLock should succeed again after Unlock")
	}
	l.Unlock()
}

// TestLockMutualExclusion 驗證互斥性：
// 多條 goroutine 在鎖內累加同一計數器，總數必須分毫不差。
func TestLockMutualExclusion(t *testing.T) {
	const workers = 32
	const rounds = 500

	var l SpinLock
	var counter int

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != workers*rounds {
		t.Fatalf("counter=%d want=%d (lost updates)", counter, workers*rounds)
	}
}
