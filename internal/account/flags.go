// internal/account/flags.go
//
// 旗標集合的互斥變更。兩個操作都在各自的臨界區內完成，
// 解鎖由 Cell 的 defer 保證在所有離開路徑執行。
package account

// AddFlag 在旗標不存在時附加之；已存在則不做事（冪等）。
// 附加時整個替換 slice（copy-on-write），讓已發布的快照維持不可變。
func (a *Account) AddFlag(f Flag) {
	a.cell.Do(func(s *state) {
		for _, g := range s.flags {
			if g == f {
				return
			}
		}
		next := make([]Flag, len(s.flags), len(s.flags)+1)
		copy(next, s.flags)
		s.flags = append(next, f)
	})
}

// ClearFlags 以空集合取代整個旗標集合。
func (a *Account) ClearFlags() {
	a.cell.Do(func(s *state) {
		s.flags = nil
	})
}
