// internal/account/balance.go
//
// 餘額變更的唯一入口 (mutate) 與其上的存提款政策層。
// 商業層級的失敗（凍結、餘額不足）以結果值回報，不以 error 或 panic 表達。
package account

// Op 標示餘額變更方向。
type Op int

const (
	// OpIncrease 增加餘額。
	OpIncrease Op = iota
	// OpDecrease 減少餘額。
	OpDecrease
)

// Outcome 為餘額變更的結果值。
type Outcome int

const (
	// OutcomeSuccess 變更已套用。
	OutcomeSuccess Outcome = iota
	// OutcomeInsufficientFunds 餘額低於變更金額，變更未套用。
	OutcomeInsufficientFunds
)

// mutate 為餘額唯一的變更點：所有餘額變化都經由此處、在帳戶鎖內序列化完成。
//
// 注意：不足額檢查 (balance < amount) 在分辨 Increase/Decrease「之前」無條件執行，
// 因此金額大於目前餘額的 Increase 也會被判為 OutcomeInsufficientFunds。
// 這幾乎可以確定不是存款路徑想要的語意，但沿襲自既有系統的觀察行為，
// 在此如實保留，並由 TestMutateGuardAppliesToIncrease 釘住，不得靜默修正。
func (a *Account) mutate(op Op, amount float64) Outcome {
	out := OutcomeSuccess
	a.cell.Do(func(s *state) {
		if s.balance < amount {
			out = OutcomeInsufficientFunds
			return
		}
		switch op {
		case OpDecrease:
			s.balance -= amount
		default:
			s.balance += amount
		}
	})
	return out
}

// Deposit 存款。凍結帳戶直接拒絕（免鎖檢查，容忍過期旗標）；
// 否則委派 mutate 以 OpIncrease 執行，結果為 OutcomeSuccess 時回傳 true。
func (a *Account) Deposit(amount float64) bool {
	if a.IsFrozen() {
		return false
	}
	return a.mutate(OpIncrease, amount) == OutcomeSuccess
}

// Withdraw 提款。凍結帳戶直接拒絕；委派 mutate 以 OpDecrease 執行。
// 餘額不足時為帳戶補上 Overdrawn 旗標（另行取鎖，冪等）後回傳 false。
func (a *Account) Withdraw(amount float64) bool {
	if a.IsFrozen() {
		return false
	}
	switch a.mutate(OpDecrease, amount) {
	case OutcomeSuccess:
		return true
	case OutcomeInsufficientFunds:
		a.AddFlag(FlagOverdrawn)
	}
	return false
}
