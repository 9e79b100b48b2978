// cmd/bankctl/demo.go
//
// demo 子命令：在行程內跑一輪核心行為演示。
// 流程：
//  1. 登錄相關人、開兩個帳戶，啟動多個 goroutine 互相轉帳，驗證總額守恆。
//  2. 以小額帳戶演示透支旗標（冪等）、清旗標、利息試算與凍結拒絕。
package main

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"bankcore/internal/bank"
	"bankcore/internal/identity"
)

func newDemoCmd() *cobra.Command {
	var (
		workers int
		rounds  int
		routing string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an in-process concurrency demonstration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(workers, rounds, routing)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 8, "number of concurrent transfer goroutines per direction")
	cmd.Flags().IntVar(&rounds, "rounds", 50, "transfers per goroutine")
	cmd.Flags().StringVar(&routing, "routing", "121000358", "routing number for the demo bank")
	return cmd
}

func runDemo(workers, rounds int, routing string) error {
	b := bank.NewBank(routing)

	alice, err := b.RegisterParty(identity.RoleHolder, identity.Individual{Name: "Alice"})
	if err != nil {
		return err
	}
	bob, err := b.RegisterParty(identity.RoleHolder, identity.Individual{Name: "Bob"})
	if err != nil {
		return err
	}

	a1, err := b.Open(1000, alice.ID)
	if err != nil {
		return err
	}
	a2, err := b.Open(1000, bob.ID)
	if err != nil {
		return err
	}
	log.Info("accounts opened", "a", a1.AccountNumber, "b", a2.AccountNumber, "each", 1000.0)

	// ── 併發轉帳 ──
	// 兩個方向各 workers 條 goroutine，每條做 rounds 次 1 元轉帳。
	// 個別轉帳可能因瞬間餘額不足而被拒（回報為 failed），
	// 但無論成敗，兩帳戶總額必須守恆。
	var wg sync.WaitGroup
	var failed int64
	var mu sync.Mutex
	run := func(from, to string) {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := b.Transfer(from, to, 1); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}
	}
	wg.Add(2 * workers)
	for i := 0; i < workers; i++ {
		go run(a1.AccountNumber, a2.AccountNumber)
		go run(a2.AccountNumber, a1.AccountNumber)
	}
	wg.Wait()

	total := a1.Balance() + a2.Balance()
	log.Info("concurrent transfers done",
		"transfers", 2*workers*rounds, "failed", failed,
		"a", a1.Balance(), "b", a2.Balance(), "total", total)
	if total != 2000 {
		log.Error("conservation violated", "total", total)
	}

	// ── 透支、旗標與利息 ──
	carol, err := b.RegisterParty(identity.RoleHolder, identity.Individual{Name: "Carol"})
	if err != nil {
		return err
	}
	small, err := b.Open(100, carol.ID)
	if err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		// 重複透支只會留下一枚 overdrawn 旗標
		_ = b.Withdraw(small.AccountNumber, 1000)
	}
	log.Info("overdraw attempted", "balance", small.Balance(), "flags", small.Flags())

	_ = b.ClearFlags(small.AccountNumber)
	interest, _ := b.Interest(small.AccountNumber, 0.05)
	log.Info("flags cleared", "flags", small.Flags(), "interest@5%", interest)

	_ = b.Freeze(small.AccountNumber)
	if err := b.Deposit(small.AccountNumber, 5); err != nil {
		log.Info("deposit on frozen account rejected", "err", err)
	}
	log.Info("demo finished", "balance", small.Balance())
	return nil
}
