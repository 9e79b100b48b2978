// cmd/bankctl/main.go

// bankctl 為帳戶核心的命令列示範工具：
// 不連任何伺服器，直接在行程內建立帳戶目錄並演示
// 併發轉帳、透支旗標、凍結與利息試算等核心行為。
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// 由連結器注入的版本資訊。
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// newRootCmd 建立根命令並掛上子命令。
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bankctl",
		Short: "Concurrent bank-account core demo tool",
		Long: "bankctl 在行程內操作帳戶核心（每帳戶一把自旋鎖），\n" +
			"用來演示併發存提款、跨帳戶轉帳與狀態旗標的行為。",
		SilenceUsage: true,
	}
	cmd.AddCommand(newDemoCmd(), newVersionCmd())
	return cmd
}

// newVersionCmd 輸出版本資訊。
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print bankctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("bankctl", version)
		},
	}
}
