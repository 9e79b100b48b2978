// cmd/server/main.go

// 本服務提供開戶、存提款、轉帳、凍結與旗標管理等 RESTful API。
// 此檔案負責初始化模組（bank, server, storage）、讀取組態（viper），
// 並啟動 HTTP 伺服器；同時支援啟動時載入與結束時保存 JSON 快照。
package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"bankcore/internal/bank"
	"bankcore/internal/server"
	"bankcore/internal/storage"
)

// loadConfig 設定組態來源：內建預設值 → 選用的 config.yaml → 環境變數覆寫
// （BANKCORE_LISTEN、BANKCORE_DATA_FILE、BANKCORE_ROUTING_NUMBER）。
func loadConfig() error {
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("data_file", "data.json")
	viper.SetDefault("routing_number", "021000021")

	viper.SetEnvPrefix("bankcore")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		// 沒有組態檔屬正常情況；僅在檔案存在但無法解析時視為錯誤
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func main() {
	if err := loadConfig(); err != nil {
		log.Fatal("invalid config file", "err", err)
	}
	dataFile := viper.GetString("data_file")

	// 初始化帳戶目錄核心
	b := bank.NewBank(viper.GetString("routing_number"))

	// 嘗試從上次的 JSON 快照載入資料，若不存在則以空目錄啟動
	if snap, err := storage.LoadSnapshot(dataFile); err == nil {
		b.Restore(snap)
		log.Info("snapshot restored", "file", dataFile, "accounts", len(snap.Accounts))
	}

	// persist 函式：將當前目錄狀態快照存入 data file
	persist := func() error {
		return storage.SaveSnapshot(dataFile, b.Snapshot())
	}

	// 初始化伺服器並注入 persist 回呼，以便在每次成功變更後自動儲存
	s := server.NewServer(b, persist)

	// 啟動背景 goroutine 監聽 SIGINT/SIGTERM 訊號，安全結束前保存狀態
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		_ = persist()
		os.Exit(0)
	}()

	addr := viper.GetString("listen")
	log.Info("bank server running", "listen", addr, "routing", b.Routing())
	// 啟動 HTTP 伺服器；使用自定義 router 提供所有 API
	log.Fatal("server stopped", "err", http.ListenAndServe(addr, s.Router()))
}
