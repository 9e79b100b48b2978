// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 bank / account 模組的應用層 (Application Layer)。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求
//  2. 呼叫 bank 聚合層執行商業邏輯
//  3. 回傳標準化 JSON 回應
//  4. 成功變更狀態後呼叫 s.persist()，將當前目錄狀態寫入 JSON 快照
//
// 此設計使邏輯分層清晰：
//   - account：併發核心（每帳戶一把鎖），與 HTTP 無關。
//   - bank：聚合層，負責目錄維護與錯誤語意。
//   - server：處理傳輸層（Transport Layer）。
//   - storage：負責持久化。
//
// 整體遵循「依賴反轉」原則（核心不依賴 HTTP，Server 依賴核心）。
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bankcore/internal/account"
	"bankcore/internal/bank"
	"bankcore/internal/identity"
)

// Server 為 HTTP 層核心結構：
// - Bank：注入聚合層（帳戶目錄）。
// - persist：注入持久化鉤子，讓 server 不需關心儲存實作細節（可替換為 DB）。
type Server struct {
	Bank    *bank.Bank
	persist func() error
}

// NewServer 建立新的 HTTP 伺服器。
// persist 可為 nil；若提供則會於每次成功變更後觸發。
func NewServer(b *bank.Bank, persist func() error) *Server {
	return &Server{Bank: b, persist: persist}
}

// accountView 為帳戶的對外序列化格式。
// 帳戶本體的可變欄位收在鎖後面，無法直接 JSON 化；
// 這裡取一次快照讀值攤平成純資料（餘額與旗標可能彼此差一個極短的時間窗）。
type accountView struct {
	RoutingNumber string   `json:"routing_number"`
	AccountNumber string   `json:"account_number"`
	Balance       float64  `json:"balance"`
	Flags         []string `json:"flags"`
	Owners        []string `json:"owners,omitempty"`
}

// render 將帳戶攤平成 accountView。
func render(a *account.Account) accountView {
	v := accountView{
		RoutingNumber: a.RoutingNumber,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance(),
		Flags:         []string{},
	}
	for _, f := range a.Flags() {
		v.Flags = append(v.Flags, string(f))
	}
	for _, id := range a.Owners {
		v.Owners = append(v.Owners, string(id))
	}
	return v
}

// errCode 將領域錯誤映射為 HTTP 狀態碼。
func errCode(err error) int {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInsufficient), errors.Is(err, bank.ErrFrozen):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// accounts 處理：
//   - POST /accounts  → 開戶（初始餘額 + 相關人參照）
//   - GET  /accounts  → 列出所有帳戶
func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Balance float64  `json:"balance"`
			Owners  []string `json:"owners"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		owners := make([]identity.PartyID, 0, len(req.Owners))
		for _, id := range req.Owners {
			owners = append(owners, identity.PartyID(id))
		}
		a, err := s.Bank.Open(req.Balance, owners...)
		if err != nil {
			writeErr(w, err, errCode(err))
			return
		}
		writeJSON(w, http.StatusCreated, render(a))

		// 持久化快照（盡力而為）
		if s.persist != nil {
			_ = s.persist()
		}

	case http.MethodGet:
		out := make([]accountView, 0)
		for _, a := range s.Bank.List() {
			out = append(out, render(a))
		}
		writeJSON(w, http.StatusOK, out)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// amountRequest 為存提款共用的請求本體。
type amountRequest struct {
	Amount float64 `json:"amount"`
}

// accountSubroutes 處理子路徑：
//
//	GET    /accounts/{number}           → 查詢帳戶
//	POST   /accounts/{number}/deposit   → 存款
//	POST   /accounts/{number}/withdraw  → 提款
//	POST   /accounts/{number}/freeze    → 凍結（補上 freeze 旗標，冪等）
//	GET    /accounts/{number}/flags     → 查詢旗標集合
//	DELETE /accounts/{number}/flags     → 清空旗標集合
//	GET    /accounts/{number}/interest  → 利息試算（?rate=0.05）
func (s *Server) accountSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/accounts/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	number := parts[0]

	// GET /accounts/{number}
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a, err := s.Bank.Get(number)
		if err != nil {
			writeErr(w, err, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, render(a))
		return
	}

	switch parts[1] {
	case "deposit": // POST /accounts/{number}/deposit
		s.mutateBalance(w, r, number, s.Bank.Deposit)

	case "withdraw": // POST /accounts/{number}/withdraw
		s.mutateBalance(w, r, number, s.Bank.Withdraw)

	case "freeze": // POST /accounts/{number}/freeze
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.Bank.Freeze(number); err != nil {
			writeErr(w, err, errCode(err))
			return
		}
		s.respondAccount(w, number)

	case "flags":
		switch r.Method {
		case http.MethodGet: // GET /accounts/{number}/flags
			a, err := s.Bank.Get(number)
			if err != nil {
				writeErr(w, err, http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, render(a).Flags)
		case http.MethodDelete: // DELETE /accounts/{number}/flags
			if err := s.Bank.ClearFlags(number); err != nil {
				writeErr(w, err, errCode(err))
				return
			}
			s.respondAccount(w, number)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	case "interest": // GET /accounts/{number}/interest?rate=0.05
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rate, err := strconv.ParseFloat(r.URL.Query().Get("rate"), 64)
		if err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		v, err := s.Bank.Interest(number, rate)
		if err != nil {
			writeErr(w, err, errCode(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"interest": v})

	default:
		http.NotFound(w, r)
	}
}

// mutateBalance 為存提款共用的處理流程：解析金額 → 委派聚合層 → 回傳最新狀態。
// 成功變更後觸發持久化鉤子。
func (s *Server) mutateBalance(w http.ResponseWriter, r *http.Request, number string, op func(string, float64) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := op(number, req.Amount); err != nil {
		writeErr(w, err, errCode(err))
		return
	}
	s.respondAccount(w, number)
}

// respondAccount 回傳帳戶最新快照並觸發持久化。
func (s *Server) respondAccount(w http.ResponseWriter, number string) {
	a, err := s.Bank.Get(number)
	if err != nil {
		writeErr(w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, render(a))
	if s.persist != nil {
		_ = s.persist()
	}
}

// parties 處理：
//   - POST /parties  → 登錄相關人（角色 + 個人資料）
//   - GET  /parties  → 列出相關人
func (s *Server) parties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Role  string `json:"role"`
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		p, err := s.Bank.RegisterParty(identity.Role(req.Role), identity.Individual{Name: req.Name, Email: req.Email})
		if err != nil {
			writeErr(w, err, errCode(err))
			return
		}
		writeJSON(w, http.StatusCreated, p)
		if s.persist != nil {
			_ = s.persist()
		}
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.Bank.Parties())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// transfer 處理轉帳：
//
//	POST /transfer  → JSON {from, to, amount}
//
// 委派聚合層執行；成功後同時回傳兩帳戶最新餘額。
// 回應中的兩個餘額各自取自該帳戶的快照，不構成跨帳戶的一致讀取。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.Transfer(req.From, req.To, req.Amount); err != nil {
		writeErr(w, err, errCode(err))
		return
	}

	fromAcc, _ := s.Bank.Get(req.From)
	toAcc, _ := s.Bank.Get(req.To)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "transfer success",
		"from":    render(fromAcc),
		"to":      render(toAcc),
	})
	if s.persist != nil {
		_ = s.persist()
	}
}

// health 提供健康檢查端點：GET /health。
// 可供監控系統或 Docker liveness probe 使用。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
