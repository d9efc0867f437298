package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boardbank/boardbank/internal/auth"
	"github.com/boardbank/boardbank/internal/service"
	"github.com/boardbank/boardbank/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "boardbank-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewJWTManager("test-secret", time.Hour)
	rooms := service.NewRoomService(store, tokens)
	ledger := service.NewLedgerService(store)

	srv := httptest.NewServer(New(rooms, ledger, tokens).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a JSON request and decodes the JSON response body into a map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints that respond with a JSON array.
func doJSONList(t *testing.T, srv *httptest.Server, method, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// createRoom creates a room with the given admin and seat count, returning
// the code and the admin token.
func createRoom(t *testing.T, srv *httptest.Server, admin string, count int) (string, string) {
	t.Helper()

	status, body := doJSON(t, srv, "POST", "/api/create-room", "", map[string]any{
		"admin_name":   admin,
		"player_count": count,
	})
	if status != http.StatusOK {
		t.Fatalf("create-room status = %d, body = %v", status, body)
	}
	return body["room_code"].(string), body["token"].(string)
}

func balancesByName(t *testing.T, srv *httptest.Server, code string) map[string]float64 {
	t.Helper()

	status, players := doJSONList(t, srv, "GET", "/api/room/"+code+"/players", "")
	if status != http.StatusOK {
		t.Fatalf("players status = %d", status)
	}
	out := map[string]float64{}
	for _, p := range players {
		out[p["name"].(string)] = p["balance"].(float64)
	}
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, "GET", "/healthz", "", nil)
	if status != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", status, body)
	}
}

func TestCreateAndJoin(t *testing.T) {
	srv := newTestServer(t)

	code, token := createRoom(t, srv, "Alice", 2)
	if len(code) != 6 {
		t.Errorf("room code %q should be 6 characters", code)
	}
	if token == "" {
		t.Error("Expected an admin token")
	}

	t.Run("join with padded code", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
			"player_name": "Bob",
			"room_code":   " " + code + " ",
		})
		if status != http.StatusOK {
			t.Fatalf("join status = %d, body = %v", status, body)
		}
		if body["room_code"] != code {
			t.Errorf("room_code = %v, want %s", body["room_code"], code)
		}
		player := body["player"].(map[string]any)
		if player["slot"].(float64) != 1 {
			t.Errorf("slot = %v, want 1", player["slot"])
		}
	})

	t.Run("join unknown room is 404", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
			"player_name": "Carol",
			"room_code":   "ZZZZZZ",
		})
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})

	t.Run("duplicate name is 400", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
			"player_name": "Bob",
			"room_code":   code,
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("get unknown room is 404", func(t *testing.T) {
		status, _ := doJSON(t, srv, "GET", "/api/room/ZZZZZZ", "", nil)
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}

func TestAdminAuth(t *testing.T) {
	srv := newTestServer(t)
	code, adminToken := createRoom(t, srv, "Alice", 2)

	status, body := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
		"player_name": "Bob",
		"room_code":   code,
	})
	if status != http.StatusOK {
		t.Fatalf("join failed: %v", body)
	}
	playerToken := body["token"].(string)

	initReq := map[string]any{"admin_name": "Alice", "player_count": 2}

	t.Run("init without token is 401", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/admin/init", "", initReq)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})

	t.Run("init with player token is 403", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/admin/init", playerToken, initReq)
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("init with admin token re-seeds the room", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/admin/init", adminToken, initReq)
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		room := body["room"].(map[string]any)
		players := room["players"].([]any)
		if len(players) != 2 {
			t.Errorf("players = %d, want 2", len(players))
		}
	})

	t.Run("update-bank with a different room's token is 403", func(t *testing.T) {
		_, otherToken := createRoom(t, srv, "Mallory", 2)
		status, _ := doJSON(t, srv, "POST", "/api/room/"+code+"/update-bank", otherToken,
			map[string]any{"cards": []string{"Advance to Go"}})
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})

	t.Run("update-bank with the room's admin token works", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/room/"+code+"/update-bank", adminToken,
			map[string]any{"cards": []string{"Advance to Go"}})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		room := body["room"].(map[string]any)
		cards := room["cards"].([]any)
		if len(cards) != 1 || cards[0] != "Advance to Go" {
			t.Errorf("cards = %v", cards)
		}
	})
}

func TestDebtFlow(t *testing.T) {
	srv := newTestServer(t)
	code, _ := createRoom(t, srv, "Alice", 2)

	if status, body := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
		"player_name": "Bob", "room_code": code,
	}); status != http.StatusOK {
		t.Fatalf("join failed: %v", body)
	}

	status, body := doJSON(t, srv, "POST", "/api/room/"+code+"/add-debt", "", map[string]any{
		"from": "Alice", "to": "Bob", "amount": 100, "note": "rent",
	})
	if status != http.StatusOK {
		t.Fatalf("add-debt status = %d, body = %v", status, body)
	}
	debt := body["debt"].(map[string]any)
	debtID := debt["id"].(string)
	if debts := body["debts"].([]any); len(debts) != 1 {
		t.Errorf("debts = %d, want 1", len(debts))
	}

	// Recording a debt does not move balances.
	balances := balancesByName(t, srv, code)
	if balances["Alice"] != 1500 || balances["Bob"] != 1500 {
		t.Errorf("balances after add = %v, want untouched", balances)
	}

	status, body = doJSON(t, srv, "POST", "/api/room/"+code+"/settle-debt", "", map[string]any{
		"id": debtID,
	})
	if status != http.StatusOK {
		t.Fatalf("settle-debt status = %d, body = %v", status, body)
	}
	if settled := body["debt"].(map[string]any); settled["settled"] != true {
		t.Errorf("debt = %v, want settled", settled)
	}

	balances = balancesByName(t, srv, code)
	if balances["Alice"] != 1400 || balances["Bob"] != 1600 {
		t.Errorf("balances after settle = %v, want Alice 1400 / Bob 1600", balances)
	}

	t.Run("second settle is rejected", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/room/"+code+"/settle-debt", "", map[string]any{
			"id": debtID,
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
		balances := balancesByName(t, srv, code)
		if balances["Alice"] != 1400 {
			t.Errorf("Alice = %v, balances must not move twice", balances["Alice"])
		}
	})

	t.Run("balances summary nets to zero", func(t *testing.T) {
		status, summaries := doJSONList(t, srv, "GET", "/api/room/"+code+"/balances", "")
		if status != http.StatusOK {
			t.Fatalf("balances status = %d", status)
		}
		var net float64
		for _, s := range summaries {
			net += s["net"].(float64)
		}
		if net != 0 {
			t.Errorf("net sum = %v, want 0", net)
		}
	})
}

func TestTransactionsAndBank(t *testing.T) {
	srv := newTestServer(t)
	code, _ := createRoom(t, srv, "Alice", 2)

	if status, body := doJSON(t, srv, "POST", "/api/join-room", "", map[string]any{
		"player_name": "Bob", "room_code": code,
	}); status != http.StatusOK {
		t.Fatalf("join failed: %v", body)
	}

	t.Run("transaction moves money immediately", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/room/"+code+"/transaction", "", map[string]any{
			"from": "Alice", "to": "Bob", "amount": 50, "note": "rent",
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		if txs := body["transactions"].([]any); len(txs) != 1 {
			t.Errorf("transactions = %d, want 1", len(txs))
		}

		balances := balancesByName(t, srv, code)
		if balances["Alice"] != 1450 || balances["Bob"] != 1550 {
			t.Errorf("balances = %v, want Alice 1450 / Bob 1550", balances)
		}
	})

	t.Run("transaction with unknown player is 400", func(t *testing.T) {
		status, _ := doJSON(t, srv, "POST", "/api/room/"+code+"/transaction", "", map[string]any{
			"from": "Ghost", "to": "Bob", "amount": 10,
		})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("bank transfer defaults to paying the player", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/room/"+code+"/bank-transfer", "", map[string]any{
			"player": "Bob", "amount": 200, "note": "passed go",
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		tx := body["transaction"].(map[string]any)
		if tx["from"] != "Bank" || tx["to"] != "Bob" {
			t.Errorf("tx parties = %v/%v, want Bank/Bob", tx["from"], tx["to"])
		}
		room := body["room"].(map[string]any)
		if room["totalMoney"].(float64) != 20380 {
			t.Errorf("totalMoney = %v, want 20380", room["totalMoney"])
		}
	})

	t.Run("bank transfer to the bank", func(t *testing.T) {
		status, body := doJSON(t, srv, "POST", "/api/room/"+code+"/bank-transfer", "", map[string]any{
			"player": "Bob", "amount": 100, "direction": "to_bank", "note": "income tax",
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		room := body["room"].(map[string]any)
		if room["totalMoney"].(float64) != 20480 {
			t.Errorf("totalMoney = %v, want 20480", room["totalMoney"])
		}
	})
}

func TestUpdatePlayerEndpoint(t *testing.T) {
	srv := newTestServer(t)
	code, _ := createRoom(t, srv, "Alice", 2)

	t.Run("rename and set balance", func(t *testing.T) {
		status, body := doJSON(t, srv, "PUT", "/api/room/"+code+"/players/Alice", "", map[string]any{
			"name": "Alicia", "balance": 2000,
		})
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %v", status, body)
		}
		player := body["player"].(map[string]any)
		if player["name"] != "Alicia" || player["balance"].(float64) != 2000 {
			t.Errorf("player = %v", player)
		}
	})

	t.Run("unknown player is 404", func(t *testing.T) {
		status, _ := doJSON(t, srv, "PUT", "/api/room/"+code+"/players/Ghost", "", map[string]any{
			"balance": 100,
		})
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}
