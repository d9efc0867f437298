package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/boardbank/boardbank/internal/middleware"
	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/service"
	"github.com/boardbank/boardbank/internal/storage"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminName   string `json:"admin_name"`
		PlayerCount int    `json:"player_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, token, err := a.rooms.CreateRoom(r.Context(), req.AdminName, req.PlayerCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room_code": room.Code,
		"token":     token,
		"room":      room,
	})
}

func (a *API) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName string `json:"player_name"`
		RoomCode   string `json:"room_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, token, err := a.rooms.JoinRoom(r.Context(), req.RoomCode, req.PlayerName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Echo the code the way the service normalized it for the token.
	writeJSON(w, http.StatusOK, map[string]any{
		"room_code": strings.ToUpper(strings.TrimSpace(req.RoomCode)),
		"token":     token,
		"player":    player,
	})
}

func (a *API) handleAdminInit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req struct {
		AdminName   string `json:"admin_name"`
		PlayerCount int    `json:"player_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := a.rooms.InitBank(r.Context(), claims.RoomCode, req.AdminName, req.PlayerCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "room": room})
}

func (a *API) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := a.rooms.GetRoom(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (a *API) handleUpdateBank(w http.ResponseWriter, r *http.Request) {
	var req models.InventoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := a.rooms.UpdateInventory(r.Context(), mux.Vars(r)["code"], &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "room": room})
}

func (a *API) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := a.rooms.ListPlayers(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (a *API) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.PlayerUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := a.rooms.UpdatePlayer(r.Context(), vars["code"], vars["name"], &req)
	if err != nil {
		// The player is addressed by path here, so a missing one is 404
		// rather than the ledger handlers' validation 400.
		if errors.Is(err, storage.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "player": player})
}

func (a *API) handleAddDebt(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount int64  `json:"amount"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := a.ledger.AddDebt(r.Context(), code, req.From, req.To, req.Amount, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	debts, err := a.ledger.ListDebts(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "debt": debt, "debts": debts})
}

func (a *API) handleSettleDebt(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req struct {
		ID  string `json:"id"`
		Idx *int   `json:"idx"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debt, err := a.ledger.SettleDebt(r.Context(), code, req.ID, req.Idx)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	room, err := a.rooms.GetRoom(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "debt": debt, "room": room})
}

func (a *API) handleTransaction(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount int64  `json:"amount"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := a.ledger.RecordTransaction(r.Context(), code, req.From, req.To, req.Amount, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	transactions, err := a.ledger.ListTransactions(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transaction":  tx,
		"transactions": transactions,
	})
}

func (a *API) handleBankTransfer(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req struct {
		Player    string `json:"player"`
		Amount    int64  `json:"amount"`
		Direction string `json:"direction"`
		Note      string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Direction == "" {
		req.Direction = service.DirectionFromBank
	}

	tx, err := a.ledger.BankTransfer(r.Context(), code, req.Player, req.Amount, req.Direction, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	room, err := a.rooms.GetRoom(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "transaction": tx, "room": room})
}

func (a *API) handleBalances(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.ledger.Balances(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error body of the shape {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and storage errors to HTTP statuses:
// unknown room is 404, bad input (including unknown players named in a
// request body) is 400, anything else is a 500 with the detail kept out
// of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrPlayerNotFound),
		errors.Is(err, storage.ErrDebtNotFound),
		errors.Is(err, storage.ErrDebtSettled),
		errors.Is(err, storage.ErrNameTaken),
		errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
