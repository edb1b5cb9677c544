package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ScriptoWhisp/what-where-when-server/internal/game"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// api exposes the host-facing JSON endpoints that sit next to the
// WebSocket gateway: game creation, listing and passcode resolution.
type api struct {
	services *Services
}

type createGameRequest struct {
	Name            string                  `json:"name"`
	Date            time.Time               `json:"date"`
	TimeToThinkSec  int                     `json:"time_to_think_sec"`
	TimeToAnswerSec int                     `json:"time_to_answer_sec"`
	CanAppeal       bool                    `json:"can_appeal"`
	Display         *models.DisplaySettings `json:"display,omitempty"`
}

type listGamesResponse struct {
	Games []models.Game `json:"games"`
	Total int64         `json:"total"`
}

func (a *api) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games", a.handleCreateGame)
	mux.HandleFunc("GET /api/games", a.handleListGames)
	mux.HandleFunc("GET /api/games/{id}", a.handleGetGame)
	mux.HandleFunc("GET /api/games/{id}/leaderboard", a.handleLeaderboard)
	mux.HandleFunc("GET /api/join/{passcode}", a.handleJoinLookup)
}

// hostID authenticates the Authorization bearer token.
func (a *api) hostID(r *http.Request) (int32, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return 0, false
	}
	userID, err := a.services.Auth.UserID(token)
	if err != nil {
		return 0, false
	}
	return userID, true
}

func (a *api) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	hostID, ok := a.hostID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := a.services.Games.CreateGame(r.Context(), game.CreateGameParams{
		HostID:          hostID,
		Name:            req.Name,
		Date:            req.Date,
		TimeToThinkSec:  req.TimeToThinkSec,
		TimeToAnswerSec: req.TimeToAnswerSec,
		CanAppeal:       req.CanAppeal,
		Display:         req.Display,
	})
	if err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidGame):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, game.ErrPasscodesExhausted):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Msg("failed to create game")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *api) handleListGames(w http.ResponseWriter, r *http.Request) {
	hostID, ok := a.hostID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 32)

	games, total, err := a.services.Games.ListHostGames(r.Context(), hostID, int32(limit), int32(offset))
	if err != nil {
		log.Error().Err(err).Msg("failed to list games")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, listGamesResponse{Games: games, Total: total})
}

func (a *api) handleGetGame(w http.ResponseWriter, r *http.Request) {
	hostID, ok := a.hostID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	gameID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	found, err := a.services.Games.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		log.Error().Err(err).Msg("failed to load game")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if found.HostID != hostID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (a *api) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	leaderboard, err := a.services.Engine.Leaderboard(r.Context(), gameID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load leaderboard")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, leaderboard)
}

// handleJoinLookup resolves a team's passcode to its game. No auth:
// this is the entry point for players.
func (a *api) handleJoinLookup(w http.ResponseWriter, r *http.Request) {
	passcode, err := pathID(r, "passcode")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid passcode")
		return
	}

	found, err := a.services.Games.FindGameByPasscode(r.Context(), passcode)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no active game with this passcode")
			return
		}
		log.Error().Err(err).Msg("failed to resolve passcode")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": found.ID,
		"name":    found.Name,
		"status":  found.Status,
	})
}

func pathID(r *http.Request, name string) (int32, error) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 32)
	return int32(value), err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
