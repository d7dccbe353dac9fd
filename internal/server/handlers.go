package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

// simulateResponse decorates a result with the persistence failure that
// accompanies it outside transaction mode.
type simulateResponse struct {
	*domain.SimulationResult
	PersistenceError string `json:"persistence_error,omitempty"`
}

type roundFailure struct {
	MatchID string `json:"match_id"`
	Error   string `json:"error"`
}

type roundResponse struct {
	Day       int                        `json:"day"`
	Simulated int                        `json:"simulated"`
	Skipped   []string                   `json:"skipped,omitempty"`
	Failed    []roundFailure             `json:"failed,omitempty"`
	Results   []*domain.SimulationResult `json:"results"`
}

func optionsFromQuery(r *http.Request) sim.Options {
	return sim.Options{
		UseCache:        queryBool(r, "cache", true),
		Detailed:        queryBool(r, "detailed", false),
		BroadcastEvents: queryBool(r, "broadcast", false),
		TransactionMode: queryBool(r, "tx", false),
	}
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	opts := optionsFromQuery(r)

	res, err := s.engine.Run(r.Context(), matchID, opts)

	var verr *sim.ValidationError
	var perr *sim.PersistenceError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, simulateResponse{SimulationResult: res})

	case errors.Is(err, sim.ErrMatchNotFound), errors.Is(err, sim.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "simulation produced an invalid result",
			"match_id":   verr.MatchID,
			"violations": verr.Violations,
		})

	case errors.As(err, &perr):
		if res == nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		// The result stands; the caller decides whether to retry the write.
		writeJSON(w, http.StatusOK, simulateResponse{
			SimulationResult: res,
			PersistenceError: err.Error(),
		})

	default:
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("simulation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleSimulateRound(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be an integer")
		return
	}
	opts := optionsFromQuery(r)

	report, err := s.engine.RunRound(r.Context(), day, opts)
	if err != nil {
		s.logger.Error().Err(err).Int("day", day).Msg("round simulation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := roundResponse{
		Day:       report.Day,
		Simulated: len(report.Results),
		Skipped:   report.Skipped,
		Results:   report.Results,
	}
	for _, f := range report.Failed {
		resp.Failed = append(resp.Failed, roundFailure{MatchID: f.MatchID, Error: f.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLive(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	state, ok := s.live.Get(matchID)
	if !ok {
		writeError(w, http.StatusNotFound, "no live state for match "+matchID)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSyncLive(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	state, err := s.live.Sync(r.Context(), matchID)
	if errors.Is(err, sim.ErrMatchNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("live sync failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUpdateLive(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")

	var update cache.LiveStateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update payload: "+err.Error())
		return
	}

	state, ok := s.live.Update(matchID, update)
	if !ok {
		writeError(w, http.StatusNotFound, "no live state for match "+matchID+"; sync it first")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleClearLive(w http.ResponseWriter, r *http.Request) {
	s.live.Clear(chi.URLParam(r, "matchID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLive(w http.ResponseWriter, r *http.Request) {
	states := s.live.ListActive()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(states),
		"matches": states,
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.results.Stats())
}

func (s *Server) handleCacheClearAll(w http.ResponseWriter, r *http.Request) {
	s.results.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.results.Clear(chi.URLParam(r, "matchID"))
	w.WriteHeader(http.StatusNoContent)
}
