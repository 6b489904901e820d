package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/cbodonnell/afterglow/pkg/api/middleware"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
)

// MaxTopScoresLimit caps the number of scores a single request can ask for.
const MaxTopScoresLimit = 100

var playerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// SubmitScoreRequestBody is the request body for the submit score endpoint
type SubmitScoreRequestBody struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Rounds     int    `json:"rounds"`
	Seed       int64  `json:"seed"`
	DurationMs int64  `json:"duration_ms"`
	Mode       string `json:"mode"`
	// Replay is the encoded replay file, if the client recorded one.
	Replay []byte `json:"replay,omitempty"`
}

// HandleSubmitScore handles requests to submit a finished game's score
func HandleSubmitScore(repository repositories.Repository, emitter events.Emitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserFromContext(r.Context()); !ok {
			log.Error("failed to get user from context")
			http.Error(w, "Failed to get user from context", http.StatusInternalServerError)
			return
		}

		body := &SubmitScoreRequestBody{}
		if err := json.NewDecoder(r.Body).Decode(body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if len(body.PlayerName) < 1 || len(body.PlayerName) > 16 {
			http.Error(w, "Player name must be between 1 and 16 characters", http.StatusBadRequest)
			return
		}
		if !playerNameRegex.MatchString(body.PlayerName) {
			http.Error(w, "Player name cannot contain special characters", http.StatusBadRequest)
			return
		}
		if body.Score < 0 || body.Rounds < body.Score {
			http.Error(w, "Invalid score", http.StatusBadRequest)
			return
		}
		if body.Mode == "" {
			body.Mode = models.ModeClassic
		}
		if body.Mode != models.ModeClassic && body.Mode != models.ModeDaily {
			http.Error(w, "Invalid mode", http.StatusBadRequest)
			return
		}

		if len(body.Replay) > 0 {
			game, err := replay.Unmarshal(body.Replay)
			if err != nil {
				http.Error(w, "Invalid replay data", http.StatusBadRequest)
				return
			}
			if game.Seed != body.Seed {
				http.Error(w, "Replay does not match score", http.StatusBadRequest)
				return
			}
		}

		score := &models.Score{
			ID:         uuid.New().String(),
			PlayerName: body.PlayerName,
			Score:      body.Score,
			Rounds:     body.Rounds,
			Seed:       body.Seed,
			DurationMs: body.DurationMs,
			Mode:       body.Mode,
			CreatedAt:  time.Now().UTC(),
		}

		if err := repository.SaveScore(r.Context(), score); err != nil {
			log.Error("failed to save score: %v", err)
			http.Error(w, "Failed to save score", http.StatusInternalServerError)
			return
		}

		if len(body.Replay) > 0 {
			if err := repository.SaveReplay(r.Context(), score.ID, body.Replay); err != nil {
				log.Error("failed to save replay: %v", err)
				http.Error(w, "Failed to save replay", http.StatusInternalServerError)
				return
			}
		}

		emitter.Emit(events.ScoreEvent{
			ID:         score.ID,
			PlayerName: score.PlayerName,
			Score:      score.Score,
			Rounds:     score.Rounds,
			Mode:       score.Mode,
			CreatedAt:  score.CreatedAt,
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(score); err != nil {
			log.Error("failed to encode score: %v", err)
			http.Error(w, "Failed to encode score", http.StatusInternalServerError)
			return
		}
	}
}

// HandleTopScores handles requests for the leaderboard's best scores
func HandleTopScores(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := repositories.DefaultTopScoresLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		if limit > MaxTopScoresLimit {
			limit = MaxTopScoresLimit
		}

		scores, err := repository.TopScores(r.Context(), limit)
		if err != nil {
			log.Error("failed to list scores: %v", err)
			http.Error(w, "Failed to list scores", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(scores); err != nil {
			log.Error("failed to encode scores: %v", err)
			http.Error(w, "Failed to encode scores", http.StatusInternalServerError)
			return
		}
	}
}

// HandleGetScore handles requests for a single score by ID
func HandleGetScore(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scoreID := mux.Vars(r)["scoreID"]

		score, err := repository.GetScore(r.Context(), scoreID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Score not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get score: %v", err)
			http.Error(w, "Failed to get score", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(score); err != nil {
			log.Error("failed to encode score: %v", err)
			http.Error(w, "Failed to encode score", http.StatusInternalServerError)
			return
		}
	}
}

// HandleGetReplay serves a score's encoded replay file
func HandleGetReplay(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scoreID := mux.Vars(r)["scoreID"]

		data, err := repository.LoadReplay(r.Context(), scoreID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Replay not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load replay: %v", err)
			http.Error(w, "Failed to load replay", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(data); err != nil {
			log.Error("failed to write replay: %v", err)
		}
	}
}
