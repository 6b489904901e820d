package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/afterglow/mocks/github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/api/middleware"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/state"
)

type captureEmitter struct {
	mu     sync.Mutex
	events []events.ScoreEvent
}

func (e *captureEmitter) Emit(evt events.ScoreEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *captureEmitter) all() []events.ScoreEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]events.ScoreEvent(nil), e.events...)
}

func submitBody() *SubmitScoreRequestBody {
	return &SubmitScoreRequestBody{
		PlayerName: "ada",
		Score:      7,
		Rounds:     8,
		Seed:       1234,
		DurationMs: 42000,
		Mode:       models.ModeClassic,
	}
}

func submitRequest(t *testing.T, body *SubmitScoreRequestBody) *http.Request {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, json.NewEncoder(buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/v1/scores", buf)
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, &models.User{ID: "uid-1"})
	return req.WithContext(ctx)
}

func encodedReplay(t *testing.T, seed int64) []byte {
	t.Helper()
	game := &replay.Game{
		Seed:       seed,
		Score:      7,
		Rounds:     8,
		StartedAt:  time.Unix(1700000000, 0).UTC(),
		DurationMs: 42000,
		Events: []replay.Event{
			{AtMs: 0, Pad: simon.PadGreen, Lit: true, Source: simon.SignalPlayback},
			{AtMs: 480, Pad: simon.PadGreen, Lit: false, Source: simon.SignalPlayback},
		},
	}
	data, err := replay.Marshal(game)
	require.NoError(t, err)
	return data
}

func TestHandleSubmitScore(t *testing.T) {
	t.Parallel()

	repo := repositories.NewInMemoryRepository()
	emitter := &captureEmitter{}
	body := submitBody()
	body.Replay = encodedReplay(t, body.Seed)

	w := httptest.NewRecorder()
	HandleSubmitScore(repo, emitter)(w, submitRequest(t, body))
	require.Equal(t, http.StatusOK, w.Code)

	saved := &models.Score{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(saved))
	require.NotEmpty(t, saved.ID)
	require.Equal(t, "ada", saved.PlayerName)
	require.Equal(t, 7, saved.Score)
	require.False(t, saved.CreatedAt.IsZero())

	stored, err := repo.GetScore(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, saved.ID, stored.ID)

	data, err := repo.LoadReplay(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, body.Replay, data)

	emitted := emitter.all()
	require.Len(t, emitted, 1)
	require.Equal(t, saved.ID, emitted[0].ID)
	require.Equal(t, models.ModeClassic, emitted[0].Mode)
}

func TestHandleSubmitScore_DefaultsModeToClassic(t *testing.T) {
	t.Parallel()

	repo := repositories.NewInMemoryRepository()
	body := submitBody()
	body.Mode = ""

	w := httptest.NewRecorder()
	HandleSubmitScore(repo, &captureEmitter{})(w, submitRequest(t, body))
	require.Equal(t, http.StatusOK, w.Code)

	saved := &models.Score{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(saved))
	require.Equal(t, models.ModeClassic, saved.Mode)
}

func TestHandleSubmitScore_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, body *SubmitScoreRequestBody)
	}{
		{"empty name", func(t *testing.T, b *SubmitScoreRequestBody) { b.PlayerName = "" }},
		{"long name", func(t *testing.T, b *SubmitScoreRequestBody) { b.PlayerName = "seventeen chars a" }},
		{"special characters", func(t *testing.T, b *SubmitScoreRequestBody) { b.PlayerName = "ada?!" }},
		{"negative score", func(t *testing.T, b *SubmitScoreRequestBody) { b.Score = -1 }},
		{"rounds below score", func(t *testing.T, b *SubmitScoreRequestBody) { b.Rounds = 3 }},
		{"unknown mode", func(t *testing.T, b *SubmitScoreRequestBody) { b.Mode = "speedrun" }},
		{"garbage replay", func(t *testing.T, b *SubmitScoreRequestBody) { b.Replay = []byte("junk") }},
		{"replay seed mismatch", func(t *testing.T, b *SubmitScoreRequestBody) { b.Replay = encodedReplay(t, b.Seed+1) }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := repositories.NewInMemoryRepository()
			body := submitBody()
			tc.mutate(t, body)

			w := httptest.NewRecorder()
			HandleSubmitScore(repo, &captureEmitter{})(w, submitRequest(t, body))
			require.Equal(t, http.StatusBadRequest, w.Code)

			scores, err := repo.TopScores(context.Background(), 10)
			require.NoError(t, err)
			require.Empty(t, scores)
		})
	}
}

func TestHandleSubmitScore_RequiresUser(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	require.NoError(t, json.NewEncoder(buf).Encode(submitBody()))
	req := httptest.NewRequest(http.MethodPost, "/v1/scores", buf)

	w := httptest.NewRecorder()
	HandleSubmitScore(repositories.NewInMemoryRepository(), &captureEmitter{})(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleSubmitScore_SaveError(t *testing.T) {
	t.Parallel()

	mockRepo := mocks.NewRepository(t)
	mockRepo.EXPECT().SaveScore(mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	emitter := &captureEmitter{}
	w := httptest.NewRecorder()
	HandleSubmitScore(mockRepo, emitter)(w, submitRequest(t, submitBody()))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Empty(t, emitter.all())
}

func TestHandleSubmitScore_SaveReplayError(t *testing.T) {
	t.Parallel()

	mockRepo := mocks.NewRepository(t)
	mockRepo.EXPECT().SaveScore(mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.EXPECT().SaveReplay(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	body := submitBody()
	body.Replay = encodedReplay(t, body.Seed)

	emitter := &captureEmitter{}
	w := httptest.NewRecorder()
	HandleSubmitScore(mockRepo, emitter)(w, submitRequest(t, body))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Empty(t, emitter.all())
}

func TestHandleTopScores(t *testing.T) {
	t.Parallel()

	repo := repositories.NewInMemoryRepository()
	base := time.Unix(1700000000, 0).UTC()
	for i, name := range []string{"ada", "grace", "alan"} {
		require.NoError(t, repo.SaveScore(context.Background(), &models.Score{
			ID:         name,
			PlayerName: name,
			Score:      i,
			Rounds:     i + 1,
			Mode:       models.ModeClassic,
			CreatedAt:  base,
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/scores/top?limit=2", nil)
	w := httptest.NewRecorder()
	HandleTopScores(repo)(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var scores []*models.Score
	require.NoError(t, json.NewDecoder(w.Body).Decode(&scores))
	require.Len(t, scores, 2)
	require.Equal(t, "alan", scores[0].PlayerName)
	require.Equal(t, "grace", scores[1].PlayerName)
}

func TestHandleTopScores_InvalidLimit(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/v1/scores/top?limit=bogus", nil)
	w := httptest.NewRecorder()
	HandleTopScores(repositories.NewInMemoryRepository())(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetScore(t *testing.T) {
	t.Parallel()

	repo := repositories.NewInMemoryRepository()
	score := &models.Score{
		ID:         "score-1",
		PlayerName: "ada",
		Score:      5,
		Rounds:     6,
		Mode:       models.ModeDaily,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, repo.SaveScore(context.Background(), score))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/v1/scores/score-1", nil), map[string]string{"scoreID": "score-1"})
	w := httptest.NewRecorder()
	HandleGetScore(repo)(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	got := &models.Score{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(got))
	require.Equal(t, score, got)
}

func TestHandleGetScore_NotFound(t *testing.T) {
	t.Parallel()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/v1/scores/missing", nil), map[string]string{"scoreID": "missing"})
	w := httptest.NewRecorder()
	HandleGetScore(repositories.NewInMemoryRepository())(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetReplay(t *testing.T) {
	t.Parallel()

	repo := repositories.NewInMemoryRepository()
	data := encodedReplay(t, 1234)
	require.NoError(t, repo.SaveReplay(context.Background(), "score-1", data))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/v1/scores/score-1/replay", nil), map[string]string{"scoreID": "score-1"})
	w := httptest.NewRecorder()
	HandleGetReplay(repo)(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	require.Equal(t, data, w.Body.Bytes())
}

func TestHandleGetReplay_NotFound(t *testing.T) {
	t.Parallel()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/v1/scores/missing/replay", nil), map[string]string{"scoreID": "missing"})
	w := httptest.NewRecorder()
	HandleGetReplay(repositories.NewInMemoryRepository())(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDaily(t *testing.T) {
	t.Parallel()

	manager := state.NewInMemoryManager()

	req := httptest.NewRequest(http.MethodGet, "/v1/daily", nil)
	w := httptest.NewRecorder()
	HandleDaily(manager)(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	daily := &state.Daily{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(daily))
	require.Equal(t, state.Today(time.Now()), daily.Date)
	require.Equal(t, state.SeedFor(daily.Date), daily.Seed)
}

func TestHandleDaily_SpecificDate(t *testing.T) {
	t.Parallel()

	manager := state.NewInMemoryManager()

	req := httptest.NewRequest(http.MethodGet, "/v1/daily?date=2024-06-01", nil)
	w := httptest.NewRecorder()
	HandleDaily(manager)(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	daily := &state.Daily{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(daily))
	require.Equal(t, "2024-06-01", daily.Date)
	require.Equal(t, state.SeedFor("2024-06-01"), daily.Seed)

	w = httptest.NewRecorder()
	HandleDaily(manager)(w, httptest.NewRequest(http.MethodGet, "/v1/daily?date=June", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
