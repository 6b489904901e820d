package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/afterglow/mocks/github.com/cbodonnell/afterglow/pkg/leaderboard"
	apihandlers "github.com/cbodonnell/afterglow/pkg/api/handlers"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/events/sinks"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/state"
)

func jsonBody(t *testing.T, v interface{}) io.ReadCloser {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return io.NopCloser(bytes.NewReader(b))
}

func TestClient_SubmitScore(t *testing.T) {
	t.Parallel()

	saved := &models.Score{
		ID:         "score-1",
		PlayerName: "ada",
		Score:      7,
		Rounds:     8,
		Seed:       42,
		DurationMs: 42000,
		Mode:       models.ModeClassic,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}

	mockDoer := mocks.NewDoer(t)
	mockDoer.EXPECT().Do(mock.Anything).RunAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "https://scores.example.com/v1/scores", req.URL.String())
		require.Equal(t, "Bearer id-token", req.Header.Get("Authorization"))
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))

		body := &apihandlers.SubmitScoreRequestBody{}
		require.NoError(t, json.NewDecoder(req.Body).Decode(body))
		require.Equal(t, "ada", body.PlayerName)
		require.Equal(t, 7, body.Score)

		return &http.Response{StatusCode: http.StatusOK, Body: jsonBody(t, saved)}, nil
	}).Once()

	client := NewClient(NewClientOptions{
		BaseURL: "https://scores.example.com/",
		Doer:    mockDoer,
	})

	got, err := client.SubmitScore(context.Background(), "id-token", &apihandlers.SubmitScoreRequestBody{
		PlayerName: "ada",
		Score:      7,
		Rounds:     8,
		Seed:       42,
		DurationMs: 42000,
	})
	require.NoError(t, err)
	require.Equal(t, saved, got)
}

func TestClient_SubmitScore_APIError(t *testing.T) {
	t.Parallel()

	mockDoer := mocks.NewDoer(t)
	mockDoer.EXPECT().Do(mock.Anything).Return(&http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(bytes.NewReader([]byte("Invalid score\n"))),
	}, nil).Once()

	client := NewClient(NewClientOptions{
		BaseURL: "https://scores.example.com",
		Doer:    mockDoer,
	})

	_, err := client.SubmitScore(context.Background(), "id-token", &apihandlers.SubmitScoreRequestBody{PlayerName: "ada"})
	require.Error(t, err)

	apiErr := &APIError{}
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid score", apiErr.Message)
	require.False(t, IsNotFound(err))
}

func TestClient_SubmitScore_RequestError(t *testing.T) {
	t.Parallel()

	mockDoer := mocks.NewDoer(t)
	mockDoer.EXPECT().Do(mock.Anything).Return(nil, errors.New("connection refused")).Once()

	client := NewClient(NewClientOptions{
		BaseURL: "https://scores.example.com",
		Doer:    mockDoer,
	})

	_, err := client.SubmitScore(context.Background(), "id-token", &apihandlers.SubmitScoreRequestBody{PlayerName: "ada"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to send request")
}

func TestClient_TopScores(t *testing.T) {
	t.Parallel()

	scores := []*models.Score{
		{ID: "score-1", PlayerName: "ada", Score: 9},
		{ID: "score-2", PlayerName: "grace", Score: 7},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/scores/top", r.URL.Path)
		if r.URL.Query().Get("limit") == "1" {
			require.NoError(t, json.NewEncoder(w).Encode(scores[:1]))
			return
		}
		require.Empty(t, r.URL.RawQuery)
		require.NoError(t, json.NewEncoder(w).Encode(scores))
	}))
	defer srv.Close()

	client := NewClient(NewClientOptions{BaseURL: srv.URL})

	got, err := client.TopScores(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, scores[:1], got)

	got, err = client.TopScores(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, scores, got)
}

func TestClient_Score(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scores/score-1" {
			http.Error(w, "Score not found", http.StatusNotFound)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(&models.Score{ID: "score-1", PlayerName: "ada"}))
	}))
	defer srv.Close()

	client := NewClient(NewClientOptions{BaseURL: srv.URL})

	score, err := client.Score(context.Background(), "score-1")
	require.NoError(t, err)
	require.Equal(t, "score-1", score.ID)

	_, err = client.Score(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestClient_Replay(t *testing.T) {
	t.Parallel()

	game := &replay.Game{
		Seed:       42,
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

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scores/score-1/replay" {
			http.Error(w, "Replay not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, err := w.Write(data)
		require.NoError(t, err)
	}))
	defer srv.Close()

	client := NewClient(NewClientOptions{BaseURL: srv.URL})

	got, err := client.Replay(context.Background(), "score-1")
	require.NoError(t, err)
	require.Equal(t, game, got)

	_, err = client.Replay(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestClient_Daily(t *testing.T) {
	t.Parallel()

	daily := &state.Daily{Date: "2024-06-01", Seed: state.SeedFor("2024-06-01")}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/daily", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(daily))
	}))
	defer srv.Close()

	client := NewClient(NewClientOptions{BaseURL: srv.URL})

	got, err := client.Daily(context.Background())
	require.NoError(t, err)
	require.Equal(t, daily, got)
}

func TestClient_Live(t *testing.T) {
	t.Parallel()

	broadcaster := sinks.NewBroadcaster()
	t.Cleanup(func() {
		broadcaster.Close(context.Background())
	})

	mux := http.NewServeMux()
	mux.Handle("/v1/live", apihandlers.HandleLiveScores(broadcaster))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewClient(NewClientOptions{BaseURL: srv.URL})
	feed, err := client.Live(ctx)
	require.NoError(t, err)

	evt := events.ScoreEvent{
		ID:         "score-1",
		PlayerName: "grace",
		Score:      9,
		Rounds:     10,
		Mode:       models.ModeDaily,
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, broadcaster.Consume(ctx, []events.ScoreEvent{evt}))

	select {
	case got := <-feed:
		require.Equal(t, evt, got)
	case <-ctx.Done():
		t.Fatal("timed out waiting for live event")
	}

	cancel()
	select {
	case _, ok := <-feed:
		require.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("live channel was not closed after cancel")
	}
}
