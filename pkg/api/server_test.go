package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/cbodonnell/afterglow/pkg/api/handlers"
	authproviders "github.com/cbodonnell/afterglow/pkg/auth/providers"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/events/sinks"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/cbodonnell/afterglow/pkg/state"
)

const testSecret = "sekrit"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	provider, err := authproviders.NewStaticAuthProvider(testSecret)
	require.NoError(t, err)

	broadcaster := sinks.NewBroadcaster()
	hub := events.NewHub(events.NewHubOptions{
		MaxBatch:     1,
		MaxBatchWait: 10 * time.Millisecond,
		Sinks:        []events.Sink{broadcaster},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		hub.Close(ctx)
	})

	apiServer := NewAPIServer(NewAPIServerOptions{
		AuthProvider: provider,
		Repository:   repositories.NewInMemoryRepository(),
		Emitter:      hub,
		Broadcaster:  broadcaster,
		Daily:        state.NewInMemoryManager(),
	})

	srv := httptest.NewServer(apiServer.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func submitScore(t *testing.T, srv *httptest.Server, token string, body *handlers.SubmitScoreRequestBody) *http.Response {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, json.NewEncoder(buf).Encode(body))
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/scores", buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestAPIServer_SubmitAndFetchScore(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	token := authproviders.StaticToken(testSecret, "uid-1")

	resp := submitScore(t, srv, token, &handlers.SubmitScoreRequestBody{
		PlayerName: "ada",
		Score:      4,
		Rounds:     5,
		Seed:       99,
		DurationMs: 30000,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	saved := &models.Score{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(saved))
	require.NotEmpty(t, saved.ID)

	topResp, err := srv.Client().Get(srv.URL + "/v1/scores/top")
	require.NoError(t, err)
	defer topResp.Body.Close()
	require.Equal(t, http.StatusOK, topResp.StatusCode)

	var scores []*models.Score
	require.NoError(t, json.NewDecoder(topResp.Body).Decode(&scores))
	require.Len(t, scores, 1)
	require.Equal(t, saved.ID, scores[0].ID)

	getResp, err := srv.Client().Get(srv.URL + "/v1/scores/" + saved.ID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	missingResp, err := srv.Client().Get(srv.URL + "/v1/scores/does-not-exist")
	require.NoError(t, err)
	defer missingResp.Body.Close()
	require.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestAPIServer_SubmitScoreRequiresAuth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp := submitScore(t, srv, "", &handlers.SubmitScoreRequestBody{PlayerName: "ada", Rounds: 1})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = submitScore(t, srv, authproviders.StaticToken("wrong", "uid-1"), &handlers.SubmitScoreRequestBody{PlayerName: "ada", Rounds: 1})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPIServer_Daily(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/v1/daily")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	daily := &state.Daily{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(daily))
	require.Equal(t, state.SeedFor(daily.Date), daily.Seed)
}

func TestAPIServer_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	require.Equal(t, http.StatusOK, metricsResp.StatusCode)
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, body)
}

func TestAPIServer_CORSPreflight(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/scores", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAPIServer_LiveFeed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/live"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	resp := submitScore(t, srv, authproviders.StaticToken(testSecret, "uid-1"), &handlers.SubmitScoreRequestBody{
		PlayerName: "grace",
		Score:      9,
		Rounds:     10,
		Seed:       7,
		DurationMs: 61000,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	evt := events.ScoreEvent{}
	require.NoError(t, wsjson.Read(ctx, conn, &evt))
	require.Equal(t, "grace", evt.PlayerName)
	require.Equal(t, 9, evt.Score)

	conn.Close(websocket.StatusNormalClosure, "")
}
