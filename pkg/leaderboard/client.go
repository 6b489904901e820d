package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	apihandlers "github.com/cbodonnell/afterglow/pkg/api/handlers"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/cbodonnell/afterglow/pkg/state"
)

// Doer issues a single HTTP request. *http.Client satisfies it, tests
// substitute a mock.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx response from the leaderboard API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client is a typed client for the leaderboard API.
type Client struct {
	baseURL string
	doer    Doer
}

type NewClientOptions struct {
	// BaseURL is the API root, e.g. "https://scores.example.com".
	BaseURL string
	// Doer defaults to http.DefaultClient.
	Doer Doer
}

// NewClient creates a new Client
func NewClient(opts NewClientOptions) *Client {
	doer := opts.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		doer:    doer,
	}
}

// do sends the request and decodes a 2xx JSON response into out. A non-2xx
// response becomes an *APIError carrying the body. A nil out skips response
// decoding.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(b)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// SubmitScore submits a finished game's score, authenticated with idToken,
// and returns the score as stored by the server.
func (c *Client) SubmitScore(ctx context.Context, idToken string, score *apihandlers.SubmitScoreRequestBody) (*models.Score, error) {
	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(score); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scores", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+idToken)

	saved := &models.Score{}
	if err := c.do(req, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// TopScores returns the leaderboard's best scores. A non-positive limit
// uses the server default.
func (c *Client) TopScores(ctx context.Context, limit int) ([]*models.Score, error) {
	u := c.baseURL + "/v1/scores/top"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	var scores []*models.Score
	if err := c.do(req, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// Score returns a single score by ID.
func (c *Client) Score(ctx context.Context, scoreID string) (*models.Score, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/scores/"+url.PathEscape(scoreID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	score := &models.Score{}
	if err := c.do(req, score); err != nil {
		return nil, err
	}
	return score, nil
}

// Replay fetches and decodes a score's replay.
func (c *Client) Replay(ctx context.Context, scoreID string) (*replay.Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/scores/"+url.PathEscape(scoreID)+"/replay", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(b)),
		}
	}

	game, err := replay.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode replay: %v", err)
	}
	return game, nil
}

// Daily returns the shared daily challenge.
func (c *Client) Daily(ctx context.Context) (*state.Daily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/daily", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	daily := &state.Daily{}
	if err := c.do(req, daily); err != nil {
		return nil, err
	}
	return daily, nil
}

// Live subscribes to the score feed over a WebSocket. The returned channel
// closes when the connection ends or ctx is canceled.
func (c *Client) Live(ctx context.Context) (<-chan events.ScoreEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/v1/live"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live feed: %v", err)
	}

	out := make(chan events.ScoreEvent)
	go func() {
		defer close(out)
		defer conn.CloseNow()
		for {
			evt := events.ScoreEvent{}
			if err := wsjson.Read(ctx, conn, &evt); err != nil {
				if ctx.Err() == nil {
					log.Debug("live feed closed: %v", err)
				}
				return
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
