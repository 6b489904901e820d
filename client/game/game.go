package game

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cbodonnell/afterglow/client/input"
	"github.com/cbodonnell/afterglow/client/scenes"
	"github.com/cbodonnell/afterglow/client/sound"
	"github.com/cbodonnell/afterglow/client/ui"
	apihandlers "github.com/cbodonnell/afterglow/pkg/api/handlers"
	authhandlers "github.com/cbodonnell/afterglow/pkg/auth/handlers"
	"github.com/cbodonnell/afterglow/pkg/leaderboard"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/queue"
	"github.com/cbodonnell/afterglow/pkg/replay"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/state"
	"github.com/cbodonnell/afterglow/pkg/workers"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether debug mode is enabled.
	debug bool
	// serverURL is the URL of the leaderboard server.
	serverURL string
	// offline disables all server communication.
	offline bool
	// engine runs the sequence repetition sessions.
	engine *simon.Engine
	// sounds plays the pad tones.
	sounds *sound.Player
	// api is the leaderboard API client.
	api *leaderboard.Client
	// repo stores scores and replays locally.
	repo repositories.Repository
	// submitQueue holds scores waiting to be submitted.
	submitQueue queue.Queue
	// worker retries queued score submissions.
	worker *workers.SubmitScoreWorker
	// mode is the current game mode.
	mode GameMode
	// scene is the current scene.
	scene scenes.Scene

	playerName string
	lastSeed   int64
	lastMode   string

	tokenMu sync.RWMutex
	idToken string
}

const (
	DefaultServerURL = "http://localhost:8080"

	apiTimeout     = 10 * time.Second
	drainTimeout   = 30 * time.Second
	topScoresLimit = 10
)

type GameMode int

const (
	GameModeMenu GameMode = iota
	GameModeAuth
	GameModePlay
	GameModeOver
	GameModeScores
	GameModeError
)

func (m GameMode) String() string {
	switch m {
	case GameModeMenu:
		return "Menu"
	case GameModeAuth:
		return "Auth"
	case GameModePlay:
		return "Play"
	case GameModeOver:
		return "Over"
	case GameModeScores:
		return "Scores"
	case GameModeError:
		return "Error"
	}
	return "Unknown"
}

type NewGameOptions struct {
	Debug      bool
	ServerURL  string
	Offline    bool
	PlayerName string
	Engine     *simon.Engine
	Sounds     *sound.Player
	API        *leaderboard.Client
	Repository repositories.Repository
	Queue      queue.Queue
}

func NewGame(opts NewGameOptions) (*Game, error) {
	g := &Game{
		debug:       opts.Debug,
		serverURL:   strings.TrimRight(opts.ServerURL, "/"),
		offline:     opts.Offline,
		playerName:  opts.PlayerName,
		engine:      opts.Engine,
		sounds:      opts.Sounds,
		api:         opts.API,
		repo:        opts.Repository,
		submitQueue: opts.Queue,
	}
	g.worker = workers.NewSubmitScoreWorker(workers.NewSubmitScoreWorkerOptions{
		Queue:     opts.Queue,
		Submitter: opts.API,
		Token:     g.TokenFunc(),
	})

	if err := g.loadMenu(); err != nil {
		return nil, fmt.Errorf("failed to load menu scene: %v", err)
	}

	return g, nil
}

// Worker returns the score submission worker so the caller can run it.
func (g *Game) Worker() *workers.SubmitScoreWorker {
	return g.worker
}

// TokenFunc returns a TokenFunc reading the current session's id token.
func (g *Game) TokenFunc() workers.TokenFunc {
	return func(ctx context.Context) (string, error) {
		token := g.token()
		if token == "" {
			return "", fmt.Errorf("not signed in")
		}
		return token, nil
	}
}

func (g *Game) token() string {
	g.tokenMu.RLock()
	defer g.tokenMu.RUnlock()
	return g.idToken
}

func (g *Game) setToken(token string) {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()
	g.idToken = token
}

func (g *Game) SetScene(scene scenes.Scene) error {
	if g.scene != nil {
		if err := g.scene.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy previous scene: %v", err)
		}
	}

	g.scene = scene
	if err := g.scene.Init(); err != nil {
		return fmt.Errorf("failed to initialize scene: %v", err)
	}

	return nil
}

func (g *Game) loadMenu() error {
	menu, err := scenes.NewMenuScene(scenes.MenuSceneOptions{
		PlayerName: g.playerName,
		SignedIn:   g.token() != "",
		OnPlay: func(name string) error {
			g.playerName = name
			return g.startClassic()
		},
		OnDaily: func(name string) error {
			g.playerName = name
			return g.startDaily()
		},
		OnScores: func() error {
			return g.loadScores()
		},
		OnAccount: func() error {
			if g.token() != "" {
				g.setToken("")
				return g.loadMenu()
			}
			return g.loadAuth()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create menu scene: %v", err)
	}
	if err := g.SetScene(menu); err != nil {
		return fmt.Errorf("failed to set menu scene: %v", err)
	}
	g.mode = GameModeMenu
	return nil
}

func (g *Game) loadAuth() error {
	auth, err := scenes.NewAuthScene(scenes.AuthSceneOptions{
		OnSubmit: func(email, password string, register bool) error {
			idToken, err := g.getIDToken(email, password, register)
			if err != nil {
				return err
			}
			g.setToken(idToken)
			g.drainPending()
			return g.loadMenu()
		},
		OnBack: func() error {
			return g.loadMenu()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create auth scene: %v", err)
	}
	if err := g.SetScene(auth); err != nil {
		return fmt.Errorf("failed to set auth scene: %v", err)
	}
	g.mode = GameModeAuth
	return nil
}

func (g *Game) getIDToken(email, password string, register bool) (string, error) {
	values := url.Values{}
	values.Set("email", email)
	values.Set("password", password)
	requestBody := strings.NewReader(values.Encode())

	endpoint := g.serverURL + "/auth/login"
	if register {
		endpoint = g.serverURL + "/auth/register"
	}
	req, err := http.NewRequest("POST", endpoint, requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := http.DefaultClient
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send auth request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(b))
		if resp.StatusCode < http.StatusInternalServerError && msg != "" {
			return "", ui.NewActionableError(msg)
		}
		return "", fmt.Errorf("failed to authenticate: status: %s, body: %s", resp.Status, msg)
	}

	loginResponse := &authhandlers.LoginResponseBody{}
	if err := json.NewDecoder(resp.Body).Decode(loginResponse); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %v", err)
	}

	return loginResponse.IDToken, nil
}

// drainPending flushes scores queued while signed out.
func (g *Game) drainPending() {
	if g.offline || g.submitQueue.Size() == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		g.worker.Drain(ctx)
	}()
}

func (g *Game) startClassic() error {
	return g.loadGame(time.Now().UnixNano(), models.ModeClassic)
}

func (g *Game) startDaily() error {
	if g.offline {
		// the daily seed derivation is shared with the server
		return g.loadGame(state.SeedFor(state.Today(time.Now())), models.ModeDaily)
	}

	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()
	daily, err := g.api.Daily(ctx)
	if err != nil {
		log.Error("Failed to fetch daily challenge: %v", err)
		return ui.NewActionableError("Failed to fetch the daily challenge.")
	}
	return g.loadGame(daily.Seed, models.ModeDaily)
}

func (g *Game) loadGame(seed int64, mode string) error {
	g.lastSeed = seed
	g.lastMode = mode
	gameScene, err := scenes.NewGameScene(scenes.GameSceneOptions{
		Engine: g.engine,
		Sounds: g.sounds,
		Seed:   seed,
		OnGameOver: func(st simon.State, recording *replay.Game) error {
			return g.loadGameOver(st, recording)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create game scene: %v", err)
	}
	if err := g.SetScene(gameScene); err != nil {
		return fmt.Errorf("failed to set game scene: %v", err)
	}
	g.mode = GameModePlay
	return nil
}

func (g *Game) playAgain() error {
	if g.lastMode == models.ModeDaily {
		return g.loadGame(g.lastSeed, models.ModeDaily)
	}
	return g.startClassic()
}

func (g *Game) loadGameOver(st simon.State, recording *replay.Game) error {
	newBest, note := g.saveScore(st, recording)
	gameOver, err := scenes.NewGameOverScene(scenes.GameOverSceneOptions{
		State:     st,
		Recording: recording,
		NewBest:   newBest,
		Note:      note,
		OnPlayAgain: func() error {
			return g.playAgain()
		},
		OnMenu: func() error {
			return g.loadMenu()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create game over scene: %v", err)
	}
	if err := g.SetScene(gameOver); err != nil {
		return fmt.Errorf("failed to set game over scene: %v", err)
	}
	g.mode = GameModeOver
	return nil
}

// saveScore stores the finished game locally, reports whether it is a new
// personal best, and kicks off the leaderboard submission. It never fails
// the game over transition, problems are logged and summarized in the
// returned note.
func (g *Game) saveScore(st simon.State, recording *replay.Game) (bool, string) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	name := g.playerName
	if name == "" {
		name = "Player"
	}

	newBest := false
	prev, err := g.repo.PersonalBest(ctx, name)
	switch {
	case err == nil:
		newBest = st.Score > prev.Score
	case repositories.IsNotFound(err):
		newBest = st.Score > 0
	default:
		log.Error("Failed to load personal best: %v", err)
	}

	durationMs := st.EndedAt.Sub(st.StartedAt).Milliseconds()
	if recording != nil {
		durationMs = recording.DurationMs
	}
	score := &models.Score{
		ID:         uuid.New().String(),
		PlayerName: name,
		Score:      st.Score,
		Rounds:     st.Round,
		Seed:       st.Seed,
		DurationMs: durationMs,
		Mode:       g.lastMode,
		CreatedAt:  time.Now().UTC(),
	}
	if err := g.repo.SaveScore(ctx, score); err != nil {
		log.Error("Failed to save score: %v", err)
	}

	var replayData []byte
	if recording != nil {
		replayData, err = replay.Marshal(recording)
		if err != nil {
			log.Error("Failed to encode replay: %v", err)
			replayData = nil
		} else if err := g.repo.SaveReplay(ctx, score.ID, replayData); err != nil {
			log.Error("Failed to save replay: %v", err)
		}
	}

	return newBest, g.submitScore(ctx, score, replayData)
}

func (g *Game) submitScore(ctx context.Context, score *models.Score, replayData []byte) string {
	if g.offline {
		return "Offline, score saved locally."
	}
	if g.token() == "" {
		return "Sign in to post scores to the leaderboard."
	}

	body := &apihandlers.SubmitScoreRequestBody{
		PlayerName: score.PlayerName,
		Score:      score.Score,
		Rounds:     score.Rounds,
		Seed:       score.Seed,
		DurationMs: score.DurationMs,
		Mode:       score.Mode,
		Replay:     replayData,
	}
	if _, err := g.api.SubmitScore(ctx, g.token(), body); err != nil {
		log.Warn("Failed to submit score, queueing for retry: %v", err)
		if qErr := g.submitQueue.Enqueue(&workers.PendingScore{Body: body}); qErr != nil {
			log.Error("Failed to queue score: %v", qErr)
			return "Submission failed, score saved locally."
		}
		return "Submission failed, score queued for retry."
	}
	return "Score submitted to the leaderboard."
}

func (g *Game) loadScores() error {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
	defer cancel()

	title := "High Scores"
	note := ""
	var scores []*models.Score
	if g.offline {
		local, err := g.repo.TopScores(ctx, topScoresLimit)
		if err != nil {
			log.Error("Failed to load local scores: %v", err)
			return ui.NewActionableError("Failed to load scores.")
		}
		scores = local
		title = "Local Scores"
		note = "Offline, showing locally saved scores."
	} else {
		top, err := g.api.TopScores(ctx, topScoresLimit)
		if err != nil {
			log.Warn("Failed to fetch leaderboard, falling back to local scores: %v", err)
			local, lErr := g.repo.TopScores(ctx, topScoresLimit)
			if lErr != nil {
				log.Error("Failed to load local scores: %v", lErr)
				return ui.NewActionableError("Failed to load scores.")
			}
			scores = local
			title = "Local Scores"
			note = "Server unreachable, showing locally saved scores."
		} else {
			scores = top
		}
	}

	scoresScene, err := scenes.NewScoresScene(scenes.ScoresSceneOptions{
		Title:  title,
		Scores: scores,
		Note:   note,
		OnBack: func() error {
			return g.loadMenu()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create scores scene: %v", err)
	}
	if err := g.SetScene(scoresScene); err != nil {
		return fmt.Errorf("failed to set scores scene: %v", err)
	}
	g.mode = GameModeScores
	return nil
}

func (g *Game) loadError(message string) error {
	errorScene, err := scenes.NewErrorScene(message)
	if err != nil {
		return fmt.Errorf("failed to create error scene: %v", err)
	}
	if err := g.SetScene(errorScene); err != nil {
		return fmt.Errorf("failed to set error scene: %v", err)
	}
	g.mode = GameModeError
	return nil
}

func (g *Game) Update() error {
	// Handle input
	if err := g.handleInput(); err != nil {
		return fmt.Errorf("failed to handle input: %v", err)
	}

	// Update the current scene
	if err := g.scene.Update(); err != nil {
		log.Error("Failed to update scene: %v", err)
		if err := g.loadError("Something went wrong."); err != nil {
			return fmt.Errorf("failed to load error scene: %v", err)
		}
	}

	return nil
}

func (g *Game) handleInput() error {
	switch g.mode {
	case GameModePlay:
		if input.IsNegativeJustPressed() {
			if err := g.loadMenu(); err != nil {
				return fmt.Errorf("failed to load menu scene: %v", err)
			}
		}
	case GameModeOver:
		if input.IsPositiveJustPressed() {
			if err := g.playAgain(); err != nil {
				return fmt.Errorf("failed to restart game: %v", err)
			}
			break
		}
		if input.IsNegativeJustPressed() {
			if err := g.loadMenu(); err != nil {
				return fmt.Errorf("failed to load menu scene: %v", err)
			}
		}
	case GameModeScores, GameModeAuth:
		if input.IsNegativeJustPressed() {
			if err := g.loadMenu(); err != nil {
				return fmt.Errorf("failed to load menu scene: %v", err)
			}
		}
	case GameModeError:
		if input.IsPositiveJustPressed() || input.IsNegativeJustPressed() {
			if err := g.loadMenu(); err != nil {
				return fmt.Errorf("failed to load menu scene: %v", err)
			}
		}
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n   FPS: %0.1f", ebiten.ActualFPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n   TPS: %0.1f", ebiten.ActualTPS()))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n   Mode: %s", g.mode))

	st := g.engine.State()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n   Phase: %s", st.Phase))
	ebitenutil.DebugPrint(screen, fmt.Sprintf("\n\n\n\n\n   Dropped: %d", g.engine.Dropped()))
}

const (
	DefaultScreenWidth  = 640
	DefaultScreenHeight = 480
)

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return DefaultScreenWidth, DefaultScreenHeight
}
