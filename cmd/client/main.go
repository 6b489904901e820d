package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbodonnell/afterglow/client/game"
	"github.com/cbodonnell/afterglow/client/sound"
	"github.com/cbodonnell/afterglow/pkg/leaderboard"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/queue"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/version"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level")
	debug := flag.Bool("debug", false, "Debug mode")
	serverURL := flag.String("server-url", game.DefaultServerURL, "Leaderboard server URL")
	offline := flag.Bool("offline", false, "Play without a server")
	fullscreen := flag.Bool("fullscreen", false, "Start in fullscreen")
	mute := flag.Bool("mute", false, "Disable sound")
	playerName := flag.String("name", "", "Player name")
	dataDir := flag.String("data-dir", "", "Directory for local data (defaults to the user config dir)")
	migrations := flag.String("migrations", "migrations/sqlite", "Path to the sqlite migrations directory")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting client version %s", version.Get())

	dir := *dataDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(fmt.Sprintf("Failed to resolve user config dir: %v", err))
		}
		dir = filepath.Join(configDir, "afterglow")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create data dir: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := repositories.NewSQLiteRepository(ctx, filepath.Join(dir, "afterglow.db"), *migrations)
	if err != nil {
		panic(fmt.Sprintf("Failed to open local score database: %v", err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Error("Failed to close local score database: %v", err)
		}
	}()

	engine := simon.NewEngine(simon.NewEngineOptions{})
	defer engine.Close()

	sounds := sound.NewPlayer(sound.NewPlayerOptions{Muted: *mute})

	api := leaderboard.NewClient(leaderboard.NewClientOptions{BaseURL: *serverURL})
	submitQueue := queue.NewInMemoryQueue(64)

	g, err := game.NewGame(game.NewGameOptions{
		Debug:      *debug,
		ServerURL:  *serverURL,
		Offline:    *offline,
		PlayerName: *playerName,
		Engine:     engine,
		Sounds:     sounds,
		API:        api,
		Repository: repo,
		Queue:      submitQueue,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	if !*offline {
		go g.Worker().Start(ctx)
	}

	ebiten.SetWindowSize(game.DefaultScreenWidth, game.DefaultScreenHeight)
	ebiten.SetWindowTitle("Afterglow")
	ebiten.SetFullscreen(*fullscreen)
	if err := ebiten.RunGame(g); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
