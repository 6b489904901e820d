package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/cbodonnell/afterglow/pkg/leaderboard"
)

func main() {
	serverURL := flag.String("server-url", "http://localhost:8080", "Leaderboard server URL")
	limit := flag.Int("limit", 10, "Number of scores to list")
	watch := flag.Bool("watch", false, "Stream accepted scores as they arrive")
	flag.Parse()

	client := leaderboard.NewClient(leaderboard.NewClientOptions{BaseURL: *serverURL})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gracefully handle Ctrl+C to stop the program
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopSignal
		cancel()
	}()

	if daily, err := client.Daily(ctx); err == nil {
		fmt.Printf("Daily challenge %s (seed %d)\n\n", daily.Date, daily.Seed)
	}

	scores, err := client.TopScores(ctx, *limit)
	if err != nil {
		fmt.Println("Error fetching top scores:", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tSCORE\tROUNDS\tMODE")
	for i, score := range scores {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i+1, score.PlayerName, score.Score, score.Rounds, score.Mode)
	}
	w.Flush()

	if !*watch {
		return
	}

	fmt.Println()
	fmt.Println("Watching for new scores, Ctrl+C to stop.")
	feed, err := client.Live(ctx)
	if err != nil {
		fmt.Println("Error subscribing to live scores:", err)
		os.Exit(1)
	}
	for evt := range feed {
		fmt.Printf("%s scored %d after %d rounds (%s)\n", evt.PlayerName, evt.Score, evt.Rounds, evt.Mode)
	}
	fmt.Println("Live feed ended.")
}
