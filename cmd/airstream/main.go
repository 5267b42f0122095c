package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tailored-agentic-units/airstream/observability"
	"github.com/tailored-agentic-units/airstream/segment"
	"github.com/tailored-agentic-units/airstream/stream"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file (optional)")
		endpoint   = flag.String("endpoint", "", "Stream endpoint URL (overrides config)")
		historyDir = flag.String("history", "", "Directory for archived sessions (overrides config)")
		query      = flag.String("query", "", "Natural language query to submit (required)")
		plain      = flag.Bool("plain", false, "Print rendered text without terminal styling")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: airstream -query <text> [-config <file>] [-endpoint <url>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := stream.DefaultConfig()
	if *configFile != "" {
		loaded, err := stream.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *endpoint != "" {
		cfg.Transport.Endpoint = *endpoint
	}
	if *historyDir != "" {
		cfg.History.Path = *historyDir
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	client, err := stream.NewClient(&cfg,
		stream.WithObserver(observability.NewSlogObserver(logger)),
	)
	if err != nil {
		log.Fatalf("Failed to create stream client: %v", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := client.Start(ctx, *query)
	if err != nil {
		var verr *stream.ValidationError
		if errors.As(err, &verr) {
			log.Fatalf("Rejected: %v", verr)
		}
		log.Fatalf("Failed to start stream: %v", err)
	}

	// The snapshot channel closes when the session reaches a terminal
	// state; the last value received is the final render-ready state.
	var final stream.Snapshot
	for snap := range sess.Subscribe() {
		final = snap
	}

	switch final.Status {
	case stream.StatusFailed:
		fmt.Fprintf(os.Stderr, "Stream failed: %v (showing partial results)\n", sess.Err())
	case stream.StatusCancelled:
		fmt.Fprintln(os.Stderr, "Stream cancelled (showing partial results)")
	}

	if final.Answer != "" {
		if *plain {
			fmt.Println(final.Answer)
		} else {
			fmt.Println(headerStyle.Render("Answer"))
			fmt.Print(renderMarkdown(final.Answer))

			resp := segment.Split(final.Answer)
			if resp.Title != "" || len(resp.Items) > 0 || resp.Summary != "" {
				fmt.Println(headerStyle.Render("Breakdown"))
				renderSegments(os.Stdout, resp)
			}
		}
	}

	if final.Query != "" {
		if *plain {
			fmt.Println(final.Query)
		} else {
			fmt.Println(headerStyle.Render("Query"))
			highlightSQL(os.Stdout, final.Query)
		}
	}
}
