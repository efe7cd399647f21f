package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"riftarena.io/internal/persistence/archive"
	"riftarena.io/internal/persistence/matchdb"
	"riftarena.io/internal/sim/arena"
	"riftarena.io/internal/sim/tuning"
	"riftarena.io/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite match index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	cfg := arena.ConfigFromTuning(tune)

	// Match read-model: sqlite index + zstd archive. Neither is on the
	// sim path; rooms enqueue summaries and move on.
	var sinks multiMatchSink
	var db *matchdb.Store
	if !*disableDB {
		db, err = matchdb.Open(filepath.Join(*dataDir, "index", "matches.db"))
		if err != nil {
			logger.Fatalf("open match index: %v", err)
		}
		defer db.Close()
		sinks = append(sinks, db)
	}
	sinks = append(sinks, archiveSink{dataDir: *dataDir, log: logger})

	dir := arena.NewDirectory(cfg, sinks, logger)

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m := dir.Metrics()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP riftarena_rooms Current number of rooms.\n")
		fmt.Fprintf(rw, "# TYPE riftarena_rooms gauge\n")
		fmt.Fprintf(rw, "riftarena_rooms %d\n", m.Rooms)

		fmt.Fprintf(rw, "# HELP riftarena_rooms_playing Rooms currently in a match.\n")
		fmt.Fprintf(rw, "# TYPE riftarena_rooms_playing gauge\n")
		fmt.Fprintf(rw, "riftarena_rooms_playing %d\n", m.RoomsPlaying)

		fmt.Fprintf(rw, "# HELP riftarena_connections Connections joined to a room.\n")
		fmt.Fprintf(rw, "# TYPE riftarena_connections gauge\n")
		fmt.Fprintf(rw, "riftarena_connections %d\n", m.Connections)
	})
	mux.HandleFunc("/status", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		resp := struct {
			Metrics arena.Metrics      `json:"metrics"`
			Rooms   []arena.RoomInfo   `json:"rooms"`
			Recent  []matchdb.MatchRow `json:"recent_matches,omitempty"`
		}{
			Metrics: dir.Metrics(),
			Rooms:   dir.Rooms(),
		}
		if db != nil {
			if recent, err := db.RecentMatches(10); err == nil {
				resp.Recent = recent
			}
		}
		_ = json.NewEncoder(rw).Encode(resp)
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(dir, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
		dir.Shutdown()
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// multiMatchSink fans a summary out to every configured sink.
type multiMatchSink []arena.MatchSink

func (m multiMatchSink) RecordMatch(s arena.MatchSummary) error {
	for _, sink := range m {
		_ = sink.RecordMatch(s)
	}
	return nil
}

// archiveSink adapts the zstd match archive to the MatchSink interface.
type archiveSink struct {
	dataDir string
	log     *log.Logger
}

func (a archiveSink) RecordMatch(s arena.MatchSummary) error {
	if _, err := archive.WriteMatch(a.dataDir, s); err != nil {
		a.log.Printf("archive match %s: %v", s.Code, err)
		return err
	}
	return nil
}
