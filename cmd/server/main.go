/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PTO tracker HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with the save policy
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port             HTTP server port (default: 8080)
  -db               SQLite database path (default: pto.db)
                    Use ":memory:" for in-memory database
  -weekend-policy   reject | skip (default: reject)
  -conflict-policy  commit-valid | abort (default: commit-valid)
  -seed             Register the demo roster on startup
  -period           Usage period: calendar | fiscal:<month> (default: calendar)
  -allowance        Yearly PTO allowance in days, 0 = untracked (default: 0)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/pto.db"
  ./server -db=":memory:" -seed
  ./server -weekend-policy=skip -conflict-policy=abort
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-tracker/api"
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/store/sqlite"
	"github.com/warp/pto-tracker/timeoff"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "pto.db", "SQLite database path")
	weekendPolicy := flag.String("weekend-policy", string(timeoff.WeekendReject), "weekend rows on save: reject | skip")
	conflictPolicy := flag.String("conflict-policy", string(timeoff.ConflictCommitValid), "date conflicts on save: commit-valid | abort")
	seed := flag.Bool("seed", false, "register the demo roster on startup")
	period := flag.String("period", "calendar", "usage period: calendar | fiscal:<month>")
	allowance := flag.String("allowance", "0", "yearly PTO allowance in days (0 = untracked)")
	flag.Parse()

	policy, err := timeoff.ParsePolicy(*weekendPolicy, *conflictPolicy)
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}

	periods, err := generic.ParsePeriodConfig(*period)
	if err != nil {
		log.Fatalf("Invalid period: %v", err)
	}
	days, err := decimal.NewFromString(*allowance)
	if err != nil {
		log.Fatalf("Invalid allowance: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, policy)
	handler.Usage.Periods = periods
	handler.Usage.Allowance = days
	if *seed {
		if err := handler.Seed(context.Background(), false); err != nil {
			log.Printf("Warning: Failed to seed roster: %v", err)
		}
	}

	router := api.NewRouter(handler, api.Options{})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on http://localhost:%d (weekend=%s, conflict=%s)",
			*port, policy.Weekend, policy.Conflict)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[Server] Stopped")
}
