package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"spice-storefront/internal/config"
	"spice-storefront/internal/database"
	"spice-storefront/internal/resolver"
	"spice-storefront/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Writes a check slot to the configured tab store and reads it back.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger := zerolog.Nop()
	var store session.Store

	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to redis: %v\n", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(client, time.Minute, logger)
		fmt.Printf("Successfully connected to redis: %s\n", client.Options().Addr)

	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Schema setup failed: %v\n", err)
			os.Exit(1)
		}
		store = session.NewPostgresStore(pool, logger)
		fmt.Printf("Successfully connected to database: %s\n", cfg.Database.Database)

	default:
		fmt.Println("TAB_STORE is memory; nothing to check")
		return
	}
	defer store.Close()

	checkID := "check-" + uuid.NewString()
	seq := resolver.NewSequencer(time.Now()).Next()

	applied, err := store.Save(ctx, checkID, resolver.All, resolver.Slot{Seq: seq, FetchedAt: time.Now()})
	if err != nil || !applied {
		fmt.Fprintf(os.Stderr, "Save failed (applied=%t): %v\n", applied, err)
		os.Exit(1)
	}

	slots, err := store.Load(ctx, checkID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}
	if slots[resolver.All].Seq != seq {
		fmt.Fprintf(os.Stderr, "Read back seq %d, want %d\n", slots[resolver.All].Seq, seq)
		os.Exit(1)
	}

	removed, err := store.Prune(ctx, time.Now().Add(time.Second))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Prune failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tab store %s round trip ok (pruned %d slots)\n", cfg.Session.Store, removed)
}
