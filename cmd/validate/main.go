// Command validate probes the deployment setup: environment
// variables, database connectivity, and the expected tables. Exit
// code 1 when any required check fails.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"ecommerce-edge/internal/config"
	"ecommerce-edge/internal/store"
)

type report struct {
	errors   int
	warnings int
}

func (r *report) success(msg string) { fmt.Printf("✓ %s\n", msg) }

func (r *report) failure(msg string) {
	fmt.Printf("✗ %s\n", msg)
	r.errors++
}

func (r *report) warning(msg string) {
	fmt.Printf("! %s\n", msg)
	r.warnings++
}

func section(title string) {
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("─", len([]rune(title))))
}

func main() {
	cfg := config.GetConfig()
	r := &report{}

	fmt.Println("Setup Validation - Order Edge Service")

	section("Environment Variables")
	if cfg.Store.DBDsn != "" {
		r.success("DATABASE_DSN")
	} else {
		r.failure("DATABASE_DSN (required)")
	}
	optional := []struct {
		name  string
		value string
	}{
		{"SENDGRID_API_KEY", cfg.Service.MailAPIKey},
		{"SITE_URL", os.Getenv("SITE_URL")},
		{"REDIS_ADDR", cfg.RateLimit.RedisAddr},
	}
	for _, env := range optional {
		if env.value != "" {
			r.success(env.name)
		} else {
			r.warning(env.name + " (optional)")
		}
	}

	section("Database Connection")
	if cfg.Store.DBDsn == "" {
		r.warning("Skipping connection test (missing DATABASE_DSN)")
	} else {
		validateDatabase(cfg, r)
	}

	section("Summary")
	if r.errors == 0 && r.warnings == 0 {
		fmt.Println("\n✓ Setup validated successfully!")
	} else {
		fmt.Printf("\nErrors: %d\n", r.errors)
		fmt.Printf("Warnings: %d\n", r.warnings)
		if r.errors > 0 {
			fmt.Println("\nPlease fix errors before proceeding.")
			os.Exit(1)
		}
	}
}

func validateDatabase(cfg config.Config, r *report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.NewStore(cfg.Store)
	if err != nil {
		r.failure(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		r.failure(fmt.Sprintf("Ping failed: %v", err))
		return
	}
	r.success("Connection")

	for _, table := range []string{"profiles", "products", "orders", "order_items", "order_events"} {
		if err := db.TableProbe(ctx, table); err != nil {
			r.failure(fmt.Sprintf("Table %s: %v", table, err))
		} else {
			r.success("Table " + table)
		}
	}
}
