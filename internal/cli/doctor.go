package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/discovery"
	"github.com/julianstephens/slotbook/internal/keyring"
	"github.com/julianstephens/slotbook/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	bg := context.Background()

	// Check 1: Window and blocked periods
	if err := checkConfig(ctx); err != nil {
		ctx.printf("❌ Configuration: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Configuration: OK\n")
	}

	// Check 2: DB reachable
	store, err := ctx.OpenStore(bg)
	if err != nil {
		ctx.printf("❌ Database reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		defer store.Close()
		ctx.printf("✓ Database reachable: OK (%s)\n", store.Describe())
	}

	// Check 3: Schema version (only if DB is reachable)
	if store != nil {
		if err := checkSchemaVersion(bg, store); err != nil {
			ctx.printf("❌ Schema version: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}
	} else {
		ctx.printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 4: Keyring (warning only)
	if keyring.IsAvailable() {
		ctx.printf("✓ OS keyring: OK\n")
	} else {
		ctx.printf("⚠ OS keyring: WARNING\n")
		ctx.printf("   keyring unavailable; use %s for PostgreSQL credentials\n", constants.DBConnectionEnv)
	}

	// Check 5: Save endpoint (warning only)
	if endpoint, err := checkEndpoint(ctx); err != nil {
		ctx.printf("⚠ Save endpoint: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Save endpoint: OK (%s)\n", endpoint)
	}

	// Check 6: Clock/timezone sanity
	if err := checkClockTimezone(time.Now()); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *Context) error {
	return ctx.Config.Validate()
}

func checkSchemaVersion(ctx context.Context, store *storage.Store) error {
	current, latest, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema at version %d, latest is %d", current, latest)
	}
	return nil
}

func checkEndpoint(ctx *Context) (string, error) {
	if ctx.Config.Endpoint != "" {
		return ctx.Config.Endpoint, nil
	}
	endpoint, err := discovery.FindEndpoint(ctx.Lockfile())
	if errors.Is(err, discovery.ErrServerNotRunning) {
		return "", errors.New("no endpoint configured and no local `slotbook serve` running; submissions will fail")
	}
	return endpoint, err
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
