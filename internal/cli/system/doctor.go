package system

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/sutrr/internal/backup"
	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/models"
	"github.com/julianstephens/sutrr/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(ctx *cli.Context) error
	// warnOnly failures are reported but do not fail the command
	warnOnly bool
	// needsDB checks are skipped when the store cannot be loaded
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Conversations", run: checkConversations, needsDB: true},
	{name: "Journal entries", run: checkJournalEntries, needsDB: true},
	{name: "Check-in values", run: checkCheckinValues, needsDB: true},
	{name: "Unknown keys", run: checkUnknownKeys, needsDB: true, warnOnly: true},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone() }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func sqliteDB(ctx *cli.Context) *sql.DB {
	if s, ok := ctx.Store.(*storage.SQLiteStore); ok {
		return s.GetDB()
	}
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if _, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteDB(ctx)
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// file and memory stores have no schema
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

// readKey decodes key, treating an absent key as empty
func readKey[T any](ctx *cli.Context, key string) (T, error) {
	v, err := storage.ReadJSON[T](ctx.Store, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		var zero T
		return zero, nil
	}
	return v, err
}

func checkConversations(ctx *cli.Context) error {
	convos, err := readKey[[]models.Conversation](ctx, constants.KeyConversations)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, c := range convos {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate conversation ID found: %s", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

func checkJournalEntries(ctx *cli.Context) error {
	entries, err := readKey[[]models.JournalEntry](ctx, constants.KeyJournalEntries)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Mood == "" {
			// stored before moods were recorded; loads as Neutral
			e.Mood = models.MoodNeutral
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate journal entry ID found: %s", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func checkCheckinValues(ctx *cli.Context) error {
	values, err := readKey[models.CheckinValues](ctx, constants.KeyCheckinValues)
	if err != nil {
		return err
	}
	for category, v := range values {
		if _, err := models.ValidateCheckin(category, v); err != nil {
			return err
		}
	}
	return nil
}

func checkUnknownKeys(ctx *cli.Context) error {
	known := map[string]bool{
		constants.KeyConversations:  true,
		constants.KeyJournalEntries: true,
		constants.KeyCheckinValues:  true,
		constants.KeyFirstVisitSeen: true,
	}

	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	var unknown []string
	for _, k := range keys {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("found %d unrecognized key(s): %v", len(unknown), unknown)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}
