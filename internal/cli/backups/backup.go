package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/sutrr/internal/backup"
	"github.com/julianstephens/sutrr/internal/cli"
	"github.com/julianstephens/sutrr/internal/constants"
	"github.com/julianstephens/sutrr/internal/storage"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil, errors.New("backups are only supported for SQLite storage")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%.1f KB)\n", timestamp, b.Name(), sizeKB)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore, or 'latest'."`
	Yes        bool   `short:"y" help:"Restore without asking."`
}

// locate resolves the argument against the backup directory first, then
// as a path relative to the working directory
func (c *BackupRestoreCmd) locate(mgr *backup.Manager) (string, error) {
	if b, err := mgr.Find(c.BackupFile); err == nil {
		return b.Path, nil
	} else if c.BackupFile == "latest" {
		return "", err
	}

	if _, err := os.Stat(c.BackupFile); err != nil {
		return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.GetBackupDir())
	}
	absPath, err := filepath.Abs(c.BackupFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve backup path: %w", err)
	}
	return absPath, nil
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath, err := c.locate(mgr)
	if err != nil {
		return err
	}

	description := fmt.Sprintf(
		"Restore from: %s\n\nThis replaces your current database. Stop every %s process (including the TUI) first.\nA backup of the current database is made before restoring.",
		backupPath, constants.AppName)
	ok, err := ctx.Confirm(c.Yes, "Restore this backup?", description)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	// the open connection must not outlive the file swap
	ctx.Close()
	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Database restored successfully!")
	if preRestore != "" {
		fmt.Printf("  Previous database saved as %s\n", filepath.Base(preRestore))
	}
	fmt.Printf("⚠️  Restart any %s processes that were stopped for the restore.\n", constants.AppName)
	return nil
}
