package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/slotbook/internal/backup"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/storage"
	"github.com/julianstephens/slotbook/internal/timegrid"
)

var errNoBackups = errors.New("backups are only available for the SQLite bookings database")

type BookingsCmd struct {
	List    BookingsListCmd    `cmd:"" help:"List saved bookings." default:"withargs"`
	Backup  BookingsBackupCmd  `cmd:"" help:"Back up the bookings database."`
	Backups BookingsBackupsCmd `cmd:"" help:"List bookings database backups."`
	Restore BookingsRestoreCmd `cmd:"" help:"Restore the bookings database from a backup."`
}

// BookingsListCmd lists saved bookings straight from the store.
type BookingsListCmd struct {
	From string `help:"First date to include (YYYY-MM-DD)."`
	To   string `help:"Last date to include (YYYY-MM-DD)."`
}

func (c *BookingsListCmd) Run(ctx *Context) error {
	for _, d := range []string{c.From, c.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(constants.DateFormat, d); err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", d)
		}
	}

	bg := context.Background()
	store, err := ctx.OpenStore(bg)
	if err != nil {
		return err
	}
	defer store.Close()

	bookings, err := store.ListBookings(bg, storage.Filter{From: c.From, To: c.To})
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		ctx.println("No bookings found")
		return nil
	}

	ctx.println("Bookings:")
	for _, b := range bookings {
		ctx.printf("  %s  %-22s  batch %s  saved %s\n",
			b.Date,
			timegrid.FormatRange(b.StartMin, b.EndMin),
			b.BatchID,
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return nil
}

type BookingsBackupCmd struct{}

func (c *BookingsBackupCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create(context.Background())
	if err != nil {
		return err
	}
	ctx.printf("✓ Backup created: %s\n", path)
	return nil
}

type BookingsBackupsCmd struct{}

func (c *BookingsBackupsCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.printf("No backups found in %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Backups in %s:\n", mgr.Dir())
	for _, b := range backups {
		ctx.printf("  %s  %s  %d KB\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Path, b.Size/1024)
	}
	return nil
}

type BookingsRestoreCmd struct {
	Path string `arg:"" optional:"" help:"Backup file to restore. Defaults to the newest backup." type:"path"`
}

func (c *BookingsRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.Path
	if path == "" {
		backups, err := mgr.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return fmt.Errorf("no backups found in %s", mgr.Dir())
		}
		path = backups[0].Path
	}

	previous, err := mgr.Restore(context.Background(), path)
	if err != nil {
		return err
	}
	if previous != "" {
		ctx.printf("Previous database saved to %s\n", previous)
	}
	ctx.printf("✓ Restored bookings from %s\n", path)
	return nil
}

func backupManager(ctx *Context) (*backup.Manager, error) {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return nil, err
	}
	if mgr == nil {
		return nil, errNoBackups
	}
	return mgr, nil
}
