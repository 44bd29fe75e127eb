// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"tienda/internal/errors"
)

//go:embed *.sql
var FS embed.FS

const (
	dialect = "postgres"
	rootDir = "."
)

// Seams for exercising the runner without a database.
var (
	gooseUp     = goose.UpContext
	gooseStatus = goose.StatusContext
	gooseDown   = goose.DownContext
	gooseDownTo = goose.DownToContext
)

var setupOnce sync.Once
var setupErr error

func setup(logger *slog.Logger) error {
	setupOnce.Do(func() {
		goose.SetBaseFS(FS)
		goose.SetLogger(&gooseLogger{logger: logger})
		setupErr = goose.SetDialect(dialect)
	})

	return errors.Wrap(setupErr, "configure goose")
}

// Runner applies and inspects the embedded migrations against one database.
type Runner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunner builds a Runner over an open connection pool.
func NewRunner(db *sql.DB, logger *slog.Logger) (*Runner, error) {
	if db == nil {
		return nil, errors.New("nil database provided")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := setup(logger); err != nil {
		return nil, err
	}

	return &Runner{db: db, logger: logger}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Applying migrations")

	if err := gooseUp(ctx, r.db, rootDir); err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	r.logger.InfoContext(ctx, "Migrations applied")

	return nil
}

// Status prints applied and pending migrations through the goose logger.
func (r *Runner) Status(ctx context.Context) error {
	if err := gooseStatus(ctx, r.db, rootDir); err != nil {
		return errors.Wrap(err, "migration status")
	}

	return nil
}

// Down rolls back the latest migration, or down to targetVersion when it is positive.
func (r *Runner) Down(ctx context.Context, targetVersion int64) error {
	if targetVersion > 0 {
		r.logger.InfoContext(ctx, "Rolling back migrations", slog.Int64("target", targetVersion))
		if err := gooseDownTo(ctx, r.db, rootDir, targetVersion); err != nil {
			return errors.Wrapf(err, "rollback to version %d", targetVersion)
		}

		return nil
	}

	r.logger.InfoContext(ctx, "Rolling back latest migration")
	if err := gooseDown(ctx, r.db, rootDir); err != nil {
		return errors.Wrap(err, "rollback latest migration")
	}

	return nil
}

// gooseLogger routes goose output into slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
	os.Exit(1)
}
