package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"tienda/config"
	logs "tienda/internal/infra/log"
	"tienda/internal/infra/persistence/migrations"
	"tienda/internal/infra/persistence/postgres"
	"tienda/internal/util"
)

// Supported subcommands:
// - up:     Apply every pending migration
// - status: Print applied and pending migrations
// - down:   Roll back the latest migration, or down to -target

const defaultTimeout = 2 * time.Minute

type migrateFlags struct {
	Up     commandFlags
	Status commandFlags
	Down   downFlags
}

type commandFlags struct {
	cmd     *flag.FlagSet
	timeout *time.Duration
}

type downFlags struct {
	commandFlags
	target *int64
}

func newCommandFlags(name string) commandFlags {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)

	return commandFlags{
		cmd:     cmd,
		timeout: cmd.Duration("timeout", defaultTimeout, "Maximum time the command may run"),
	}
}

func main() {
	flags := migrateFlags{
		Up:     newCommandFlags("up"),
		Status: newCommandFlags("status"),
		Down:   downFlags{commandFlags: newCommandFlags("down")},
	}
	flags.Down.target = flags.Down.cmd.Int64("target", 0, "Roll back to this version instead of only the latest")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := runSubcommand(context.Background(), &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSubcommand(ctx context.Context, flags *migrateFlags) error {
	switch os.Args[1] {
	case "up":
		return handle(ctx, flags.Up, func(ctx context.Context, runner *migrations.Runner) error {
			return runner.Up(ctx)
		})
	case "status":
		return handle(ctx, flags.Status, func(ctx context.Context, runner *migrations.Runner) error {
			return runner.Status(ctx)
		})
	case "down":
		return handle(ctx, flags.Down.commandFlags, func(ctx context.Context, runner *migrations.Runner) error {
			return runner.Down(ctx, *flags.Down.target)
		})
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handle(ctx context.Context, flags commandFlags, run func(context.Context, *migrations.Runner) error) error {
	if err := flags.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrapf(err, "failed to parse %s flags", flags.cmd.Name())
	}

	// The signing secret is not needed here, so the config is not validated.
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	defer sqlDB.Close()

	runner, err := migrations.NewRunner(sqlDB, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *flags.timeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx, runner); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Migration command finished",
		slog.String("command", flags.cmd.Name()),
		slog.String("elapsed", util.FormatDuration(time.Since(start))),
	)

	return nil
}

func printUsage() {
	fmt.Println("Usage: migrate <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  up        Apply every pending migration")
	fmt.Println("  status    Print applied and pending migrations")
	fmt.Println("  down      Roll back the latest migration (-target N rolls back to version N)")
	fmt.Println("")
	fmt.Println("Use 'migrate <command> -h' for more information about a command.")
}
