package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/giftconnect/giftconnect-backend/pkg/config"
	"github.com/giftconnect/giftconnect-backend/pkg/db"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
}

// command is one -cmd value. Offline commands never open the database.
type command struct {
	offline bool
	run     func(ctx context.Context, opts options, conn *sql.DB, dialect string) error
}

var commands = map[string]command{
	"create": {offline: true, run: func(_ context.Context, opts options, _ *sql.DB, _ string) error {
		if opts.name == "" {
			return fmt.Errorf("-name is required for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil
	}},
	"validate": {offline: true, run: func(_ context.Context, opts options, _ *sql.DB, _ string) error {
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Println("migrations valid")
		return nil
	}},
	"up":     {run: gooseCommand("up")},
	"down":   {run: gooseCommand("down")},
	"status": {run: gooseCommand("status")},
	"version": {run: func(ctx context.Context, opts options, conn *sql.DB, dialect string) error {
		if opts.version == "" {
			return fmt.Errorf("-version is required for version")
		}
		return migrate.MigrateToVersion(ctx, conn, dialect, opts.dir, opts.version)
	}},
}

func gooseCommand(name string) func(context.Context, options, *sql.DB, string) error {
	return func(ctx context.Context, opts options, conn *sql.DB, dialect string) error {
		return migrate.Run(ctx, conn, dialect, opts.dir, name)
	}
}

func commandNames() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	var opts options
	cmdName := flag.String("cmd", "up", "migration command: "+commandNames())
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory")
	flag.StringVar(&opts.name, "name", "", "migration name (create)")
	flag.StringVar(&opts.version, "version", "", "target version YYYYMMDDHHMMSS (version)")
	flag.Parse()

	cmd, ok := commands[*cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown -cmd %q (want %s)\n", *cmdName, commandNames())
		os.Exit(2)
	}

	cfg, err := config.Load()
	exitOn(context.Background(), logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmdName,
		"dir": opts.dir,
	})

	if cmd.offline {
		exitOn(ctx, logg, *cmdName, cmd.run(ctx, opts, nil, ""))
		return
	}

	if !cfg.Storage.UsesSQL() {
		fmt.Fprintf(os.Stderr, "-cmd=%s requires %s=%s\n", *cmdName, config.EnvStorageBackend, config.StorageBackendSQL)
		os.Exit(2)
	}

	client, err := db.New(ctx, cfg.DB, logg)
	exitOn(ctx, logg, "open database", err)
	defer client.Close()

	conn, err := client.SQL()
	exitOn(ctx, logg, "open database", err)

	logg.Info(ctx, "running migration command")
	if err := cmd.run(ctx, opts, conn, migrate.DialectFor(cfg.DB.Driver)); err != nil {
		client.Close()
		exitOn(ctx, logg, *cmdName, err)
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "step", step), "migrate failed", err)
	os.Exit(1)
}
