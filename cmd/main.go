package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"jsoncompare/internal/auth"
	"jsoncompare/internal/compare"
	"jsoncompare/internal/config"
	"jsoncompare/internal/db"
	"jsoncompare/internal/logger"
	"jsoncompare/internal/migrations"
	"jsoncompare/internal/queue"
	"jsoncompare/internal/report"
	"jsoncompare/internal/server"
	"jsoncompare/internal/tree"
	"jsoncompare/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// App holds the global options and the state shared by every command.
type App struct {
	Debug   bool     `short:"d" long:"debug" description:"enable debug logging"`
	EnvFile []string `long:"env-file" description:"dotenv file to load (repeatable)"`

	Compare compareCommand `command:"compare" description:"compare two JSON files"`
	Serve   serveCommand   `command:"serve" description:"run the HTTP API"`
	Worker  workerCommand  `command:"worker" description:"run queued comparisons"`
	Migrate migrateCommand `command:"migrate" description:"manage the database schema"`
	Token   tokenCommand   `command:"token" description:"issue an API bearer token"`

	cfg    *config.Config
	stdout io.Writer
}

type compareCommand struct {
	Mode   string `short:"m" long:"mode" description:"comparison to run" choice:"structure" choice:"content" choice:"both" default:"both"`
	Format string `short:"f" long:"format" description:"report format" choice:"text" choice:"json" default:"text"`
	Args   struct {
		Left  string `positional-arg-name:"LEFT" description:"first JSON file"`
		Right string `positional-arg-name:"RIGHT" description:"second JSON file"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

func (c *compareCommand) Execute([]string) error {
	left, err := tree.ParseFile(c.Args.Left)
	if err != nil {
		return err
	}
	right, err := tree.ParseFile(c.Args.Right)
	if err != nil {
		return err
	}

	results, err := compare.Run(c.Mode, left, right)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		return report.WriteJSON(c.app.stdout, results)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(c.app.stdout)
		}
		if err := report.WriteText(c.app.stdout, res); err != nil {
			return err
		}
	}
	return nil
}

type serveCommand struct {
	app *App
}

func (c *serveCommand) Execute([]string) error {
	cfg := c.app.cfg

	if err := db.Init(cfg.DB); err != nil {
		return err
	}
	defer db.Close()

	// Without Redis the API still serves inline comparisons and documents.
	if err := queue.Init(cfg.RedisAddr); err != nil {
		slog.Warn("Task queue unavailable, stored comparisons will be rejected", "error", err)
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type workerCommand struct {
	app *App
}

func (c *workerCommand) Execute([]string) error {
	cfg := c.app.cfg

	if err := db.Init(cfg.DB); err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return worker.NewWorker(cfg.RedisAddr, cfg.WorkerConcurrency).Start(ctx)
}

type migrateCommand struct {
	Up      migrateUpCommand      `command:"up" description:"apply all pending migrations"`
	Down    migrateDownCommand    `command:"down" description:"roll back the last migration"`
	Version migrateVersionCommand `command:"version" description:"print the current schema version"`
	Force   migrateForceCommand   `command:"force" description:"set the schema version without migrating"`
}

type migrateUpCommand struct{ app *App }

func (c *migrateUpCommand) Execute([]string) error {
	return migrations.Up(c.app.cfg.DB.URL())
}

type migrateDownCommand struct{ app *App }

func (c *migrateDownCommand) Execute([]string) error {
	return migrations.Down(c.app.cfg.DB.URL())
}

type migrateVersionCommand struct{ app *App }

func (c *migrateVersionCommand) Execute([]string) error {
	version, dirty, err := migrations.Version(c.app.cfg.DB.URL())
	if err != nil {
		return err
	}

	status := "clean"
	if dirty {
		status = "dirty"
	}
	fmt.Fprintf(c.app.stdout, "Current version: %d (%s)\n", version, status)
	return nil
}

type migrateForceCommand struct {
	Args struct {
		Version string `positional-arg-name:"VERSION"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

func (c *migrateForceCommand) Execute([]string) error {
	return migrations.Force(c.app.cfg.DB.URL(), c.Args.Version)
}

type tokenCommand struct {
	Subject string        `short:"s" long:"subject" description:"token subject, recorded on comparisons" required:"yes"`
	TTL     time.Duration `long:"ttl" description:"token lifetime" default:"24h"`

	app *App
}

func (c *tokenCommand) Execute([]string) error {
	if c.app.cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	token, err := auth.GenerateToken(c.app.cfg.JWTSecret, c.Subject, c.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.app.stdout, token)
	return nil
}

func newParser(stdout io.Writer) *flags.Parser {
	app := &App{stdout: stdout}
	app.Compare.app = app
	app.Serve.app = app
	app.Worker.app = app
	app.Migrate.Up.app = app
	app.Migrate.Down.app = app
	app.Migrate.Version.app = app
	app.Migrate.Force.app = app
	app.Token.app = app

	parser := flags.NewParser(app, flags.Default)
	parser.Name = "jsoncompare"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		// compare runs offline and must not fail on server settings.
		level := os.Getenv("LOG_LEVEL")
		if _, offline := cmd.(*compareCommand); !offline {
			cfg, err := config.Load(app.EnvFile...)
			if err != nil {
				return err
			}
			app.cfg = cfg
			level = cfg.LogLevel
		}

		if app.Debug {
			level = "debug"
		}
		logger.Setup(level)

		return cmd.Execute(args)
	}
	return parser
}

func run(args []string, stdout io.Writer) error {
	_, err := newParser(stdout).ParseArgs(args)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}
}
