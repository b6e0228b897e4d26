package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/logger"
	"bookshelf/internal/response"
	"bookshelf/internal/server"
	"bookshelf/internal/storage/books"
)

type CLI struct {
	Config string `help:"Config file (yaml, toml or json). Defaults to $BOOKSHELF_CONFIG." type:"path"`
	Bind   string `help:"Address to listen on, overrides bind_addr."`
	DB     string `name:"db" help:"SQLite database file, overrides database.path." type:"path"`
	Debug  bool   `help:"Show error details in responses."`
}

func parseCLI(args []string) (*CLI, error) {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("bookshelf"),
		kong.Description("Personal book tracking web app."),
		kong.UsageOnError(),
	)
	if err != nil {
		return nil, err
	}

	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}

	return &cli, nil
}

// apply lets command line flags win over the config file and environment.
func (c *CLI) apply(cfg *config.Config) {
	if c.Bind != "" {
		cfg.BindAddr = c.Bind
	}
	if c.DB != "" {
		cfg.Database.Path = c.DB
		cfg.Database.URL = ""
	}
	if c.Debug {
		cfg.DebugMode = true
	}
}

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	cli, err := parseCLI(os.Args[1:])
	if err != nil {
		slog.Error(err.Error())
		os.Exit(2)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		slog.Error("Invalid configuration: " + err.Error())
		os.Exit(1)
	}
	cli.apply(cfg)

	lvl, _ := cfg.LogLevel()
	err = logger.SetupSLog(lvl, cfg.Log.Format, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error("Failed to set up logging: " + err.Error())
		os.Exit(1)
	}

	ctx := context.Background()

	br, closeDB, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open database: " + err.Error())
		os.Exit(1)
	}

	if err := br.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to initialize database: " + err.Error())
		closeDB()
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(server.AccessLog(slog.Default()))
	r.Use(middleware.Recoverer)

	r.Mount("/", server.Handler(
		br,
		catalog.NewGoogleBooks(cfg.Catalog, slog.Default()),
		&response.Responder{DebugMode: cfg.DebugMode},
		slog.Default(),
	))

	slog.Info("Listening on " + cfg.BindAddr)
	err = http.ListenAndServe(cfg.BindAddr, r)
	closeDB()
	slog.Error("aborting: " + err.Error())
	os.Exit(1)
}

func openRepository(ctx context.Context, cfg *config.Config) (books.Repository, func(), error) {
	if cfg.Database.URL != "" {
		pcfg, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}

		pcfg.ConnConfig.Tracer = logger.NewPGXTracer(slog.Default())

		pg, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, nil, err
		}

		slog.Info("Using postgres database")
		return books.NewPGXRepository(pg, slog.Default()), pg.Close, nil
	}

	db, err := books.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Using sqlite database " + cfg.Database.Path)
	return books.NewSQLiteRepository(db, slog.Default()), func() { _ = db.Close() }, nil
}
