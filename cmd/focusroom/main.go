package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/focusroom/internal/cli"
	"github.com/alexanderramin/focusroom/internal/db"
	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/kvstore"
	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/render"
	"github.com/alexanderramin/focusroom/internal/resolve"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.focusroom/focusroom.db
	dbPath := os.Getenv("FOCUSROOM_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".focusroom", "focusroom.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// Content resolution pipeline: SQLite-backed cache in front of the
	// generation service, single-flighted per item.
	genCfg := generation.LoadConfig()
	var observer generation.Observer = generation.NoopObserver{}
	if genCfg.LogCalls {
		observer = generation.NewLogObserver(os.Stderr)
	}
	genClient := generation.NewHTTPClient(genCfg, observer)
	cache := resolve.NewCache(kvstore.NewSQLiteStore(database), genCfg.CacheTTL)
	loader := resolve.NewLoader(cache, genClient, observer)

	// Plan service: remote when configured, local otherwise.
	local := planner.NewLocalService(database, uow)
	var plans planner.Service = local
	var items cli.ItemCompleter = local
	if endpoint := os.Getenv("FOCUSROOM_PLAN_ENDPOINT"); endpoint != "" {
		plans = planner.NewHTTPService(endpoint, 30*time.Second)
		items = nil
	}

	app := &cli.App{
		Plans:    plans,
		Loader:   loader,
		Renderer: render.NewDispatcher(),
		Items:    items,
		TTS:      generation.NewTTSClient(genCfg),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
