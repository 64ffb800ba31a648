package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	web "wellness/internal/adapters/http"
	selectionStore "wellness/internal/adapters/selection"
	"wellness/internal/adapters/storage"
	absenceStore "wellness/internal/adapters/storage/absence"
	accountStore "wellness/internal/adapters/storage/account"
	athleteStore "wellness/internal/adapters/storage/athlete"
	catalogStore "wellness/internal/adapters/storage/catalog"
	wellnessStore "wellness/internal/adapters/storage/wellness"
	"wellness/internal/adapters/token"
	"wellness/internal/application/orchestrators"
	"wellness/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.IsProduction() && (cfg.JWTSecret == "dev_jwt_secret" || cfg.CookieSecret == "dev_cookie_secret") {
		log.Fatal("WELLNESS_JWT_SECRET and WELLNESS_COOKIE_SECRET must be set in production")
	}

	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	stores := &web.Stores{
		AccountStore: accountStore.NewSQLiteStore(db),
		AthleteStore: athleteStore.NewSQLiteStore(db),
		RecordStore:  wellnessStore.NewSQLiteStore(db),
		AbsenceStore: absenceStore.NewSQLiteStore(db),
		CatalogStore: catalogStore.NewSQLiteStore(db),
	}

	// Bootstrap accounts, catalogs and a demo roster (idempotent)
	seedDeps := orchestrators.SeedBaselineDeps{
		AccountStore: stores.AccountStore,
		AthleteStore: stores.AthleteStore,
		CatalogStore: stores.CatalogStore,
	}
	seedInput := orchestrators.SeedBaselineInput{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		AppName:       cfg.AppName,
	}
	if err := orchestrators.ExecuteSeedBaseline(context.Background(), seedInput, seedDeps); err != nil {
		log.Fatalf("failed to seed baseline data: %v", err)
	}

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to build token codec: %v", err)
	}

	mux := web.NewMux(cfg, stores, codec, selectionStore.NewStore())

	log.Printf("%s %s starting on %s (env=%s)", cfg.AppName, version, cfg.Addr, cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
