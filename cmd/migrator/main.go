// Command migrator applies the SQL migrations for the postgres employee store.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/UnknownOlympus/tyche/internal/config"
	"github.com/UnknownOlympus/tyche/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose"
)

func main() {
	dir := flag.String("dir", "migrations", "Directory holding goose SQL migrations")
	down := flag.Bool("down", false, "Roll back the latest migration instead of applying")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(),
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}

	migrate := goose.Up
	if *down {
		migrate = goose.Down
	}
	if err := migrate(dtb, *dir); err != nil {
		log.Fatal(err)
	}
	_ = dtb.Close()
	dbpool.Close()

	log.Println("✅ Migrations applied successfully")
}
