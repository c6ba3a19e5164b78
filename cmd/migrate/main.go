package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"phonebook/pkg/config"
	"phonebook/pkg/logger"
	"phonebook/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the sql-migrate files")
	down := flag.Bool("down", false, "roll back instead of applying")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		log.Error("cannot connect to db", "error", err)
		os.Exit(1)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: *dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("cannot get db instance", "error", err)
		os.Exit(1)
	}

	direction := migrate.Up
	if *down {
		direction = migrate.Down
	}

	total, err := migrate.Exec(sqlDB, "postgres", migrations, direction)
	if err != nil {
		log.Error("cannot execute migration", "error", err)
		os.Exit(1)
	}

	log.Info("applied migrations", "total", total, "down", *down)
}
