package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/studentbook/studentbook/internal/repository"
	"github.com/studentbook/studentbook/internal/repository/jsonrepo"
	"github.com/studentbook/studentbook/internal/repository/sqlrepo"
	"github.com/studentbook/studentbook/pkg/config"
	"github.com/studentbook/studentbook/pkg/logger"
)

func main() {
	flags := pflag.NewFlagSet("studentbook", pflag.ExitOnError)
	flags.String("repo", "", "storage backend: json, sqlite or mysql")
	flags.String("json-file", "", "path of the json store")
	flags.String("sqlite-file", "", "path of the sqlite database")
	flags.String("host", "", "mysql server host")
	flags.Int("port", 0, "mysql server port")
	flags.String("database", "", "mysql database name")
	flags.String("user", "", "mysql user")
	flags.String("password", "", "mysql password")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Repo.Valid() {
		fmt.Fprintf(os.Stderr, "invalid repository kind %q; use 'json', 'sqlite', or 'mysql'\n", cfg.Repo)
		os.Exit(1)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	var repo repository.Repo
	switch cfg.Repo {
	case config.RepoJSON:
		repo, err = jsonrepo.New(cfg.JSON.Path, logr)
	case config.RepoSQLite:
		var db = mustOpen(sqlrepo.OpenSQLite(cfg.SQLite.Path))
		repo, err = sqlrepo.New(db, sqlrepo.DialectSQLite, logr)
	case config.RepoMySQL:
		var db = mustOpen(sqlrepo.OpenMySQL(cfg.MySQL))
		repo, err = sqlrepo.New(db, sqlrepo.DialectMySQL, logr)
	}
	if err != nil {
		logr.Sugar().Fatalw("failed to open repository", "kind", cfg.Repo, "error", err)
	}
	defer repo.Close() //nolint:errcheck

	settings, err := repo.GetSettings(context.Background())
	if err != nil {
		logr.Sugar().Fatalw("failed to verify seed settings", "error", err)
	}

	logr.Sugar().Infow("repository ready",
		"kind", cfg.Repo,
		"settings", len(settings),
		"env", cfg.Env,
	)
}

func mustOpen[T any](db T, err error) T {
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	return db
}
