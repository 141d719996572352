package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"daily-checklist/internal/cli"
	"daily-checklist/internal/config"
	"daily-checklist/internal/model"
	"daily-checklist/internal/repository"
	"daily-checklist/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	db, err := repository.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Printf("db: %v", err)
		return 1
	}
	defer repository.CloseDB(db)

	var defaults []model.Template
	if cfg.CatalogFile != "" {
		defaults, err = service.LoadTemplatesFile(cfg.CatalogFile)
		if err != nil {
			log.Printf("catalog: %v", err)
			return 1
		}
	}

	kv := repository.NewKVRepository(db)
	archive := repository.NewArchiveRepository(db)

	taskSvc := service.NewTaskService(kv, cfg.DefaultCategory)
	catalogSvc := service.NewCatalogService(kv, defaults, cfg.DefaultCategory)
	rolloverSvc := service.NewRolloverService(kv, taskSvc, catalogSvc, archive, cfg.Location)
	categorySvc := service.NewCategoryService(taskSvc, catalogSvc)

	return cli.Execute(ctx, &cli.App{
		Config:     cfg,
		Tasks:      taskSvc,
		Catalog:    catalogSvc,
		Rollover:   rolloverSvc,
		Categories: categorySvc,
		Archive:    archive,
	}, os.Args[1:])
}
