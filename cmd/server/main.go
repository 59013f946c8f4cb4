package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/filedrop/filedrop/internal/conf"
	"github.com/filedrop/filedrop/internal/file/biz"
	"github.com/filedrop/filedrop/internal/file/data"
	"github.com/filedrop/filedrop/internal/file/service"
	"github.com/filedrop/filedrop/internal/pkg/logger"
	"github.com/filedrop/filedrop/internal/pkg/mongo"
	"github.com/filedrop/filedrop/internal/server"
	"github.com/filedrop/filedrop/internal/storage"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	// Configuration errors are fatal: the process must not serve traffic
	// with a half-configured backend.
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  config.Log.Level,
		Format: config.Log.Format,
		Output: config.Log.Output,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully",
		zap.String("storage_backend", config.Storage.Backend))

	mongoClient, err := mongo.New(&config.Mongo, log)
	if err != nil {
		log.Fatal("failed to initialize mongo client", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(ctx); err != nil {
			log.Error("failed to close mongo client", zap.Error(err))
		}
	}()

	store, err := storage.New(config, log)
	if err != nil {
		log.Fatal("failed to initialize storage backend", zap.Error(err))
	}

	fileRepo := data.NewFileRepo(mongoClient, log)
	fileUseCase := biz.NewFileUseCase(store, fileRepo, config.Upload.AllowedExtensions, log)
	fileService := service.NewFileService(fileUseCase, log)

	httpServer := server.NewHTTPServer(config, log, fileService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
