package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"memory-gallery/internal/core/auth"
	"memory-gallery/internal/core/cache"
	"memory-gallery/internal/core/config"
	"memory-gallery/internal/core/database"
	"memory-gallery/internal/core/logger"
	"memory-gallery/internal/core/server"
	"memory-gallery/internal/core/storage"
	"memory-gallery/internal/domain"
	"memory-gallery/internal/repo"
	"memory-gallery/internal/service"
	"memory-gallery/internal/transport/http/handler"
	"memory-gallery/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Photo{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLDays) * 24 * time.Hour,
	}

	files, err := storage.NewDisk(cfg.Storage.Dir)
	if err != nil {
		log.Fatal("photo storage init", zap.Error(err))
	}

	var photoCache *cache.Cache
	cacheTTL := time.Duration(cfg.Cache.TTLSec) * time.Second
	if cfg.Cache.Enabled {
		photoCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("photo cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	userRepo := repo.NewUserRepo(db)
	photoRepo := repo.NewPhotoRepo(db)
	userSvc := service.NewUserService(userRepo, jwter, log)
	photoSvc := service.NewPhotoService(photoRepo, files, photoCache, cacheTTL, log)

	r := router.NewAPIEngine(router.Deps{
		Log:       log,
		JWTer:     jwter,
		RoleOf:    userSvc.RoleOf,
		Auth:      handler.NewAuthHandler(userSvc),
		Users:     handler.NewUserHandler(userSvc),
		Photos:    handler.NewPhotoHandler(photoSvc),
		CSRFCheck: cfg.Security.CSRFCheck,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("gallery api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("gallery api start FAILED", zap.Error(err))
		}
	}()
	log.Info("gallery api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("gallery api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON,
			cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
