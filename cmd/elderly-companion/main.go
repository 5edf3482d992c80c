package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/ai"
	"github.com/LeonWTW/Elderly-companion/internal/config"
	"github.com/LeonWTW/Elderly-companion/internal/database"
	httpapi "github.com/LeonWTW/Elderly-companion/internal/http"
	"github.com/LeonWTW/Elderly-companion/internal/logger"
	"github.com/LeonWTW/Elderly-companion/internal/repository"
	"github.com/LeonWTW/Elderly-companion/internal/service"
	"github.com/LeonWTW/Elderly-companion/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.Load()

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "elderly-companion")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting elderly-companion",
		zap.String("env", cfg.Env),
		zap.Bool("openai_configured", cfg.IsOpenAIConfigured()),
	)

	// 3. 数据库：DB 不可用时回退到内存 repo，便于本地联测
	var db *sql.DB
	var checkinsRepo repository.CheckinsRepository
	var profileRepo repository.ProfileRepository
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for elderly-companion")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory store", zap.Error(err))
		}
	}
	if db != nil {
		checkinsRepo = repository.NewPostgresCheckinsRepo(db, log)
		profileRepo = repository.NewPostgresProfileRepo(db, log)
		defer database.Close(db)
	} else {
		checkinsRepo = repository.NewMemoryCheckinsRepo()
		profileRepo = repository.NewMemoryProfileRepo()
	}

	// 4. Redis 上下文缓存（不可用时 service 会降级直连 DB）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	// 5. AI 客户端与签到服务
	aiClient := ai.NewClient(cfg.OpenAI, log)
	checkinSvc := service.NewCheckinService(checkinsRepo, kv, aiClient, log)

	// 6. HTTP 路由
	router := httpapi.NewRouter(log)
	router.RegisterCheckinRoutes(httpapi.NewCheckinHandler(checkinSvc, log))
	router.RegisterProfileRoutes(httpapi.NewProfileHandler(profileRepo, log))
	router.RegisterHealthRoutes()

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	// 7. 启动服务（在 goroutine 中），等待信号优雅关闭
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		log.Fatal("HTTP server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	log.Info("elderly-companion stopped")
}
