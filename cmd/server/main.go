package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobledger/internal/config"
	"github.com/ignatzorin/jobledger/internal/db"
	"github.com/ignatzorin/jobledger/internal/goroutine"
	httpHandlers "github.com/ignatzorin/jobledger/internal/http/handlers"
	httpRouter "github.com/ignatzorin/jobledger/internal/http/router"
	"github.com/ignatzorin/jobledger/internal/ledger"
	"github.com/ignatzorin/jobledger/internal/ledger/memstore"
	"github.com/ignatzorin/jobledger/internal/ledger/pgstore"
	"github.com/ignatzorin/jobledger/internal/logger"
	"github.com/ignatzorin/jobledger/internal/service"
	"github.com/ignatzorin/jobledger/internal/usecase/application"
	"github.com/ignatzorin/jobledger/internal/usecase/job"
	"github.com/ignatzorin/jobledger/internal/usecase/payment"
	"github.com/ignatzorin/jobledger/internal/usecase/profile"
	"github.com/ignatzorin/jobledger/internal/usecase/scout"
	"github.com/ignatzorin/jobledger/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logger.Init(cfg.Env)

	// Хранилище: PostgreSQL при заданном DATABASE_URL, иначе in-memory.
	var store ledger.Store
	var dbConn *sqlx.DB
	if cfg.DatabaseURL != "" {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}
		store = pgstore.New(dbConn)
	} else {
		logger.Log.Warn("main: DATABASE_URL не задан, используется in-memory хранилище")
		store = memstore.New()
	}

	// Вебсокеты: хаб раздаёт события движка подключённым клиентам.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(tokenManager)

	// Операции движка.
	createProfile := profile.NewCreateProfileUseCase(store, hub)
	updateProfile := profile.NewUpdateProfileUseCase(store, hub)
	attachNFT := profile.NewAttachNFTMintUseCase(store, hub)
	createJob := job.NewCreateJobUseCase(store, hub)
	closeJob := job.NewCloseJobUseCase(store, hub)
	applyToJob := application.NewApplyToJobUseCase(store, hub)
	updateStatus := application.NewUpdateStatusUseCase(store, hub)
	sendScout := scout.NewSendScoutOfferUseCase(store, hub, cfg.ScoutOfferTTL)
	respondScout := scout.NewRespondToScoutUseCase(store, hub)
	processPayment := payment.NewProcessPaymentUseCase(store, hub)
	completePayment := payment.NewCompletePaymentUseCase(store, hub)
	refundPayment := payment.NewRefundPaymentUseCase(store, hub)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Auth:        httpHandlers.NewAuthHandler(authService),
		Profile:     httpHandlers.NewProfileHandler(store, createProfile, updateProfile, attachNFT),
		Job:         httpHandlers.NewJobHandler(store, createJob, closeJob),
		Application: httpHandlers.NewApplicationHandler(store, applyToJob, updateStatus),
		Scout:       httpHandlers.NewScoutHandler(store, sendScout, respondScout),
		Payment:     httpHandlers.NewPaymentHandler(store, processPayment, completePayment, refundPayment),
		Ledger:      httpHandlers.NewLedgerHandler(store),
		Health:      httpHandlers.NewHealthHandler(dbConn),
		WS:          httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, h, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
