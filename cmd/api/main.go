package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	inframetrics "github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/migrations"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	devJWTSecret = "development-only-secret"
	devAdminID   = "00000000-0000-0000-0000-000000000001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacenamiento: PostgreSQL (pgx) o memoria para desarrollo.
	var txRunner inventory.TxRunner
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		store.SeedDemoCatalog()
		for _, p := range memory.DemoProducts() {
			log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("producto demo")
		}
		log.Warn().
			Str("supplier_id", memory.DemoSupplierID).
			Str("warehouse_id", memory.DemoWarehouseMain).
			Msg("almacenamiento en memoria con catálogo demo: los datos se pierden al reiniciar")
		txRunner = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.AutoMigrate {
			db := stdlib.OpenDBFromPool(pool)
			if err := migrations.Up(ctx, db); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			_ = db.Close()
			log.Info().Msg("migraciones aplicadas")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	// Eventos de dominio: NATS si está configurado.
	var publisher ports.EventPublisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		conn, err := events.Connect(cfg.NATS.URL, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("conexión a NATS")
		}
		natsPub, err := events.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("publicador NATS")
		}
		defer natsPub.Close()
		publisher = natsPub
		log.Info().Str("url", cfg.NATS.URL).Str("prefix", cfg.NATS.SubjectPrefix).Msg("eventos publicados en NATS")
	}

	// Métricas: OpenTelemetry con exportador Prometheus.
	var metrics ports.Metrics = inframetrics.Nop{}
	deps := httpRouter.RouterDeps{}
	if cfg.Metrics.Enabled {
		provider, err := inframetrics.Setup(ctx, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("proveedor de métricas")
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()

		otelMetrics, err := inframetrics.NewOTelMetrics()
		if err != nil {
			log.Fatal().Err(err).Msg("instrumentos de métricas")
		}
		metrics = otelMetrics
		deps.MetricsHandler = promhttp.Handler()
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = devJWTSecret
	}
	tokens, err := jwt.NewManager(jwtSecret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT")
	}
	if cfg.JWT.Secret == "" {
		if token, err := tokens.Sign(entity.Actor{UserID: devAdminID, Role: entity.RoleAdmin}); err == nil {
			log.Warn().Str("token", token).Msg("JWT_SECRET vacío: usando secreto de desarrollo; token admin de prueba")
		}
	}

	ledger := inventory.NewStockLedger(txRunner, publisher, metrics)
	deps.Ledger = ledger
	deps.PurchaseOrders = purchasing.NewOrderUseCase(txRunner, publisher, metrics, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	deps.Receiving = purchasing.NewReceivingUseCase(txRunner, ledger, publisher, metrics)
	deps.SalesOrders = sales.NewOrderUseCase(txRunner, publisher, metrics)
	deps.Reservation = sales.NewReservationUseCase(txRunner, ledger, publisher, metrics)
	deps.Delivery = sales.NewDeliveryUseCase(txRunner, ledger, publisher, metrics)
	deps.Tokens = tokens

	app := httpRouter.NewApp(cfg.App.Name, deps)

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
