package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-batch/docs"
	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	"github.com/jhoicas/Inventario-batch/internal/application/batch"
	"github.com/jhoicas/Inventario-batch/internal/application/inventory"
	"github.com/jhoicas/Inventario-batch/internal/application/item"
	"github.com/jhoicas/Inventario-batch/internal/domain/repository"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/activitylog"
	infrakafka "github.com/jhoicas/Inventario-batch/internal/infrastructure/kafka"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-batch/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/postgres"
	infrarabbit "github.com/jhoicas/Inventario-batch/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/Inventario-batch/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Inventario-batch/internal/interfaces/http"
	"github.com/jhoicas/Inventario-batch/internal/platform/observability"
	"github.com/jhoicas/Inventario-batch/internal/platform/workerpool"
	"github.com/jhoicas/Inventario-batch/pkg/config"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

const version = "1.0.0"

// stores repositorios del almacenamiento elegido por STORE_DRIVER.
type stores struct {
	items    repository.ItemRepository
	stock    repository.InventoryRepository
	activity repository.ActivityRepository
	txRunner repository.TxRunner
	close    func()
}

// @title                       Inventario Batch API
// @version                     1.0.0
// @description                 API de inventario con procesamiento por lotes concurrente.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
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
		Str("store", cfg.Store.Driver).
		Str("activity_transport", cfg.Activity.Transport).
		Int("batch_workers", cfg.Batch.Workers).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	reportUC := activity.NewUseCase(st.activity, st.items, infrapdf.NewMarotoReportGenerator())

	publisher, closePublisher, err := newPublisher(ctx, cfg, log, reportUC)
	if err != nil {
		log.Fatal().Err(err).Msg("publicador de actividad")
	}
	emitter := activity.NewEmitter(publisher, cfg.Activity.PublishTimeout, log)

	// Pool único compartido por todos los lotes del proceso.
	pool := workerpool.New(cfg.Batch.Workers)
	orch := batch.New(pool, cfg.Batch.Timeout, log)

	itemUC := item.NewUseCase(st.items, st.stock, st.txRunner, orch, emitter)
	inventoryUC := inventory.NewUseCase(st.txRunner, orch, emitter)

	var idem httpRouter.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idem = infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Inventario Batch API",
			}))
		}
	}

	// Documento OpenAPI embebido (swag), disponible aunque no exista SWAGGER_FILE.
	docs.SwaggerInfo.Version = version
	app.Get("/swagger.json", func(c *fiber.Ctx) error {
		c.Type("json")
		return c.SendString(docs.SwaggerInfo.ReadDoc())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		InventoryUC: inventoryUC,
		ActivityUC:  reportUC,
		JWTSecret:   cfg.JWT.Secret,
		Idempotency: idem,
		Log:         log,
	})

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
	// Publicaciones en vuelo antes de cerrar el broker.
	if err := emitter.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("eventos de actividad pendientes descartados")
	}
	if err := closePublisher(); err != nil {
		log.Error().Err(err).Msg("cerrar publicador de actividad")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return &stores{
			items:    m.Items(),
			stock:    m.Inventory(),
			activity: m.Activity(),
			txRunner: m.TxRunner(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		items:    postgres.NewItemRepository(pool),
		stock:    postgres.NewInventoryRepository(pool),
		activity: postgres.NewActivityRepository(pool),
		txRunner: postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}

// newPublisher con transporte "log" los eventos se registran y se ingieren en el mismo proceso;
// con kafka o rabbitmq la ingesta la hace cmd/activity-consumer.
func newPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger, uc *activity.UseCase) (activity.Publisher, func() error, error) {
	switch cfg.Activity.Transport {
	case "kafka":
		p := infrakafka.NewPublisher(infrakafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		return p, p.Close, nil
	case "rabbitmq":
		conn, ch, err := infrarabbit.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			_ = ch.Close()
			return conn.Close()
		}
		return infrarabbit.NewPublisher(ch, cfg.RabbitMQ.Exchange), closeFn, nil
	default:
		return activitylog.NewPublisher(log, uc.Ingest), func() error { return nil }, nil
	}
}
