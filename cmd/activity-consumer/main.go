// Command activity-consumer ingiere los eventos de actividad publicados por la API
// (Kafka o RabbitMQ según ACTIVITY_TRANSPORT) en el historial de PostgreSQL.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/Inventario-batch/internal/application/activity"
	infrakafka "github.com/jhoicas/Inventario-batch/internal/infrastructure/kafka"
	"github.com/jhoicas/Inventario-batch/internal/infrastructure/postgres"
	infrarabbit "github.com/jhoicas/Inventario-batch/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/Inventario-batch/internal/platform/observability"
	"github.com/jhoicas/Inventario-batch/pkg/config"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Telemetry.ServiceName += "-consumer"
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrar esquema")
		}
	}

	uc := activity.NewUseCase(postgres.NewActivityRepository(pool), postgres.NewItemRepository(pool), nil)

	log.Info().Str("transport", cfg.Activity.Transport).Msg("iniciando consumidor de actividad")

	switch cfg.Activity.Transport {
	case "rabbitmq":
		err = runRabbit(ctx, cfg, log, uc)
	case "kafka":
		err = runKafka(ctx, cfg, log, uc)
	default:
		log.Error().Msg("ACTIVITY_TRANSPORT=log no requiere consumidor; use kafka o rabbitmq")
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumidor detenido")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cerrar exportador de trazas")
	}
	log.Info().Msg("consumidor detenido")
}

func runKafka(ctx context.Context, cfg *config.Config, log *logger.Logger, uc *activity.UseCase) error {
	c := infrakafka.NewConsumer(infrakafka.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID), uc.Ingest, log)
	defer c.Close()
	return c.Run(ctx)
}

func runRabbit(ctx context.Context, cfg *config.Config, log *logger.Logger, uc *activity.UseCase) error {
	conn, ch, err := infrarabbit.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer ch.Close()
	return infrarabbit.NewSubscriber(ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, uc.Ingest, log).Run(ctx)
}
