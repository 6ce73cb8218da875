package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Inventario-batch/internal/platform/workerpool"
	"github.com/jhoicas/Inventario-batch/pkg/logger"
)

// DefaultTimeout barrera por defecto si no se configura BATCH_TIMEOUT.
const DefaultTimeout = 30 * time.Second

// Handler procesa una solicitud. Un error (o un panic) se convierte en un Outcome FAILED.
type Handler[R any] func(ctx context.Context, req R) (Outcome, error)

// KeyFunc agrupa solicitudes que tocan el mismo registro; "" = unidad independiente.
type KeyFunc[R any] func(req R) string

// Orchestrator reparte lotes sobre un pool compartido y espera a todas las unidades.
type Orchestrator struct {
	pool    *workerpool.Pool
	timeout time.Duration
	log     *logger.Logger
	tracer  trace.Tracer
}

// New crea el orquestador. El pool se inyecta para que todos los lotes compartan el mismo límite.
func New(pool *workerpool.Pool, timeout time.Duration, log *logger.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		pool:    pool,
		timeout: timeout,
		log:     log,
		tracer:  otel.Tracer("github.com/jhoicas/Inventario-batch/batch"),
	}
}

// Run ejecuta el lote: fan-out de una unidad por grupo de llave sobre el pool, barrera completa
// con timeout y reensamblado por índice. Las solicitudes con la misma llave se procesan en
// orden de entrada dentro de una sola unidad; llaves distintas corren en paralelo.
func Run[R any](ctx context.Context, o *Orchestrator, name string, reqs []R, key KeyFunc[R], h Handler[R]) Result {
	if len(reqs) == 0 {
		return Result{Aggregate: AggregateInvalid}
	}

	batchID := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, "batch."+name, trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.Int("batch.size", len(reqs)),
	))
	defer span.End()

	log := logger.FromZerolog(o.log.With().
		Str("batch_id", batchID).
		Str("operation", name).
		Logger())

	bctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	groups := groupByKey(reqs, key)
	outcomes := make([]Outcome, len(reqs))
	var fault atomic.Bool
	var wg sync.WaitGroup

	for _, idxs := range groups {
		wg.Add(1)
		go func(idxs []int) {
			defer wg.Done()
			err := o.pool.Do(bctx, func() {
				for _, i := range idxs {
					outcomes[i] = runUnit(bctx, log, h, reqs[i])
				}
			})
			if err != nil {
				fault.Store(true)
				log.Error().Err(err).Ints("indexes", idxs).Msg("no se pudo despachar la unidad")
			}
		}(idxs)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-bctx.Done():
		// Las unidades pendientes siguen escribiendo en outcomes, que ya no se lee.
		log.Error().Err(bctx.Err()).Dur("timeout", o.timeout).Msg("barrera del lote no completada")
		span.SetStatus(codes.Error, "barrier timeout")
		return Result{Aggregate: AggregateInternal}
	}

	if fault.Load() || bctx.Err() != nil {
		span.SetStatus(codes.Error, "dispatch fault")
		return Result{Aggregate: AggregateInternal}
	}

	agg := aggregate(outcomes)
	span.SetAttributes(attribute.String("batch.aggregate", string(agg)))
	log.Info().
		Int("size", len(reqs)).
		Int("units", len(groups)).
		Str("aggregate", string(agg)).
		Msg("lote procesado")

	return Result{Aggregate: agg, Outcomes: outcomes}
}

// runUnit aísla una solicitud: errores y panics quedan como FAILED sin afectar al resto.
func runUnit[R any](ctx context.Context, log *logger.Logger, h Handler[R], req R) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic en unidad del lote")
			out = Failed(fmt.Sprint(r))
		}
	}()

	res, err := h(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("unidad del lote fallida")
		return Failed(err.Error())
	}
	if res.Status != StatusSuccess && res.Status != StatusFailed {
		return Failed("resultado de unidad inválido")
	}
	return res
}

// groupByKey devuelve los índices agrupados en orden de primera aparición.
func groupByKey[R any](reqs []R, key KeyFunc[R]) [][]int {
	groups := make([][]int, 0, len(reqs))
	pos := make(map[string]int)
	for i, r := range reqs {
		k := ""
		if key != nil {
			k = key(r)
		}
		if k == "" {
			groups = append(groups, []int{i})
			continue
		}
		if g, ok := pos[k]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		pos[k] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}
