package workerpool

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool limita cuántas unidades de trabajo corren a la vez en todo el proceso.
// Se construye una sola vez (main) y se comparte entre todos los lotes.
type Pool struct {
	sem      *semaphore.Weighted
	size     int64
	inFlight atomic.Int64
}

// New crea un pool con size slots. size <= 0 se normaliza a 1.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Do espera un slot libre (o la cancelación de ctx) y ejecuta fn en la goroutine llamadora.
// Devuelve error solo si no se pudo obtener el slot; fn se ejecuta a lo sumo una vez.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("workerpool: acquire slot: %w", err)
	}
	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.sem.Release(1)
	}()
	fn()
	return nil
}

// Size número de slots del pool.
func (p *Pool) Size() int { return int(p.size) }

// InFlight unidades ejecutándose en este momento.
func (p *Pool) InFlight() int { return int(p.inFlight.Load()) }
