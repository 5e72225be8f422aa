// Package retry reintentos con espera exponencial.
package retry

import (
	"context"
	"time"
)

// Backoff hasta MaxRetries reintentos tras el primer intento, esperando
// BaseDelay, 2×BaseDelay, 4×BaseDelay... Sólo se reintentan los errores
// para los que Retryable devuelve true.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	Retryable  func(error) bool
	// Sleep espera d o hasta que ctx termine. Por defecto usa un timer real.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry se llama antes de cada espera (attempt empieza en 1).
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Delay espera previa al reintento número attempt (1, 2, 3...).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return b.BaseDelay << (attempt - 1)
}

// Do ejecuta fn hasta que tenga éxito, falle con un error no reintentable o se
// agoten los reintentos; en ese caso devuelve el último error.
func (b Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Value(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Value como Do para operaciones que devuelven un resultado.
func Value[T any](ctx context.Context, b Backoff, fn func(ctx context.Context) (T, error)) (T, error) {
	sleep := b.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= b.MaxRetries || b.Retryable == nil || !b.Retryable(err) || ctx.Err() != nil {
			return v, err
		}
		delay := b.Delay(attempt + 1)
		if b.OnRetry != nil {
			b.OnRetry(attempt+1, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			var zero T
			return zero, serr
		}
	}
}

// Sleep espera d respetando la cancelación de ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
