// Package mvp contiene la base común de los presentadores: vista adjunta,
// entrega de callbacks y alcance de cancelación de las operaciones en curso.
package mvp

import (
	"context"
	"sync"
)

// Dispatcher decide en qué goroutine se ejecutan los callbacks de la vista.
type Dispatcher interface {
	Dispatch(fn func())
}

// Immediate ejecuta el callback en la goroutine que lo entrega.
type Immediate struct{}

func (Immediate) Dispatch(fn func()) { fn() }

// Base estado compartido de un presentador sobre una vista V.
// El valor cero es usable (vista sin adjuntar, dispatcher inmediato).
type Base[V any] struct {
	mu         sync.Mutex
	view       V
	attached   bool
	dispatcher Dispatcher
	scope      context.Context
	cancel     context.CancelFunc
}

// SetDispatcher reemplaza el dispatcher (por defecto Immediate).
func (b *Base[V]) SetDispatcher(d Dispatcher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatcher = d
}

// Attach adjunta la vista.
func (b *Base[V]) Attach(view V) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view = view
	b.attached = true
}

// Detach cancela lo pendiente y suelta la vista: ningún callback llega después.
func (b *Base[V]) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
	var zero V
	b.view = zero
	b.attached = false
}

// Clear cancela las operaciones en curso; la vista sigue adjunta.
func (b *Base[V]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Base[V]) clearLocked() {
	if b.cancel != nil {
		b.cancel()
		b.scope, b.cancel = nil, nil
	}
}

// Track inicia una operación: el contexto devuelto se cancela cuando se cancela
// ctx o cuando el presentador hace Clear/Detach. Hay que llamar a Op.Done al terminar.
func (b *Base[V]) Track(ctx context.Context) (context.Context, *Op[V]) {
	b.mu.Lock()
	if b.scope == nil {
		b.scope, b.cancel = context.WithCancel(context.Background())
	}
	scope := b.scope
	b.mu.Unlock()

	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(scope, cancel)
	return opCtx, &Op[V]{base: b, scope: scope, release: func() {
		stop()
		cancel()
	}}
}

// View devuelve la vista adjunta para consultas síncronas (p. ej. leer los campos).
func (b *Base[V]) View() (V, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view, b.attached
}

// Deliver entrega un callback a la vista si está adjunta.
func (b *Base[V]) Deliver(fn func(V)) {
	b.mu.Lock()
	view, attached, d := b.view, b.attached, b.dispatcher
	b.mu.Unlock()
	if !attached {
		return
	}
	if d == nil {
		d = Immediate{}
	}
	d.Dispatch(func() { fn(view) })
}

// Op operación en curso de un presentador.
type Op[V any] struct {
	base    *Base[V]
	scope   context.Context
	release func()
	once    sync.Once
}

// Live indica si la operación todavía puede hablar con la vista.
func (o *Op[V]) Live() bool { return o.scope.Err() == nil }

// Deliver como Base.Deliver, pero descarta el callback si la operación fue cancelada.
func (o *Op[V]) Deliver(fn func(V)) {
	if !o.Live() {
		return
	}
	o.base.Deliver(fn)
}

// Done libera los recursos de la operación.
func (o *Op[V]) Done() { o.once.Do(o.release) }
