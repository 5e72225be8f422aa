// Package events es el bus de notificaciones de la sesión: publicar/suscribir con
// reemplazo del último evento "sticky" para suscriptores tardíos.
package events

import (
	"sort"
	"sync"

	"github.com/libertsolutions/libertvendas/internal/domain/entity"
	"github.com/libertsolutions/libertvendas/pkg/logger"
)

// Topic nombre del canal de un tipo de evento.
type Topic string

// Event lo cumplen todos los eventos publicables.
type Event interface {
	Topic() Topic
}

// ── Eventos ───────────────────────────────────────────────────────────────────

const (
	TopicLoggedInUser   Topic = "logged_in_user"
	TopicSavedOrder     Topic = "saved_order"
	TopicNavigateToNext Topic = "navigate_to_next"
)

// LoggedInUserEvent el vendedor completó el login y eligió empresa.
type LoggedInUserEvent struct {
	User *entity.LoggedUser
}

func (LoggedInUserEvent) Topic() Topic { return TopicLoggedInUser }

// SavedOrderEvent se guardó un pedido.
type SavedOrderEvent struct {
	Order *entity.Order
}

func (SavedOrderEvent) Topic() Topic { return TopicSavedOrder }

// NavigateToNextEvent el paso actual del flujo terminó.
type NavigateToNextEvent struct {
	From string
}

func (NavigateToNextEvent) Topic() Topic { return TopicNavigateToNext }

// ── Bus ───────────────────────────────────────────────────────────────────────

// Handler recibe el evento en la goroutine del publicador.
type Handler func(Event)

// Bus registro de suscriptores con alcance de sesión (no es estado global).
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic]map[int]Handler
	sticky map[Topic]Event
	nextID int
	log    *logger.Logger
}

// NewBus construye el bus.
func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		subs:   make(map[Topic]map[int]Handler),
		sticky: make(map[Topic]Event),
		log:    log.Component("events"),
	}
}

// Publish entrega ev a los suscriptores actuales.
func (b *Bus) Publish(ev Event) {
	b.deliver(ev, b.handlers(ev.Topic()))
}

// PublishSticky como Publish, y además guarda ev como último valor del canal.
func (b *Bus) PublishSticky(ev Event) {
	b.mu.Lock()
	b.sticky[ev.Topic()] = ev
	b.mu.Unlock()
	b.Publish(ev)
}

// Sticky último evento sticky del canal.
func (b *Bus) Sticky(topic Topic) (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ev, ok := b.sticky[topic]
	return ev, ok
}

// RemoveSticky olvida el último valor del canal.
func (b *Bus) RemoveSticky(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sticky, topic)
}

// Subscribe registra h. Con sticky=true y un valor guardado, h lo recibe antes de volver.
// Devuelve la función para cancelar la suscripción.
func (b *Bus) Subscribe(topic Topic, h Handler, sticky bool) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h
	last, hasLast := b.sticky[topic]
	b.mu.Unlock()

	if sticky && hasLast {
		b.deliver(last, []Handler{h})
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
		})
	}
}

func (b *Bus) handlers(topic Topic) []Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, 0, len(b.subs[topic]))
	for id := range b.subs[topic] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Handler, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.subs[topic][id])
	}
	return out
}

// deliver aísla a cada suscriptor: un panic se registra y no corta la entrega.
func (b *Bus) deliver(ev Event, hs []Handler) {
	for _, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error().Str("topic", string(ev.Topic())).Interface("panic", r).Msg("suscriptor falló")
				}
			}()
			h(ev)
		}()
	}
}

// ── Ayudas tipadas ────────────────────────────────────────────────────────────

// SubscribeTo suscribe fn a los eventos de tipo E.
func SubscribeTo[E Event](b *Bus, fn func(E), sticky bool) (unsubscribe func()) {
	var zero E
	return b.Subscribe(zero.Topic(), func(ev Event) {
		if typed, ok := ev.(E); ok {
			fn(typed)
		}
	}, sticky)
}

// StickyOf último evento sticky de tipo E.
func StickyOf[E Event](b *Bus) (E, bool) {
	var zero E
	ev, ok := b.Sticky(zero.Topic())
	if !ok {
		return zero, false
	}
	typed, ok := ev.(E)
	return typed, ok
}
