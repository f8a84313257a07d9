package notify

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Hub diffuse un événement typé à tous les abonnés, de façon synchrone et dans
// l'ordre d'abonnement. Un abonné arrivé après coup ne voit pas les anciens
// événements.
type Hub[E any] struct {
	name      string
	mu        sync.RWMutex
	nextID    int
	listeners []listener[E]
}

type listener[E any] struct {
	id int
	fn func(E)
}

func NewHub[E any](name string) *Hub[E] {
	return &Hub[E]{name: name}
}

// Subscribe enregistre fn et retourne la fonction de désabonnement
func (h *Hub[E]) Subscribe(fn func(E)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listener[E]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub[E]) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.listeners {
		if l.id == id {
			h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Publish appelle chaque abonné ; un abonné qui panique est journalisé et
// n'empêche pas les suivants d'être notifiés.
func (h *Hub[E]) Publish(e E) {
	h.mu.RLock()
	snapshot := make([]listener[E], len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.RUnlock()

	for _, l := range snapshot {
		h.deliver(l, e)
	}
}

func (h *Hub[E]) deliver(l listener[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("hub", h.name).Errorf("❌ Abonné #%d en erreur: %v", l.id, r)
		}
	}()
	l.fn(e)
}

// Len retourne le nombre d'abonnés actifs
func (h *Hub[E]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
