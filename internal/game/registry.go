// Package game holds the live-session primitives that exist only for the
// lifetime of the process, starting with the connection registry.
package game

import (
	"sync"

	"github.com/coinpit/coinpit/internal/model"
)

// ConnID identifies one live websocket connection.
type ConnID string

// Registry maps live connections to their claimed nicknames. A connection is
// either unclaimed or holds exactly one nickname; a nickname is held by at
// most one live connection. The check-then-set in Claim is atomic, so two
// simultaneous claims for the same free nickname cannot both succeed.
type Registry struct {
	mu      sync.RWMutex
	conns   map[ConnID]model.Nickname // "" while unclaimed
	holders map[model.Nickname]ConnID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:   make(map[ConnID]model.Nickname),
		holders: make(map[model.Nickname]ConnID),
	}
}

// Register adds a connection with no claim.
func (r *Registry) Register(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		r.conns[id] = ""
	}
}

// Claim binds the connection to the nickname. Re-claiming the nickname the
// connection already holds is an idempotent success. It fails with
// model.ErrNameInUse when another live connection holds the nickname, and
// with model.ErrNotRegistered for unknown connections.
//
// changed reports whether the registry was mutated; an idempotent re-claim
// returns false, so callers undoing a failed claim know there is nothing to
// roll back.
func (r *Registry) Claim(id ConnID, nickname model.Nickname) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[id]
	if !ok {
		return false, model.ErrNotRegistered
	}
	if current == nickname {
		return false, nil
	}
	if holder, taken := r.holders[nickname]; taken && holder != id {
		return false, model.ErrNameInUse
	}

	if current != "" {
		delete(r.holders, current)
	}
	r.conns[id] = nickname
	r.holders[nickname] = id
	return true, nil
}

// Unclaim resets the connection to the unclaimed state, keeping it
// registered. Used to roll back a claim whose persistence failed.
func (r *Registry) Unclaim(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[id]; ok && current != "" {
		delete(r.holders, current)
		r.conns[id] = ""
	}
}

// Release removes the connection entirely (on disconnect), returning the
// nickname it held, if any.
func (r *Registry) Release(id ConnID) (model.Nickname, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nickname, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	if nickname != "" {
		delete(r.holders, nickname)
		return nickname, true
	}
	return "", false
}

// Name returns the nickname claimed by the connection. ok is false when the
// connection is unknown or unclaimed.
func (r *Registry) Name(id ConnID) (model.Nickname, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nickname, registered := r.conns[id]
	return nickname, registered && nickname != ""
}

// IsInUse reports whether some live connection currently claims the nickname.
func (r *Registry) IsInUse(nickname model.Nickname) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.holders[nickname]
	return ok
}

// Holder returns the connection currently claiming the nickname.
func (r *Registry) Holder(nickname model.Nickname) (ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.holders[nickname]
	return id, ok
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
