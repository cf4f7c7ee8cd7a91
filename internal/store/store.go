// Package store holds the client list in memory and writes it through to a
// key-value blob store after every change.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
)

// StorageKey is the key the whole client list is stored under.
const StorageKey = "ifood_clients"

// KV is the blob store the repository persists to.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Repository is the ordered client collection.
// Manual adds go to the front; imports keep existing order and append.
type Repository struct {
	mu      sync.Mutex
	kv      KV
	logger  *log.Logger
	clients []client.Client

	importing atomic.Bool

	now   func() time.Time
	newID func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides ULID generation.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// New creates an empty repository. Call Load to read persisted state.
func New(kv KV, logger *log.Logger, opts ...Option) *Repository {
	r := &Repository{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Load reads the persisted collection. A missing or undecodable blob leaves the
// repository empty and is only logged; storage read failures are returned.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, found, err := r.kv.Get(ctx, StorageKey)
	if err != nil {
		return err
	}
	if !found || strings.TrimSpace(blob) == "" {
		r.clients = nil
		return nil
	}

	var clients []client.Client
	if err := json.Unmarshal([]byte(blob), &clients); err != nil {
		r.logger.Warn("stored client list is unreadable; starting empty", "key", StorageKey, "err", err)
		r.clients = nil
		r.keepCorrupt(ctx, blob)
		return nil
	}

	r.clients = clients
	r.logger.Debug("loaded clients", "count", len(clients))
	return nil
}

// keepCorrupt copies an unreadable blob aside so the next write doesn't lose it.
func (r *Repository) keepCorrupt(ctx context.Context, blob string) {
	key := fmt.Sprintf("%s.corrupt-%d", StorageKey, r.now().Unix())
	if err := r.kv.Put(ctx, key, blob); err != nil {
		r.logger.Error("could not back up unreadable client list", "err", err)
		return
	}
	r.logger.Info("unreadable client list backed up", "key", key)
}

// Now returns the repository clock's current time.
func (r *Repository) Now() time.Time {
	return r.now()
}

// NextID returns a fresh client id.
func (r *Repository) NextID() string {
	return r.newID()
}

// List returns a copy of all clients in order.
func (r *Repository) List() []client.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(r.clients)
}

// Get returns the client with the given id.
func (r *Repository) Get(id string) (client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return client.Client{}, errors.NewNotFound(id)
	}
	return r.clients[i].Clone(), nil
}

// FindByName returns the first client whose name matches case-insensitively.
func (r *Repository) FindByName(name string) (client.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if client.SameName(c.Name, name) {
			return c.Clone(), true
		}
	}
	return client.Client{}, false
}

// Add creates a client from d at the front of the list.
// Status starts at not_contacted and both timestamps are set to now.
func (r *Repository) Add(ctx context.Context, d client.Draft) (client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	c := client.Client{
		ID:            r.newID(),
		Name:          d.Name,
		IfoodLink:     d.IfoodLink,
		GoogleLink:    d.GoogleLink,
		Instagram:     d.Instagram,
		WhatsApp:      d.WhatsApp,
		Status:        client.StatusNotContacted,
		Notes:         d.Notes,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if d.Value != nil {
		v := *d.Value
		c.Value = &v
	}
	if d.InterestLevel != nil {
		l := *d.InterestLevel
		c.InterestLevel = &l
	}

	next := make([]client.Client, 0, len(r.clients)+1)
	next = append(next, c)
	next = append(next, r.clients...)
	if err := r.commit(ctx, next); err != nil {
		return client.Client{}, err
	}
	return c.Clone(), nil
}

// Update replaces the client with the same id. The stored CreatedAt is kept;
// UpdatedAt is set to now unless the caller already set it.
func (r *Repository) Update(ctx context.Context, c client.Client) (client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(c.ID)
	if i < 0 {
		return client.Client{}, errors.NewNotFound(c.ID)
	}

	updated := c.Clone()
	updated.CreatedAt = r.clients[i].CreatedAt
	if updated.UpdatedAt.IsZero() {
		updated.UpdatedAt = r.now()
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		updated.UpdatedAt = updated.CreatedAt
	}

	next := cloneAll(r.clients)
	next[i] = updated
	if err := r.commit(ctx, next); err != nil {
		return client.Client{}, err
	}
	return updated.Clone(), nil
}

// Delete removes the client permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return errors.NewNotFound(id)
	}

	next := make([]client.Client, 0, len(r.clients)-1)
	next = append(next, r.clients[:i]...)
	next = append(next, r.clients[i+1:]...)
	return r.commit(ctx, next)
}

// ReplaceAll swaps in a whole new collection, as produced by an import.
func (r *Repository) ReplaceAll(ctx context.Context, clients []client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(ctx, cloneAll(clients))
}

// BeginImport claims the single import slot. The returned release func must be
// called when the import finishes; a second caller gets ErrImportInProgress.
func (r *Repository) BeginImport() (release func(), err error) {
	if !r.importing.CompareAndSwap(false, true) {
		return nil, errors.NewImportInProgress()
	}
	var once sync.Once
	return func() {
		once.Do(func() { r.importing.Store(false) })
	}, nil
}

// commit persists next and, only on success, makes it the current collection.
// Callers must hold r.mu.
func (r *Repository) commit(ctx context.Context, next []client.Client) error {
	if next == nil {
		next = []client.Client{}
	}
	blob, err := json.Marshal(next)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := r.kv.Put(ctx, StorageKey, string(blob)); err != nil {
		return err
	}
	r.clients = next
	r.logger.Debug("persisted clients", "count", len(next))
	return nil
}

func (r *Repository) indexOf(id string) int {
	for i, c := range r.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []client.Client) []client.Client {
	out := make([]client.Client, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
