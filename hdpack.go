/*
Package hdpack manages the lifecycle of the active high resolution pack.

A Manager owns at most one Catalog at a time. Packs are built off to the side
and then published with a single pointer swap, so the render loop only ever
sees a complete catalog. A pack may override the renderer's colour table; the
previous table is captured when the pack is activated and put back when it is
replaced or unloaded.
*/
package hdpack

import (
	"context"
	"io/ioutil"
	"log"
	"sync"

	"github.com/bodgit/hdpack/catalog"
	"github.com/bodgit/hdpack/pack"
	"github.com/bodgit/hdpack/palette"
	"github.com/pkg/errors"
)

// ErrSuperseded is returned by a load that finished after a newer load or
// publish had started. Its catalog is discarded.
var ErrSuperseded = errors.New("hdpack: load superseded")

// State describes what a Manager is doing.
type State int

// Manager states.
const (
	Empty State = iota
	Loading
	Active
	Unloading
)

var stateNames = [...]string{"empty", "loading", "active", "unloading"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type loadFunc func(context.Context, string, *log.Logger) (*catalog.Catalog, error)

// Manager publishes catalogs to the render loop.
type Manager struct {
	// swap serializes publish and unload, including their palette work
	swap  sync.Mutex
	saved *palette.Table

	mu        sync.RWMutex
	active    *catalog.Catalog
	gen       uint64
	cancel    context.CancelFunc
	pending   int
	unloading bool

	palette palette.Accessor
	logger  *log.Logger
	load    loadFunc
}

// New returns an empty Manager. Palette overrides are applied through p.
func New(p palette.Accessor, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Manager{
		palette: p,
		logger:  logger,
		load:    pack.Load,
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.unloading:
		return Unloading
	case m.pending > 0:
		return Loading
	case m.active != nil:
		return Active
	}
	return Empty
}

// Catalog returns the active catalog, or nil. The catalog is immutable and
// may be used without further locking for as long as the caller likes.
func (m *Manager) Catalog() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// supersede starts a new generation, cancelling any load in flight. It must
// be called with mu held.
func (m *Manager) supersede() uint64 {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return m.gen
}

func (m *Manager) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	gen := m.supersede()
	m.cancel = cancel
	m.pending++
	return ctx, cancel, gen
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, gen uint64, dir string) error {
	defer cancel()
	defer func() {
		m.mu.Lock()
		m.pending--
		m.mu.Unlock()
	}()

	c, err := m.load(ctx, dir, m.logger)

	m.mu.RLock()
	current := gen == m.gen
	m.mu.RUnlock()
	if !current {
		m.logger.Printf("Discarding superseded load of \"%s\"\n", dir)
		return ErrSuperseded
	}
	if err != nil {
		m.logger.Printf("Failed to load \"%s\": %v\n", dir, err)
		return err
	}

	if err := m.publish(c, gen); err != nil {
		m.logger.Printf("Discarding superseded load of \"%s\"\n", dir)
		return err
	}
	m.logger.Printf("Activated \"%s\"\n", dir)
	return nil
}

// Load builds the pack in dir and publishes it. On failure the active
// catalog is left untouched. Starting another load, or publishing, cancels
// this one and makes it return ErrSuperseded.
func (m *Manager) Load(ctx context.Context, dir string) error {
	ctx, cancel, gen := m.begin(ctx)
	return m.run(ctx, cancel, gen, dir)
}

// LoadAsync is like Load but builds the pack on its own goroutine. The load
// is ordered against other loads at the time of the call. The returned
// channel receives the result and is then closed.
func (m *Manager) LoadAsync(ctx context.Context, dir string) <-chan error {
	ctx, cancel, gen := m.begin(ctx)

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		errc <- m.run(ctx, cancel, gen, dir)
	}()
	return errc
}

// Publish makes c the active catalog, cancelling any load in flight.
// Publishing nil is the same as Unload.
func (m *Manager) Publish(c *catalog.Catalog) {
	if c == nil {
		m.Unload()
		return
	}

	m.mu.Lock()
	gen := m.supersede()
	m.mu.Unlock()

	// Only a newer publish can move gen on, which makes this one moot
	_ = m.publish(c, gen)
}

func (m *Manager) publish(c *catalog.Catalog, gen uint64) error {
	m.swap.Lock()
	defer m.swap.Unlock()

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return ErrSuperseded
	}
	old := m.active
	m.active = c
	m.unloading = old != nil
	m.mu.Unlock()

	if old != nil {
		m.retire()
	}
	m.activate(c)
	return nil
}

// Unload cancels any load in flight and drops the active catalog, putting
// back the colour table it replaced.
func (m *Manager) Unload() {
	m.swap.Lock()
	defer m.swap.Unlock()

	m.mu.Lock()
	m.supersede()
	old := m.active
	m.active = nil
	m.unloading = old != nil
	m.mu.Unlock()

	if old != nil {
		m.retire()
		m.logger.Println("Unloaded pack")
	}
}

// retire restores the colour table of the catalog just swapped out, which
// is reported as Unloading until done. Callers hold swap.
func (m *Manager) retire() {
	m.deactivate()

	m.mu.Lock()
	m.unloading = false
	m.mu.Unlock()
}

// activate installs the palette override of c, if any. Callers hold swap.
func (m *Manager) activate(c *catalog.Catalog) {
	t, ok := c.Palette()
	if !ok {
		if len(c.RawPalette()) > 0 {
			m.logger.Printf("Ignoring palette with %d colors\n", len(c.RawPalette()))
		}
		return
	}
	cur := m.palette.Get()
	m.saved = &cur
	m.palette.Set(t)
}

// deactivate restores the colour table captured by activate. Callers hold
// swap.
func (m *Manager) deactivate() {
	if m.saved == nil {
		return
	}
	m.palette.Set(*m.saved)
	m.saved = nil
}

// LoadForROM loads the pack registered in db for the ROM image at path.
func (m *Manager) LoadForROM(ctx context.Context, db *DB, path string) error {
	crc, err := CRCFile(path)
	if err != nil {
		return err
	}
	dir, err := db.FindPackByCRC(crc)
	if err != nil {
		return err
	}
	if dir == "" {
		return errors.Errorf("hdpack: no pack registered for %s", crc)
	}
	m.logger.Printf("Found \"%s\" for \"%s\", with CRC \"%s\"\n", dir, path, crc)
	return m.Load(ctx, dir)
}
