// Package session guarda las instancias vivas de formularios en memoria.
// No hay persistencia: al expirar o borrarse una sesión, su Form se cierra
// y cualquier auto-dismiss pendiente se cancela.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dropDatabas3/signupform/internal/signup"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound indica que la sesión no existe o expiró.
var ErrNotFound = errors.New("session: form not found")

// Options configura el Store.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	// NewForm construye cada Form; nil usa signup.NewForm con opciones por defecto.
	NewForm func(id string) *signup.Form
	// OnEvict se invoca después de cerrar un Form desalojado.
	OnEvict func(id string)
}

// Store mapea form_id -> *signup.Form con TTL de inactividad.
type Store struct {
	mu      sync.Mutex
	c       *gocache.Cache
	ttl     time.Duration
	newForm func(id string) *signup.Form
}

// NewStore crea un Store respaldado por go-cache.
func NewStore(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	if opts.NewForm == nil {
		opts.NewForm = func(string) *signup.Form { return signup.NewForm(signup.FormOptions{}) }
	}

	c := gocache.New(opts.TTL, opts.CleanupInterval)
	onEvict := opts.OnEvict
	c.OnEvicted(func(id string, v interface{}) {
		if f, ok := v.(*signup.Form); ok {
			f.Close()
		}
		if onEvict != nil {
			onEvict(id)
		}
	})

	return &Store{c: c, ttl: opts.TTL, newForm: opts.NewForm}
}

// Create registra un formulario nuevo y devuelve su ID.
func (s *Store) Create() (string, *signup.Form) {
	id := uuid.NewString()
	f := s.newForm(id)
	s.mu.Lock()
	s.c.Set(id, f, s.ttl)
	s.mu.Unlock()
	return id, f
}

// Get busca el formulario y renueva su TTL.
func (s *Store) Get(id string) (*signup.Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.c.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	f, ok := v.(*signup.Form)
	if !ok || f.Closed() {
		return nil, ErrNotFound
	}
	// Set no dispara OnEvicted; sólo renueva la expiración.
	s.c.Set(id, f, s.ttl)
	return f, nil
}

// Delete cierra y elimina el formulario.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.c.Get(id)
	if ok {
		s.c.Delete(id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Count devuelve la cantidad de sesiones vigentes. Items ya filtra las
// expiradas que el janitor todavía no purgó.
func (s *Store) Count() int {
	return len(s.c.Items())
}

// PurgeExpired fuerza el desalojo de sesiones expiradas.
func (s *Store) PurgeExpired() {
	s.c.DeleteExpired()
}

// Close cierra todos los formularios.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.c.Items() {
		s.c.Delete(id)
	}
}
