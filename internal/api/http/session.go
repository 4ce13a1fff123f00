package httpapi

import (
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/aqie/air-quality-forecast/internal/mock"
	"github.com/aqie/air-quality-forecast/internal/session"
)

const sessionLocal = "session"

// SessionProvider loads the session of a request. The returned save
// function persists it once the handler is done.
type SessionProvider interface {
	Acquire(c *fiber.Ctx) (session.Store, func() error, error)
}

// FiberSessions serves sessions from the Fiber session middleware. Values
// are stored as JSON strings so no gob registration is needed.
type FiberSessions struct {
	store *fibersession.Store
}

func NewFiberSessions(store *fibersession.Store) *FiberSessions {
	return &FiberSessions{store: store}
}

func (p *FiberSessions) Acquire(c *fiber.Ctx) (session.Store, func() error, error) {
	sess, err := p.store.Get(c)
	if err != nil {
		return nil, nil, err
	}
	return fiberStore{sess: sess}, sess.Save, nil
}

type fiberStore struct {
	sess *fibersession.Session
}

func (s fiberStore) Get(key string) any { return s.sess.Get(key) }

func (s fiberStore) Set(key string, value any) {
	if value == nil {
		s.sess.Delete(key)
		return
	}
	s.sess.Set(key, value)
}

func (s fiberStore) Delete(key string) { s.sess.Delete(key) }

// withSession acquires the session, persists any mock parameters from the
// query and saves the session after the handler ran.
func (h *handler) withSession(c *fiber.Ctx) error {
	store, save, err := h.deps.Sessions.Acquire(c)
	if err != nil {
		return err
	}
	c.Locals(sessionLocal, store)

	mock.PersistParams(store, queryValues(c), h.deps.Mocks != nil)

	handlerErr := c.Next()
	if err := save(); err != nil && handlerErr == nil {
		return err
	}
	return handlerErr
}

func sessionFrom(c *fiber.Ctx) session.Store {
	store, _ := c.Locals(sessionLocal).(session.Store)
	return store
}
