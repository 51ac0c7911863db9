// Package fakes holds in-memory stand-ins for the contract renderer, the
// contract store, the mail sender and the clock.
package fakes

import (
	"context"
	"sync"
	"time"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/mail"
)

var (
	_ contract.Renderer = (*Renderer)(nil)
	_ contract.Store    = (*Store)(nil)
	_ mail.Sender       = (*Mailer)(nil)
)

type Renderer struct {
	mu    sync.Mutex
	Calls []contract.Data
	Err   error
}

func (r *Renderer) Render(_ context.Context, d contract.Data) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	r.Calls = append(r.Calls, d)
	return []byte("%PDF-1.4 " + d.Number), nil
}

func (r *Renderer) Rendered() []contract.Data {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contract.Data(nil), r.Calls...)
}

type Store struct {
	mu        sync.Mutex
	objects   map[string][]byte
	Err       error
	DeleteErr error
}

func (s *Store) Put(_ context.Context, name string, pdf []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[name] = pdf
	return name, nil
}

func (s *Store) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[ref]
	if !ok {
		return nil, contract.ErrNotFound
	}
	return b, nil
}

func (s *Store) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.objects, ref)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type Mailer struct {
	mu   sync.Mutex
	sent []mail.Message
	Err  error
}

func (m *Mailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *Mailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

// Clock is a settable time source.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

func NewClock(start time.Time) *Clock { return &Clock{current: start} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
