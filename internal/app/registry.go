package app

import (
	"context"
	"sync"

	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Conn    *domain.Connection
	Session domain.SessionID
	Member  core.MemberSession
	Signal  core.SignalConnection
	Cancel  context.CancelFunc
}

// Registry owns every live connection, its role and its session
// association. Nothing else mutates a domain.Connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

// Connect binds a freshly accepted transport to its connection record.
func (r *Registry) Connect(conn *domain.Connection, signal core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID] = &connEntry{Conn: conn, Signal: signal, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("conn", string(conn.ID)).Msg("connected")
}

// Disconnect forgets the connection and returns the session it was in.
func (r *Registry) Disconnect(id domain.ConnID) (domain.SessionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("session", string(e.Session)).Msg("disconnected")
	return e.Session, true
}

// SetRole records role and session for id, overwriting any previous
// registration. It returns the member to join with and the session the
// connection was in before, if any.
func (r *Registry) SetRole(id domain.ConnID, role domain.Role, sid domain.SessionID) (core.MemberSession, domain.SessionID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, "", false
	}
	prev := e.Session
	e.Conn.Role = role
	e.Session = sid
	e.Member = core.NewMemberSession(domain.NewMember(e.Conn, role), e.Signal)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("role", role.String()).Str("session", string(sid)).Str("prev_session", string(prev)).Msg("registered")
	return e.Member, prev, true
}

func (r *Registry) LookupSession(id domain.ConnID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Session == "" {
		return "", false
	}
	return e.Session, true
}

// ClearSession drops the session association if it still points at sid.
func (r *Registry) ClearSession(id domain.ConnID, sid domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.Session != sid {
		return false
	}
	e.Session = ""
	e.Member = nil
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("session", string(sid)).Msg("removed session association")
	return true
}

func (r *Registry) GetConnection(id domain.ConnID) (*domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

// CancelAll cancels every live connection. Entries are removed as each
// connection's read loop unwinds.
func (r *Registry) CancelAll() int {
	r.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(r.conns))
	for _, e := range r.conns {
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	r.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
	log.Info().Str("module", "app.registry").Int("count", len(cancels)).Msg("canceled all connections")
	return len(cancels)
}
