package orch

import (
	"context"

	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Connect(conn *domain.Connection, signal core.SignalConnection, cancel context.CancelFunc) {
	o.Registry.Connect(conn, signal, cancel)
}

// Register assigns role and session to id. A connection that was in a
// different session leaves it before joining the new one; registering
// again into the same session only updates the role.
func (o *Orchestrator) Register(id domain.ConnID, role domain.Role, sid domain.SessionID) bool {
	member, prev, ok := o.Registry.SetRole(id, role, sid)
	if !ok {
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("register: unknown connection")
		return false
	}
	if prev != "" && prev != sid {
		o.Rooms.Leave(prev, id)
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("from_session", string(prev)).Msg("left previous session")
	}
	o.Rooms.Join(sid, id, member)
	return true
}

// SessionOf is the registry view of id's current session.
func (o *Orchestrator) SessionOf(id domain.ConnID) (domain.SessionID, bool) {
	return o.Registry.LookupSession(id)
}

func (o *Orchestrator) leave(id domain.ConnID, sid domain.SessionID) bool {
	removed := o.Rooms.Leave(sid, id)
	o.Registry.ClearSession(id, sid)
	return removed
}
