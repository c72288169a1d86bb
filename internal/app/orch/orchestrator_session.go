package orch

import (
	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

// ReasonCustomerStopped is the only termination reason the relay emits.
const ReasonCustomerStopped = "customer_stopped"

// EndSession delivers notice to every member of sid, requester included,
// then takes the requester out of the room. Other members stay joined
// until they disconnect or leave on their own.
func (o *Orchestrator) EndSession(requester domain.ConnID, sid domain.SessionID, notice core.Frame) core.PublishResult {
	room, ok := o.Rooms.GetRoom(sid)
	if !ok {
		log.Info().Str("module", "orch").Str("conn", string(requester)).Str("session", string(sid)).Msg("end-session: no such session")
		return core.PublishResult{}
	}
	res := room.Broadcast(core.NoExclude, notice)
	o.applyPolicy(sid, res)
	left := o.leave(requester, sid)
	log.Info().Str("module", "orch").Str("conn", string(requester)).Str("session", string(sid)).Int("notified", res.SendTo).Bool("requester_left", left).Msg("session ended")
	return res
}

// OnDisconnect is the passive drop path: membership is cleaned up
// silently, no lifecycle notice is broadcast.
func (o *Orchestrator) OnDisconnect(id domain.ConnID) {
	if sid, ok := o.Registry.LookupSession(id); ok {
		o.Rooms.Leave(sid, id)
	}
	if _, ok := o.Registry.Disconnect(id); !ok {
		return
	}
	log.Info().Str("module", "orch").Str("conn", string(id)).Msg("connection dropped")
}
