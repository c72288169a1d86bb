package orch

import (
	"github.com/dkeye/Assist/internal/app"
	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator ties the connection registry to the session rooms. All
// state is owned here; it is created at service start and dropped by
// Shutdown.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Policy   app.Policy
}

func New(policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Policy:   policy,
	}
}

// Relay forwards data to every member of sid except from. The sender
// does not have to be a member of sid.
func (o *Orchestrator) Relay(from domain.ConnID, sid domain.SessionID, data core.Frame) core.PublishResult {
	res := o.Rooms.Broadcast(sid, from, data)
	o.applyPolicy(sid, res)
	return res
}

func (o *Orchestrator) applyPolicy(sid domain.SessionID, res core.PublishResult) {
	if o.Policy == nil || len(res.Dropped) == 0 {
		return
	}
	room, ok := o.Rooms.GetRoom(sid)
	if !ok {
		return
	}
	for _, slow := range res.Dropped {
		id := slow.Meta().Conn.ID
		action := o.Policy.OnBackPressure(room, slow)
		log.Warn().Str("module", "orch").Str("session", string(sid)).Str("conn", string(id)).Str("action", action.String()).Msg("backpressure")
		switch action {
		case app.KickMember:
			o.Registry.Cancel(id)
		case app.DropFrame, app.NoAction:
		}
	}
}

// Shutdown cancels every connection and forgets every session.
func (o *Orchestrator) Shutdown() {
	n := o.Registry.CancelAll()
	o.Rooms.Close()
	log.Info().Str("module", "orch").Int("connections", n).Msg("shutdown")
}
