package signal

import (
	"github.com/dkeye/Assist/internal/app/orch"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// handleEndSession notifies the whole room, sender included.
func (ctl *SignalWSController) handleEndSession(id domain.ConnID, data []byte) {
	var p endSessionPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindEndSession, err)
		return
	}
	notice, err := json.Marshal(sessionEndedMessage{
		Type:      KindSessionEnded,
		SessionID: p.SessionID,
		Reason:    orch.ReasonCustomerStopped,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("session-ended marshal")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", p.SessionID).Msg("end-session")
	ctl.Orch.EndSession(id, domain.SessionID(p.SessionID), notice)
}
