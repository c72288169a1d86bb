package signal

import (
	"github.com/dkeye/Assist/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleRegister(id domain.ConnID, data []byte) {
	var p registerPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindRegister, err)
		return
	}
	role := domain.Role(p.Role)
	sid := domain.SessionID(p.SessionID)
	if !ctl.Orch.Register(id, role, sid) {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("role", role.String()).Str("session", p.SessionID).Msg("register")
}
