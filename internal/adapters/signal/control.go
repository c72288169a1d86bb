package signal

import (
	"github.com/dkeye/Assist/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Control events are replayed by the peer's input injector; the relay
// only peeks at type/subtype for the log line.
func (ctl *SignalWSController) handleControlEvent(id domain.ConnID, data []byte) {
	var p controlEventPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindControlEvent, err)
		return
	}
	if e := log.Trace(); e.Enabled() {
		var h controlEventHeader
		_ = json.Unmarshal(p.Event, &h)
		e.Str("module", "signal").Str("conn", string(id)).Str("session", p.SessionID).Str("event_type", h.Type).Str("subtype", h.Subtype).Msg("control-event")
	}
	ctl.relay(id, p.SessionID, KindControlEvent, controlEventMessage{
		Type:  KindControlEvent,
		Event: p.Event,
	})
}

func (ctl *SignalWSController) handleAppDimensions(id domain.ConnID, data []byte) {
	var p appDimensionsPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindAppDimensions, err)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", p.SessionID).RawJSON("width", p.Width).RawJSON("height", p.Height).Msg("app-dimensions")
	ctl.relay(id, p.SessionID, KindAppDimensions, appDimensionsMessage{
		Type:   KindAppDimensions,
		Width:  p.Width,
		Height: p.Height,
	})
}
