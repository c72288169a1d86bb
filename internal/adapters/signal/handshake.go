package signal

import (
	"github.com/dkeye/Assist/internal/adapters/rtc"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Handshake payloads are forwarded byte-for-byte. Inspection only feeds
// the log and never blocks a relay.

func (ctl *SignalWSController) handleOffer(id domain.ConnID, data []byte) {
	var p offerPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindOffer, err)
		return
	}
	ctl.logDescription(id, p.SessionID, KindOffer, p.Offer)
	ctl.relay(id, p.SessionID, KindOffer, offerMessage{
		Type:  KindOffer,
		Offer: p.Offer,
	})
}

func (ctl *SignalWSController) handleAnswer(id domain.ConnID, data []byte) {
	var p answerPayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindAnswer, err)
		return
	}
	ctl.logDescription(id, p.SessionID, KindAnswer, p.Answer)
	ctl.relay(id, p.SessionID, KindAnswer, answerMessage{
		Type:   KindAnswer,
		Answer: p.Answer,
	})
}

func (ctl *SignalWSController) handleCandidate(id domain.ConnID, data []byte) {
	var p candidatePayload
	if err := ctl.decode(data, &p); err != nil {
		ctl.badPayload(id, KindICECandidate, err)
		return
	}
	if e := log.Debug(); e.Enabled() {
		typ, err := rtc.InspectCandidate(p.Candidate)
		if err != nil {
			typ = "opaque"
		}
		e.Str("module", "signal").Str("conn", string(id)).Str("session", p.SessionID).Str("candidate_type", typ).Msg("ice-candidate")
	}
	ctl.relay(id, p.SessionID, KindICECandidate, candidateMessage{
		Type:      KindICECandidate,
		Candidate: p.Candidate,
	})
}

func (ctl *SignalWSController) logDescription(id domain.ConnID, sid string, kind Kind, raw json.RawMessage) {
	d, err := rtc.InspectDescription(raw)
	if err != nil {
		log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", sid).Str("type", string(kind)).AnErr("inspect", err).Msg("opaque session description")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", sid).Str("type", string(kind)).Str("sdp_type", d.Type).Strs("media", d.Media).Int("sdp_bytes", d.Bytes).Msg("session description")
}
