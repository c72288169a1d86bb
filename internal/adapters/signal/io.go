package signal

import (
	"context"
	"time"

	"github.com/dkeye/Assist/internal/core"
	"github.com/dkeye/Assist/internal/domain"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(ctl.opts.WriteWait))
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump processes one connection's messages strictly in arrival order.
// Any read error, including a missed pong deadline, ends the connection
// and runs the drop path.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, id domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(id)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(id)
		ctl.limiter.Forget(id)
		cancel()
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(id)).Msg("readPump ctx done")
			return
		default:
		}
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("readPump read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			log.Warn().Str("module", "signal").Str("conn", string(id)).Int("msg_type", msgType).Msg("non-text frame dropped")
			continue
		}
		ctl.onMessage(id, data)
	}
}

func (ctl *SignalWSController) onMessage(id domain.ConnID, data []byte) {
	if !ctl.limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("rate limit exceeded, message dropped")
		return
	}
	ctl.handleSignal(id, data)
}

// handleSignal is fire-and-forget: nothing is ever sent back to the
// sender for a bad or unknown message.
func (ctl *SignalWSController) handleSignal(id domain.ConnID, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad json")
		return
	}

	switch env.Type {
	case KindRegister:
		ctl.handleRegister(id, data)
	case KindOffer:
		ctl.handleOffer(id, data)
	case KindAnswer:
		ctl.handleAnswer(id, data)
	case KindICECandidate:
		ctl.handleCandidate(id, data)
	case KindControlEvent:
		ctl.handleControlEvent(id, data)
	case KindAppDimensions:
		ctl.handleAppDimensions(id, data)
	case KindEndSession:
		ctl.handleEndSession(id, data)
	default:
		log.Warn().Str("module", "signal").Str("conn", string(id)).Str("type", string(env.Type)).Msg("unknown signal")
	}
}

// relay encodes msg once and hands the frame to every other member of sid.
func (ctl *SignalWSController) relay(from domain.ConnID, sid string, kind Kind, msg any) core.PublishResult {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("type", string(kind)).Msg("relay marshal")
		return core.PublishResult{}
	}
	res := ctl.Orch.Relay(from, domain.SessionID(sid), b)
	log.Debug().Str("module", "signal").Str("conn", string(from)).Str("session", sid).Str("type", string(kind)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("relayed")
	return res
}

func (ctl *SignalWSController) badPayload(id domain.ConnID, kind Kind, err error) {
	log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Str("type", string(kind)).Msg("bad payload, dropped")
}
