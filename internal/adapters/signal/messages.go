package signal

import (
	"bytes"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

type Kind string

const (
	KindRegister      Kind = "register"
	KindOffer         Kind = "offer"
	KindAnswer        Kind = "answer"
	KindICECandidate  Kind = "ice-candidate"
	KindControlEvent  Kind = "control-event"
	KindAppDimensions Kind = "app-dimensions"
	KindEndSession    Kind = "end-session"

	KindSessionEnded Kind = "session-ended"
)

type envelope struct {
	Type Kind `json:"type"`
}

// Inbound payloads. Opaque fields stay json.RawMessage so peers get the
// exact bytes the sender wrote.

type registerPayload struct {
	Role      string `json:"role" validate:"max=64"`
	SessionID string `json:"sessionId" validate:"required,max=256"`
}

type offerPayload struct {
	SessionID string          `json:"sessionId" validate:"required,max=256"`
	Offer     json.RawMessage `json:"offer" validate:"present"`
}

type answerPayload struct {
	SessionID string          `json:"sessionId" validate:"required,max=256"`
	Answer    json.RawMessage `json:"answer" validate:"present"`
}

type candidatePayload struct {
	SessionID string          `json:"sessionId" validate:"required,max=256"`
	Candidate json.RawMessage `json:"candidate" validate:"present"`
}

type controlEventPayload struct {
	SessionID string          `json:"sessionId" validate:"required,max=256"`
	Event     json.RawMessage `json:"event" validate:"present"`
}

// controlEventHeader is peeked for logging only.
type controlEventHeader struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
}

type appDimensionsPayload struct {
	SessionID string          `json:"sessionId" validate:"required,max=256"`
	Width     json.RawMessage `json:"width" validate:"present"`
	Height    json.RawMessage `json:"height" validate:"present"`
}

type endSessionPayload struct {
	SessionID string `json:"sessionId" validate:"required,max=256"`
}

// Outbound messages.

type offerMessage struct {
	Type  Kind            `json:"type"`
	Offer json.RawMessage `json:"offer"`
}

type answerMessage struct {
	Type   Kind            `json:"type"`
	Answer json.RawMessage `json:"answer"`
}

type candidateMessage struct {
	Type      Kind            `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
}

type controlEventMessage struct {
	Type  Kind            `json:"type"`
	Event json.RawMessage `json:"event"`
}

type appDimensionsMessage struct {
	Type   Kind            `json:"type"`
	Width  json.RawMessage `json:"width"`
	Height json.RawMessage `json:"height"`
}

type sessionEndedMessage struct {
	Type      Kind   `json:"type"`
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("present", validatePresent)
	return v
}

// validatePresent rejects absent and explicit null raw values.
func validatePresent(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Slice {
		return false
	}
	b := bytes.TrimSpace(f.Bytes())
	return len(b) > 0 && !bytes.Equal(b, []byte("null"))
}

func (ctl *SignalWSController) decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return ctl.validate.Struct(v)
}
