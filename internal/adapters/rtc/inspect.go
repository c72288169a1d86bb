package rtc

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pion/ice/v4"
	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
)

// Inspection is read-only: the relay logs what it sees but always
// forwards the original bytes.

var ErrEmptySDP = errors.New("empty sdp")

const EndOfCandidates = "end-of-candidates"

type Description struct {
	Type  string
	Media []string
	Bytes int
}

// InspectDescription summarises an RTCSessionDescriptionInit payload.
func InspectDescription(raw []byte) (Description, error) {
	var desc webrtc.SessionDescription
	if err := json.Unmarshal(raw, &desc); err != nil {
		return Description{}, err
	}
	if desc.SDP == "" {
		return Description{}, ErrEmptySDP
	}
	parsed := &sdp.SessionDescription{}
	if err := parsed.Unmarshal([]byte(desc.SDP)); err != nil {
		return Description{}, err
	}
	out := Description{Type: desc.Type.String(), Bytes: len(desc.SDP)}
	for _, m := range parsed.MediaDescriptions {
		out.Media = append(out.Media, m.MediaName.Media)
	}
	return out, nil
}

// InspectCandidate returns the candidate type (host, srflx, prflx, relay)
// of an RTCIceCandidateInit payload.
func InspectCandidate(raw []byte) (string, error) {
	var init webrtc.ICECandidateInit
	if err := json.Unmarshal(raw, &init); err != nil {
		return "", err
	}
	value := strings.TrimPrefix(strings.TrimSpace(init.Candidate), "candidate:")
	if value == "" {
		return EndOfCandidates, nil
	}
	c, err := ice.UnmarshalCandidate(value)
	if err != nil {
		return "", err
	}
	return c.Type().String(), nil
}
