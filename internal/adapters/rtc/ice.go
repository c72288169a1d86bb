package rtc

import (
	"strings"

	"github.com/dkeye/Assist/internal/config"
	"github.com/pion/webrtc/v4"
)

func DefaultICEServers() []webrtc.ICEServer {
	return []webrtc.ICEServer{
		{
			URLs: []string{"stun:stun.l.google.com:19302"},
		},
	}
}

// ICEServers converts configured servers into the shape browsers accept
// for RTCPeerConnection. Entries without URLs are skipped; TURN entries
// without credentials are skipped as well since browsers reject them.
func ICEServers(cfg *config.Config) []webrtc.ICEServer {
	if cfg == nil || len(cfg.ICEServers) == 0 {
		return DefaultICEServers()
	}
	out := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))
	for _, s := range cfg.ICEServers {
		urls := make([]string, 0, len(s.URLs))
		for _, u := range s.URLs {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) == 0 {
			continue
		}
		server := webrtc.ICEServer{URLs: urls}
		if s.Username != "" || s.Credential != "" {
			server.Username = strings.TrimSpace(s.Username)
			server.Credential = s.Credential
			server.CredentialType = webrtc.ICECredentialTypePassword
		} else if hasTURNURL(urls) {
			continue
		}
		out = append(out, server)
	}
	return out
}

func hasTURNURL(urls []string) bool {
	for _, raw := range urls {
		u := strings.ToLower(raw)
		if strings.HasPrefix(u, "turn:") || strings.HasPrefix(u, "turns:") {
			return true
		}
	}
	return false
}
