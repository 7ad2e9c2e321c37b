package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"
)

// ICEServerConfig is one entry of the ice_servers YAML list.
type ICEServerConfig struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// parseICEServers prefers the JSON override (MEET_ICE_SERVERS_JSON) over the
// YAML list.
func parseICEServers(raw string, list []ICEServerConfig) ([]webrtc.ICEServer, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		servers, err := ParseICEServersJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("ice_servers_json: %w", err)
		}
		return servers, nil
	}

	out := make([]webrtc.ICEServer, 0, len(list))
	for i, s := range list {
		server, err := buildICEServer(s.URLs, s.Username, s.Credential)
		if err != nil {
			return nil, fmt.Errorf("ice_servers[%d]: %w", i, err)
		}
		out = append(out, server)
	}
	return out, nil
}

type iceServerJSON struct {
	URLs       stringOrStringSlice `json:"urls"`
	Username   string              `json:"username,omitempty"`
	Credential string              `json:"credential,omitempty"`
}

// stringOrStringSlice accepts both "urls": "stun:..." and "urls": ["stun:..."],
// as browsers do.
type stringOrStringSlice []string

func (s *stringOrStringSlice) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*s = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// ParseICEServersJSON parses a browser-style RTCIceServer array.
func ParseICEServersJSON(raw string) ([]webrtc.ICEServer, error) {
	var servers []iceServerJSON
	if err := json.Unmarshal([]byte(raw), &servers); err != nil {
		return nil, err
	}

	out := make([]webrtc.ICEServer, 0, len(servers))
	for i, s := range servers {
		server, err := buildICEServer(s.URLs, s.Username, s.Credential)
		if err != nil {
			return nil, fmt.Errorf("iceServers[%d]: %w", i, err)
		}
		out = append(out, server)
	}
	return out, nil
}

func buildICEServer(urls []string, username, credential string) (webrtc.ICEServer, error) {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	server := webrtc.ICEServer{
		URLs:     clean,
		Username: strings.TrimSpace(username),
	}
	if strings.TrimSpace(credential) != "" {
		server.Credential = credential
	}
	return server, validateICEServer(server)
}

func validateICEServer(server webrtc.ICEServer) error {
	if len(server.URLs) == 0 {
		return errors.New("missing urls")
	}

	needsCreds := false
	for _, u := range server.URLs {
		switch {
		case strings.HasPrefix(u, "stun:"), strings.HasPrefix(u, "stuns:"):
		case strings.HasPrefix(u, "turn:"), strings.HasPrefix(u, "turns:"):
			needsCreds = true
		default:
			return fmt.Errorf("unsupported url scheme: %q", u)
		}
	}

	if needsCreds {
		if server.Username == "" {
			return errors.New("turn urls require username")
		}
		if cred, ok := server.Credential.(string); !ok || strings.TrimSpace(cred) == "" {
			return errors.New("turn urls require credential")
		}
	}
	return nil
}
