package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" {
		t.Fatalf("unexpected defaults: port=%d mode=%s", cfg.Port, cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.PongWait != 60*time.Second {
		t.Fatalf("unexpected keepalive: %s/%s", cfg.PingPeriod, cfg.PongWait)
	}
	if cfg.BackpressurePolicy != "drop" {
		t.Fatalf("policy = %q", cfg.BackpressurePolicy)
	}
	if len(cfg.ICEServers) != 2 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("default ice servers = %#v", cfg.ICEServers)
	}
}

func TestLoadFile_YAMLEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9000
send_buffer: 8
backpressure_policy: kick
ice_servers:
  - urls: ["turn:turn.example.com:3478"]
    username: u
    credential: p
`)
	t.Setenv("MEET_CREATE_LIMIT", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("mode", "", "")
	if err := flags.Parse([]string{"--port", "9100"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path, flags)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("flag should win over yaml, port=%d", cfg.Port)
	}
	if cfg.Mode != "debug" {
		t.Fatalf("unset flag must not override yaml, mode=%q", cfg.Mode)
	}
	if cfg.CreateLimit != 2 {
		t.Fatalf("env override ignored, create_limit=%d", cfg.CreateLimit)
	}
	if cfg.SendBuffer != 8 || cfg.BackpressurePolicy != "kick" {
		t.Fatalf("yaml ignored: %+v", cfg)
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].Username != "u" {
		t.Fatalf("ice servers = %#v", cfg.ICEServers)
	}
}

func TestLoadFile_ICEJSONOverride(t *testing.T) {
	t.Setenv("MEET_ICE_SERVERS_JSON", `[{"urls":"stun:override.example.com:3478"}]`)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.ICEServers) != 1 || cfg.ICEServers[0].URLs[0] != "stun:override.example.com:3478" {
		t.Fatalf("ice servers = %#v", cfg.ICEServers)
	}
}

func TestLoadFile_Rejects(t *testing.T) {
	cases := map[string]string{
		"policy":    "backpressure_policy: explode\n",
		"keepalive": "ping_period: 60s\npong_wait: 30s\n",
		"buffer":    "send_buffer: 0\n",
		"turn":      "ice_servers:\n  - urls: [\"turn:t.example.com\"]\n",
		"scheme":    "ice_servers:\n  - urls: [\"http://example.com\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, body), nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
