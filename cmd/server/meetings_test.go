package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchAndRenderMeetings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meetings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meetings":[{"roomId":"r1","roomName":"Briefing","creator":"alice","participants":2,"createdAt":"2024-01-02T03:04:05Z"}]}`))
	}))
	defer srv.Close()

	entries, err := fetchMeetings(context.Background(), srv.Client(), srv.URL+"/")
	if err != nil {
		t.Fatalf("fetchMeetings: %v", err)
	}
	if len(entries) != 1 || entries[0].RoomID != "r1" || entries[0].Participants != 2 {
		t.Fatalf("entries = %+v", entries)
	}

	var buf bytes.Buffer
	renderMeetings(&buf, entries)
	out := buf.String()
	for _, want := range []string{"r1", "Briefing", "alice"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFetchMeetings_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := fetchMeetings(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatal("expected error")
	}
}

func TestRootCmdWiring(t *testing.T) {
	root := newRootCmd()
	if root.Flags().Lookup("port") == nil || root.Flags().Lookup("mode") == nil {
		t.Fatal("root must accept server flags")
	}
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	if !names["serve"] || !names["meetings"] {
		t.Fatalf("subcommands = %v", names)
	}
}
