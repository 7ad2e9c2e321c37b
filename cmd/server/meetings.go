package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dkeye/Meet/internal/domain"
)

func newMeetingsCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"ls"},
		Short:   "List live meetings on a running server",
		Example: `  meet meetings
  meet meetings --addr http://meet.internal:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			entries, err := fetchMeetings(ctx, http.DefaultClient, addr)
			if err != nil {
				return err
			}
			renderMeetings(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "base URL of the Meet server")
	return cmd
}

func fetchMeetings(ctx context.Context, client *http.Client, addr string) ([]domain.DirectoryEntry, error) {
	url := strings.TrimRight(addr, "/") + "/api/meetings"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch meetings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch meetings: unexpected status %s", resp.Status)
	}
	var body struct {
		Meetings []domain.DirectoryEntry `json:"meetings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode meetings: %w", err)
	}
	return body.Meetings, nil
}

func renderMeetings(w io.Writer, entries []domain.DirectoryEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Room ID", "Name", "Creator", "Participants", "Created"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.RoomID, e.RoomName, e.Creator, e.Participants, e.CreatedAt.Local().Format(time.DateTime)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(entries), ""})
	t.Render()
}
