package mediator

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type fetchActive struct {
	Query
}

type pruneExpired struct {
	Command
}

type renameCommand struct{}

type unmarkedRequest struct{}

func TestStats(t *testing.T) {
	t.Run("counts distinct names, not invocations", func(t *testing.T) {
		s := NewStats()
		s.TrackQuery("X")
		s.TrackQuery("X")
		s.TrackQuery("X")
		s.TrackQuery("Y")

		if got := s.QueryCount(); got != 2 {
			t.Fatalf("QueryCount() = %d, want 2", got)
		}
	})

	t.Run("empty names are ignored", func(t *testing.T) {
		s := NewStats()
		s.TrackQuery("")
		s.TrackCommand("")
		s.TrackNotification("")

		if s.QueryCount() != 0 || s.CommandCount() != 0 || s.NotificationCount() != 0 {
			t.Fatalf("empty names were counted: %+v", s.Snapshot())
		}
	})

	t.Run("concurrent tracking is safe", func(t *testing.T) {
		s := NewStats()
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.TrackQuery("Shared")
				s.TrackCommand("AlsoShared")
			}()
		}
		wg.Wait()

		if s.QueryCount() != 1 || s.CommandCount() != 1 {
			t.Fatalf("counts = %d/%d, want 1/1", s.QueryCount(), s.CommandCount())
		}
	})

	t.Run("snapshot names are sorted", func(t *testing.T) {
		s := NewStats()
		s.TrackQuery("Zeta")
		s.TrackQuery("Alpha")

		snap := s.Snapshot()
		if len(snap.Queries) != 2 || snap.Queries[0] != "Alpha" || snap.Queries[1] != "Zeta" {
			t.Fatalf("Queries = %v, want [Alpha Zeta]", snap.Queries)
		}
	})
}

func TestRequestClassification(t *testing.T) {
	cases := []struct {
		name        string
		request     any
		wantCommand bool
	}{
		{"query marker without suffix", fetchActive{}, false},
		{"command marker without suffix", pruneExpired{}, true},
		{"suffix heuristic is case-insensitive", renameCommand{}, true},
		{"no signal defaults to query", unmarkedRequest{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStats()
			s.trackRequest(tc.request, requestName(reflect.TypeOf(tc.request)))

			if got := s.CommandCount() == 1; got != tc.wantCommand {
				t.Fatalf("command tracked = %v, want %v", got, tc.wantCommand)
			}
			if got := s.QueryCount() == 1; got == tc.wantCommand {
				t.Fatalf("query tracked = %v, want %v", got, !tc.wantCommand)
			}
		})
	}
}

func TestReport(t *testing.T) {
	m := newEchoMediator(t)
	if _, err := m.Send(context.Background(), echoQuery{Value: "x"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	var lines []string
	m.Stats().Report(RenderFunc(func(line string) {
		lines = append(lines, line)
	}))

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "queries: 1") {
		t.Fatalf("report missing query count:\n%s", joined)
	}
	if !strings.Contains(joined, "echoQuery") {
		t.Fatalf("report missing query name:\n%s", joined)
	}
}
