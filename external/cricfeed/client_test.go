package cricfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ovalline/cricsync/internal/platform/logging"
)

const matchListPayload = `{
	"matches": [
		{
			"game_id": 4123,
			"series_id": "s1",
			"series_name": "Asia Cup",
			"start_date": "9/10/2025",
			"event_state": "R",
			"event_format": "ODI",
			"participants": [
				{"id": 11, "name": "India"},
				{"id": "12", "name": "Pakistan"}
			],
			"venue": {"id": "v1", "name": "Dubai"}
		}
	]
}`

const scorecardPayload = `{
	"data": {
		"Innings": [
			{
				"Number": "First",
				"Battingteam": "11",
				"Total": 241,
				"Wickets": "10",
				"Overs": "49.3",
				"AllotedOvers": 50,
				"Batsmen": [
					{"Batsman": 7, "Runs": "88", "Balls": 96, "Dismissal": "c sub b Khan", "Strikerate": 91.67}
				],
				"Bowlers": [
					{"Bowler": "9", "Overs": 9.3, "Runs": 41, "Wickets": 4, "Economyrate": "4.32"}
				]
			}
		],
		"Teams": {
			"11": {"Name_Full": "India", "Players": {"7": {"Name_Full": "R Sharma"}}},
			"12": {"Name_Full": "Pakistan", "Players": {"9": {"Name_Full": "S Khan"}}}
		},
		"Matchdetail": {
			"Match": {"Id": 4123, "Type": "ODI", "Date": "9/10/2025"},
			"Series": {"Id": "s1", "Name": "Asia Cup"},
			"Venue": {"Id": "v1", "Name": "Dubai"},
			"Team_Home": 11,
			"Team_Away": "12",
			"Status": "India won by 5 wickets"
		}
	}
}`

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		BaseURL:  server.URL,
		ClientID: "client-42",
		Timeout:  2 * time.Second,
		Logger:   logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestClientListMatches(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(matchListPayload))
	}), nil)

	from := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	matches, err := client.ListMatches(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}

	if gotQuery.Get("daterange") != "03092025-10092025" {
		t.Fatalf("daterange = %q", gotQuery.Get("daterange"))
	}
	if gotQuery.Get("client") != "client-42" || gotQuery.Get("methodtype") != "3" {
		t.Fatalf("query = %v", gotQuery)
	}

	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	m := matches[0]
	// Numeric feed values decode to their textual form.
	if m.GameID != "4123" || m.EventState != "R" || m.SeriesName != "Asia Cup" {
		t.Fatalf("match = %+v", m)
	}
	if len(m.Participants) != 2 || m.Participants[0].ID != "11" || m.Participants[1].ID != "12" {
		t.Fatalf("participants = %+v", m.Participants)
	}
}

func TestClientFetchScorecard(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("game_id") != "4123" {
			t.Errorf("game_id = %q", r.URL.Query().Get("game_id"))
		}
		_, _ = w.Write([]byte(scorecardPayload))
	}), nil)

	sc, err := client.FetchScorecard(context.Background(), "4123")
	if err != nil {
		t.Fatalf("FetchScorecard: %v", err)
	}
	if sc == nil {
		t.Fatal("scorecard is nil")
	}
	if sc.Detail.MatchID != "4123" || sc.Detail.TeamHomeID != "11" || sc.Detail.Status != "India won by 5 wickets" {
		t.Fatalf("detail = %+v", sc.Detail)
	}
	if len(sc.Innings) != 1 || sc.Innings[0].Total != "241" || sc.Innings[0].Overs != "49.3" {
		t.Fatalf("innings = %+v", sc.Innings)
	}
	if sc.Innings[0].Batsmen[0].PlayerID != "7" || sc.Innings[0].Bowlers[0].EconomyRate != "4.32" {
		t.Fatalf("player lines = %+v", sc.Innings[0])
	}
	if sc.Teams["12"].Players["9"] != "S Khan" {
		t.Fatalf("teams = %+v", sc.Teams)
	}
}

func TestClientFetchScorecardAbsent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}), nil)

	sc, err := client.FetchScorecard(context.Background(), "9999")
	if err != nil {
		t.Fatalf("FetchScorecard: %v", err)
	}
	if sc != nil {
		t.Fatalf("scorecard = %+v, want nil", sc)
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data": null}`))
	}), func(cfg *ClientConfig) {
		cfg.MaxRetries = 2
		cfg.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	})

	// One retry costs a 1s backoff; the deadline keeps a regression from hanging.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.FetchScorecard(ctx, "4123"); err != nil {
		t.Fatalf("FetchScorecard after retry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("upstream calls = %d, want 2", got)
	}
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}), func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
	})

	if _, err := client.FetchScorecard(context.Background(), "4123"); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1", got)
	}
}

func TestClientProxyMode(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotTarget string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTarget = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{"matches": []}`))
	}))
	t.Cleanup(proxy.Close)

	client := NewClient(ClientConfig{
		BaseURL:  "https://feed.example.com/cricket",
		ProxyURL: proxy.URL + "/relay",
		ClientID: "client-42",
		Timeout:  2 * time.Second,
		Logger:   logging.NewNop(),
	})

	from := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)
	if _, err := client.ListMatches(context.Background(), from, from); err != nil {
		t.Fatalf("ListMatches via proxy: %v", err)
	}
	if gotPath != "/relay" {
		t.Fatalf("proxy path = %q", gotPath)
	}
	target, err := url.Parse(gotTarget)
	if err != nil {
		t.Fatalf("parse forwarded target %q: %v", gotTarget, err)
	}
	if target.Host != "feed.example.com" || target.Query().Get("client") != "client-42" {
		t.Fatalf("forwarded target = %q", gotTarget)
	}
}

func TestRedactClientID(t *testing.T) {
	t.Parallel()

	in := "https://feed.example.com/x?client=secret123&lang=en client_id=abc"
	out := redactClientID(in)
	if out != "https://feed.example.com/x?client=REDACTED&lang=en client_id=REDACTED" {
		t.Fatalf("redactClientID = %q", out)
	}
}
