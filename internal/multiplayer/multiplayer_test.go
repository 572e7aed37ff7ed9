package multiplayer

import (
	"strings"
	"testing"
	"time"
)

func drainEvent(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	select {
	case evt := <-s.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session event")
		return nil
	}
}

func TestJoinCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q should be 6 chars", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q should be uppercase", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes should vary across generations")
	}
}

func TestLobbyJoinStartsRaceWithSharedSeed(t *testing.T) {
	registry := NewSessionRegistry()
	host := NewChannelSession("host", 16)
	joiner := NewChannelSession("joiner", 16)
	registry.Register(host)
	registry.Register(joiner)

	c := NewCoordinator(DefaultCoordinatorConfig(), registry)

	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "gemfall_zen"})
	created, ok := drainEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatal("host should receive LobbyCreatedEvent")
	}
	if c.LobbyCount() != 1 {
		t.Fatalf("LobbyCount = %d, want 1", c.LobbyCount())
	}

	c.handleMessage(JoinLobbyMsg{SessionID: "joiner", Code: created.Code})

	// Host: joined then started. Joiner: joined then started.
	if _, ok := drainEvent(t, host).(LobbyJoinedEvent); !ok {
		t.Fatal("host should receive LobbyJoinedEvent")
	}
	hostStart, ok := drainEvent(t, host).(RaceStartedEvent)
	if !ok {
		t.Fatal("host should receive RaceStartedEvent")
	}
	if _, ok := drainEvent(t, joiner).(LobbyJoinedEvent); !ok {
		t.Fatal("joiner should receive LobbyJoinedEvent")
	}
	joinerStart, ok := drainEvent(t, joiner).(RaceStartedEvent)
	if !ok {
		t.Fatal("joiner should receive RaceStartedEvent")
	}

	if hostStart.Seed != joinerStart.Seed {
		t.Errorf("seeds differ: %d vs %d", hostStart.Seed, joinerStart.Seed)
	}
	if hostStart.Side != Player1 || joinerStart.Side != Player2 {
		t.Error("host should be Player1 and joiner Player2")
	}
	if c.LobbyCount() != 0 {
		t.Error("lobby should be consumed when the race starts")
	}
	if c.RaceCount() != 1 {
		t.Errorf("RaceCount = %d, want 1", c.RaceCount())
	}

	if race, ok := c.GetRace(hostStart.MatchID); ok {
		race.Stop()
	}
}

func TestJoinOwnLobbyRejected(t *testing.T) {
	registry := NewSessionRegistry()
	host := NewChannelSession("host", 16)
	registry.Register(host)

	c := NewCoordinator(DefaultCoordinatorConfig(), registry)
	c.handleMessage(CreateLobbyMsg{SessionID: "host", GameID: "gemfall_zen"})
	created := drainEvent(t, host).(LobbyCreatedEvent)

	// The host is already tracked as in a lobby, so the join is rejected
	// before the own-lobby check even fires.
	c.handleMessage(JoinLobbyMsg{SessionID: "host", Code: created.Code})
	if _, ok := drainEvent(t, host).(LobbyErrorEvent); !ok {
		t.Error("joining a lobby while hosting one should fail")
	}
}

func TestRaceScoreReporting(t *testing.T) {
	p1 := NewChannelSession("p1", 16)
	p2 := NewChannelSession("p2", 16)
	race := NewRace("m1", "ABCDEF", "gemfall_zen", 42, time.Minute, p1, p2)

	race.ReportScore("p1", 100)
	race.ReportScore("p2", 250)
	race.ReportScore("p1", 80) // stale report must not lower the score
	race.ReportScore("unknown", 999)

	s1, s2 := race.Scores()
	if s1 != 100 || s2 != 250 {
		t.Errorf("scores = (%d, %d), want (100, 250)", s1, s2)
	}
}

func TestRaceResultWinner(t *testing.T) {
	p1 := NewChannelSession("p1", 16)
	p2 := NewChannelSession("p2", 16)
	race := NewRace("m1", "ABCDEF", "gemfall_zen", 42, time.Minute, p1, p2)

	race.ReportScore("p1", 300)
	race.ReportScore("p2", 200)

	res := race.result(RaceEndReasonTimeUp, 0)
	if res.Winner != Player1 {
		t.Errorf("winner = %d, want Player1", res.Winner)
	}
	if res.Score1 != 300 || res.Score2 != 200 {
		t.Errorf("scores = (%d, %d), want (300, 200)", res.Score1, res.Score2)
	}

	// Equal scores are a draw
	race.ReportScore("p2", 300)
	if res := race.result(RaceEndReasonTimeUp, 0); res.Winner != 0 {
		t.Errorf("equal scores should draw, got winner %d", res.Winner)
	}
}

func TestRaceDisconnectAwardsOpponent(t *testing.T) {
	p1 := NewChannelSession("p1", 16)
	p2 := NewChannelSession("p2", 16)
	race := NewRace("m1", "ABCDEF", "gemfall_zen", 42, time.Minute, p1, p2)

	res := race.handleDisconnect("p1")
	if res.Winner != Player2 {
		t.Errorf("winner = %d, want Player2 after p1 disconnect", res.Winner)
	}
	if res.Reason != RaceEndReasonDisconnect {
		t.Errorf("reason = %v, want disconnect", res.Reason)
	}
}

func TestChannelSessionDropsOldestWhenFull(t *testing.T) {
	s := NewChannelSession("s", 2)
	s.Send(LobbyErrorEvent{Message: "one"})
	s.Send(LobbyErrorEvent{Message: "two"})
	s.Send(LobbyErrorEvent{Message: "three"}) // overflows, drops "one"

	first := drainEvent(t, s).(LobbyErrorEvent)
	if first.Message != "two" {
		t.Errorf("first buffered event = %q, want %q", first.Message, "two")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := NewChannelSession("abc", 4)

	r.Register(s)
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
	if got, ok := r.Get("abc"); !ok || got.ID() != "abc" {
		t.Error("Get should return the registered session")
	}

	r.Unregister("abc")
	if _, ok := r.Get("abc"); ok {
		t.Error("Get should miss after Unregister")
	}
}
