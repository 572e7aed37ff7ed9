package multiplayer

import (
	"sync"
	"time"
)

// RaceResult contains the outcome of a completed race.
type RaceResult struct {
	MatchID MatchID
	Reason  RaceEndReason
	Winner  PlayerID // 0 on a draw
	Score1  int
	Score2  int
}

// Race is an active versus match. Both players play the same seeded board
// locally; the race only tracks reported scores and the clock. There is no
// server-side game simulation to stay authoritative over: the shared seed
// makes the boards identical, and a score race has no contested state.
type Race struct {
	id       MatchID
	code     string
	gameID   string
	seed     int64
	duration time.Duration

	player1Session SessionHandle
	player2Session SessionHandle

	mu     sync.Mutex
	score1 int
	score2 int
	stuck1 bool
	stuck2 bool

	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

// NewRace creates a new versus race.
func NewRace(
	id MatchID,
	code string,
	gameID string,
	seed int64,
	duration time.Duration,
	p1Session, p2Session SessionHandle,
) *Race {
	return &Race{
		id:             id,
		code:           code,
		gameID:         gameID,
		seed:           seed,
		duration:       duration,
		player1Session: p1Session,
		player2Session: p2Session,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (r *Race) ID() MatchID {
	return r.id
}

// Code returns the join code used to create this race.
func (r *Race) Code() string {
	return r.code
}

// GameID returns the game identifier.
func (r *Race) GameID() string {
	return r.gameID
}

// Seed returns the shared board seed.
func (r *Race) Seed() int64 {
	return r.seed
}

// ReportScore records a player's current score. Scores only move forward;
// a stale report cannot lower them.
func (r *Race) ReportScore(sessionID SessionID, score int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch sessionID {
	case r.player1Session.ID():
		if score > r.score1 {
			r.score1 = score
		}
	case r.player2Session.ID():
		if score > r.score2 {
			r.score2 = score
		}
	}
}

// PlayerStuck marks a player as out of moves. The race ends early once
// both players are stuck.
func (r *Race) PlayerStuck(sessionID SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch sessionID {
	case r.player1Session.ID():
		r.stuck1 = true
	case r.player2Session.ID():
		r.stuck2 = true
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (r *Race) PlayerDisconnected(sessionID SessionID) {
	select {
	case r.disconnectChan <- sessionID:
	default:
	}
}

// Scores returns the current scores.
func (r *Race) Scores() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score1, r.score2
}

// Run drives the race clock: it broadcasts score updates once per second
// and ends the race when the clock expires or both players are stuck.
// The callback is called with the final result.
func (r *Race) Run(onComplete func(RaceResult)) {
	defer func() {
		r.doneOnce.Do(func() {
			close(r.done)
		})
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	go r.monitorSessions()

	deadline := time.Now().Add(r.duration)

	for {
		select {
		case <-ticker.C:
			remaining := int(time.Until(deadline).Seconds())
			if remaining < 0 {
				remaining = 0
			}

			r.mu.Lock()
			update := ScoreUpdateEvent{
				MatchID:       r.id,
				Score1:        r.score1,
				Score2:        r.score2,
				RemainingSecs: remaining,
			}
			bothStuck := r.stuck1 && r.stuck2
			r.mu.Unlock()

			r.player1Session.Send(update)
			r.player2Session.Send(update)

			if remaining == 0 {
				if onComplete != nil {
					onComplete(r.result(RaceEndReasonTimeUp, 0))
				}
				return
			}
			if bothStuck {
				if onComplete != nil {
					onComplete(r.result(RaceEndReasonBothStuck, 0))
				}
				return
			}

		case sessionID := <-r.disconnectChan:
			if onComplete != nil {
				onComplete(r.handleDisconnect(sessionID))
			}
			return

		case <-r.done:
			return
		}
	}
}

// result builds the final result. With forcedWinner zero, the higher score
// wins and equal scores are a draw.
func (r *Race) result(reason RaceEndReason, forcedWinner PlayerID) RaceResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	winner := forcedWinner
	if winner == 0 {
		switch {
		case r.score1 > r.score2:
			winner = Player1
		case r.score2 > r.score1:
			winner = Player2
		}
	}

	return RaceResult{
		MatchID: r.id,
		Reason:  reason,
		Winner:  winner,
		Score1:  r.score1,
		Score2:  r.score2,
	}
}

func (r *Race) handleDisconnect(sessionID SessionID) RaceResult {
	winner := Player1
	if sessionID == r.player1Session.ID() {
		winner = Player2
	}
	return r.result(RaceEndReasonDisconnect, winner)
}

func (r *Race) monitorSessions() {
	select {
	case <-r.player1Session.Done():
		r.PlayerDisconnected(r.player1Session.ID())
	case <-r.player2Session.Done():
		r.PlayerDisconnected(r.player2Session.ID())
	case <-r.done:
	}
}

// Stop gracefully stops the race.
func (r *Race) Stop() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}
