package multiplayer

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both host and joiner when someone joins.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID // which side this session plays
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent is sent when a player leaves the lobby before the
// race starts.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// RaceStartedEvent is sent when the race begins. Both players receive the
// same Seed and must build their board from it so the race is fair.
type RaceStartedEvent struct {
	MatchID      MatchID
	Side         PlayerID
	Code         string
	Seed         int64
	DurationSecs int
}

func (RaceStartedEvent) sessionEvent() {}

// ScoreUpdateEvent relays the opponent's latest score and the race clock.
type ScoreUpdateEvent struct {
	MatchID       MatchID
	Score1        int
	Score2        int
	RemainingSecs int
}

func (ScoreUpdateEvent) sessionEvent() {}

// RaceEndedEvent is sent when the race ends.
type RaceEndedEvent struct {
	MatchID MatchID
	Reason  RaceEndReason
	Winner  PlayerID // 0 on a draw
	Score1  int
	Score2  int
}

func (RaceEndedEvent) sessionEvent() {}

// RaceEndReason describes why a race ended.
type RaceEndReason int

const (
	RaceEndReasonTimeUp      RaceEndReason = iota // race clock expired
	RaceEndReasonBothStuck                        // both players ran out of moves
	RaceEndReasonDisconnect                       // opponent disconnected
	RaceEndReasonCancelled                        // match was cancelled
	RaceEndReasonHostLeft                         // host left the lobby
)

func (r RaceEndReason) String() string {
	switch r {
	case RaceEndReasonTimeUp:
		return "Time up"
	case RaceEndReasonBothStuck:
		return "Both players stuck"
	case RaceEndReasonDisconnect:
		return "Opponent disconnected"
	case RaceEndReasonCancelled:
		return "Race cancelled"
	case RaceEndReasonHostLeft:
		return "Host left"
	default:
		return "Unknown"
	}
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg requests leaving a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg requests leaving an active race.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// ScoreReportMsg reports a player's current score to the race.
type ScoreReportMsg struct {
	MatchID   MatchID
	SessionID SessionID
	Score     int
}

func (ScoreReportMsg) coordinatorMessage() {}

// PlayerStuckMsg signals that a player has no moves and no rotations left.
// The race ends early once both players are stuck.
type PlayerStuckMsg struct {
	MatchID   MatchID
	SessionID SessionID
}

func (PlayerStuckMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
