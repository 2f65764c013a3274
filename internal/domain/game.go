package domain

import "time"

// PlayerSlot - one of the two fixed player positions
type PlayerSlot string

const (
	SlotA PlayerSlot = "A"
	SlotB PlayerSlot = "B"
)

// Other returns the opposing slot.
func (s PlayerSlot) Other() PlayerSlot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Phase - where the current round stands
type Phase string

const (
	PhaseSetRecord  Phase = "SET_RECORD"
	PhaseSetJudge   Phase = "SET_JUDGE"
	PhaseRespRecord Phase = "RESP_RECORD"
	PhaseRespJudge  Phase = "RESP_JUDGE"
)

// HistoryResult - outcome recorded for a round
type HistoryResult string

const (
	ResultDeclinedSet HistoryResult = "declined_set"
	ResultApprovedSet HistoryResult = "approved_set"
	ResultLanded      HistoryResult = "landed"
	ResultFailed      HistoryResult = "failed"
)

// LetterSequence is the full penalty sequence. A player holding all
// three letters is eliminated.
const LetterSequence = "SK8"

// Player - one slot's occupant. UID is empty until the slot is filled.
type Player struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Letters string `json:"letters"`
}

// CurrentRound - scratch state for the round in progress, reset when
// the round resolves.
type CurrentRound struct {
	By        PlayerSlot `json:"by"`
	Responder PlayerSlot `json:"responder,omitempty"`
	SetPath   string     `json:"set_path,omitempty"`
	RespPath  string     `json:"resp_path,omitempty"`
}

// HistoryEntry - one resolved (or pending-response) round. Only the
// last entry may ever be amended, and only to attach the response
// outcome to its approved_set record.
type HistoryEntry struct {
	By       PlayerSlot    `json:"by"`
	SetPath  string        `json:"set_path,omitempty"`
	RespPath string        `json:"resp_path,omitempty"`
	Result   HistoryResult `json:"result"`
	TS       time.Time     `json:"ts"`
}

// Game - the aggregate root, one row per game.
type Game struct {
	ID        string                `json:"id"`
	Code      string                `json:"code"`
	Turn      PlayerSlot            `json:"turn"`
	Phase     Phase                 `json:"phase"`
	Winner    PlayerSlot            `json:"winner,omitempty"`
	Players   map[PlayerSlot]Player `json:"players"`
	Current   CurrentRound          `json:"current"`
	History   []HistoryEntry        `json:"history"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// SlotOf maps a uid to its slot, or "" when the uid holds no slot.
func (g *Game) SlotOf(uid string) PlayerSlot {
	if uid == "" {
		return ""
	}
	if g.Players[SlotA].UID == uid {
		return SlotA
	}
	if g.Players[SlotB].UID == uid {
		return SlotB
	}
	return ""
}

// Finished reports whether a winner has been declared.
func (g *Game) Finished() bool {
	return g.Winner != ""
}
