package game

import (
	"time"

	"sk8_webapp/internal/domain"
)

// Pure transitions over the Game aggregate. Nothing in this package
// touches storage or transport; callers run these inside a store
// transaction and persist the mutated aggregate on success.

// New builds the initial aggregate for a freshly allocated id and code.
// The creator takes slot A and the first set.
func New(id, code, uid, name string, now time.Time) *domain.Game {
	return &domain.Game{
		ID:    id,
		Code:  code,
		Turn:  domain.SlotA,
		Phase: domain.PhaseSetRecord,
		Players: map[domain.PlayerSlot]domain.Player{
			domain.SlotA: {UID: uid, Name: name},
			domain.SlotB: {},
		},
		Current:   domain.CurrentRound{By: domain.SlotA},
		History:   []domain.HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Join fills slot B, or just refreshes the display name when the
// caller already holds a slot (rejoin after reinstall etc).
func Join(g *domain.Game, uid, name string) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	b := g.Players[domain.SlotB]
	if b.UID != "" && b.UID != uid {
		return domain.NewError(domain.KindFailedPrecondition, "game already has two players")
	}
	if a := g.Players[domain.SlotA]; a.UID == uid {
		a.Name = name
		g.Players[domain.SlotA] = a
		return nil
	}
	b.UID = uid
	b.Name = name
	g.Players[domain.SlotB] = b
	return nil
}

// SubmitSetClip records the setter's trick clip and hands judgement to
// the opponent.
func SubmitSetClip(g *domain.Game, uid, clipPath string, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if err := requirePhase(g, domain.PhaseSetRecord); err != nil {
		return err
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	if slot != g.Current.By || slot != g.Turn {
		return domain.NewError(domain.KindFailedPrecondition, "it is not your turn to set")
	}
	if g.Current.SetPath != "" {
		return domain.NewError(domain.KindFailedPrecondition, "set clip already submitted")
	}

	g.Current = domain.CurrentRound{
		By:        slot,
		Responder: slot.Other(),
		SetPath:   clipPath,
	}
	g.Phase = domain.PhaseSetJudge
	return nil
}

// JudgeSet is the opponent's call on the set clip. Approval opens the
// response; a decline sends the same setter back to record.
func JudgeSet(g *domain.Game, uid string, approve bool, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if err := requirePhase(g, domain.PhaseSetJudge); err != nil {
		return err
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	setter := g.Current.By
	if slot != setter.Other() {
		return domain.NewError(domain.KindPermissionDenied, "only the opponent can judge the set")
	}
	if g.Current.SetPath == "" {
		return domain.NewError(domain.KindFailedPrecondition, "set clip missing")
	}

	if approve {
		appendHistory(g, domain.HistoryEntry{
			By:      setter,
			SetPath: g.Current.SetPath,
			Result:  domain.ResultApprovedSet,
		}, now)
		g.Phase = domain.PhaseRespRecord
		g.Current.Responder = setter.Other()
	} else {
		appendHistory(g, domain.HistoryEntry{
			By:      setter,
			SetPath: g.Current.SetPath,
			Result:  domain.ResultDeclinedSet,
		}, now)
		g.Phase = domain.PhaseSetRecord
		g.Current = domain.CurrentRound{By: setter}
	}
	return nil
}

// SubmitRespClip records the responder's attempt at matching the set.
func SubmitRespClip(g *domain.Game, uid, clipPath string, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if err := requirePhase(g, domain.PhaseRespRecord); err != nil {
		return err
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	if g.Current.Responder == "" || slot != g.Current.Responder {
		return domain.NewError(domain.KindFailedPrecondition, "it is not your turn to respond")
	}
	if g.Current.RespPath != "" {
		return domain.NewError(domain.KindFailedPrecondition, "response already submitted")
	}

	g.Current.RespPath = clipPath
	g.Phase = domain.PhaseRespJudge
	return nil
}

// JudgeResp is the setter's call on the response. The round's
// approved_set history entry is amended in place with the outcome;
// a miss costs the responder a letter and may end the game.
func JudgeResp(g *domain.Game, uid string, approve bool, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if err := requirePhase(g, domain.PhaseRespJudge); err != nil {
		return err
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	setter := g.Current.By
	if slot != setter {
		return domain.NewError(domain.KindPermissionDenied, "only the setter can judge the response")
	}
	responder := g.Current.Responder
	if responder == "" {
		responder = setter.Other()
	}
	if err := requireApprovedSet(g); err != nil {
		return err
	}
	if approve && g.Current.RespPath == "" {
		return domain.NewError(domain.KindFailedPrecondition, "response clip missing")
	}

	if approve {
		if err := amendLastHistory(g, domain.ResultLanded, g.Current.RespPath, now); err != nil {
			return err
		}
	} else {
		if err := scoreMiss(g, responder, setter, now); err != nil {
			return err
		}
	}

	startNextRound(g, setter.Other())
	return nil
}

// SelfFailSet is the setter conceding the set attempt. The turn flips
// but no letter accrues: a failed set only forfeits the set.
func SelfFailSet(g *domain.Game, uid string, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if err := requirePhase(g, domain.PhaseSetRecord); err != nil {
		return err
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	if slot != g.Current.By || slot != g.Turn {
		return domain.NewError(domain.KindFailedPrecondition, "it is not your turn")
	}

	appendHistory(g, domain.HistoryEntry{
		By:     slot,
		Result: domain.ResultFailed,
	}, now)
	startNextRound(g, slot.Other())
	return nil
}

// SelfFailResp is the responder conceding the response. Scores exactly
// like a declined response: letter to the responder, turn flips.
func SelfFailResp(g *domain.Game, uid string, now time.Time) error {
	if err := requireInProgress(g); err != nil {
		return err
	}
	if g.Phase != domain.PhaseRespRecord && g.Phase != domain.PhaseRespJudge {
		return domain.NewError(domain.KindFailedPrecondition, "no response in progress")
	}
	slot, err := requireParticipant(g, uid)
	if err != nil {
		return err
	}
	setter := g.Current.By
	responder := g.Current.Responder
	if responder == "" {
		responder = setter.Other()
	}
	if slot != responder {
		return domain.NewError(domain.KindFailedPrecondition, "only the responder can concede")
	}
	if err := requireApprovedSet(g); err != nil {
		return err
	}

	if err := scoreMiss(g, responder, setter, now); err != nil {
		return err
	}
	startNextRound(g, setter.Other())
	return nil
}

func requireInProgress(g *domain.Game) error {
	if g.Finished() {
		return domain.NewError(domain.KindFailedPrecondition, "game has already finished")
	}
	return nil
}

func requirePhase(g *domain.Game, phase domain.Phase) error {
	if g.Phase != phase {
		return domain.Errorf(domain.KindFailedPrecondition, "game is not in the %s phase", phase)
	}
	return nil
}

func requireParticipant(g *domain.Game, uid string) (domain.PlayerSlot, error) {
	slot := g.SlotOf(uid)
	if slot == "" {
		return "", domain.NewError(domain.KindPermissionDenied, "you are not part of this game")
	}
	return slot, nil
}

func requireApprovedSet(g *domain.Game) error {
	if len(g.History) == 0 || g.History[len(g.History)-1].Result != domain.ResultApprovedSet {
		return domain.NewError(domain.KindFailedPrecondition, "set has not been approved")
	}
	return nil
}

func appendHistory(g *domain.Game, entry domain.HistoryEntry, now time.Time) {
	entry.TS = now
	g.History = append(g.History, entry)
}

// amendLastHistory rewrites the outcome of the most recent round in
// place. History is otherwise append-only; a call with no history is a
// bug upstream, not a user error.
func amendLastHistory(g *domain.Game, result domain.HistoryResult, respPath string, now time.Time) error {
	if len(g.History) == 0 {
		return domain.NewError(domain.KindInternal, "history is out of sync")
	}
	last := &g.History[len(g.History)-1]
	last.Result = result
	if respPath != "" {
		last.RespPath = respPath
	}
	last.TS = now
	return nil
}

// scoreMiss gives the responder their next letter, amends the round to
// failed, and declares the setter winner on the terminal letter.
func scoreMiss(g *domain.Game, responder, setter domain.PlayerSlot, now time.Time) error {
	p := g.Players[responder]
	letters, eliminated := addLetter(p.Letters)
	p.Letters = letters
	g.Players[responder] = p

	if err := amendLastHistory(g, domain.ResultFailed, g.Current.RespPath, now); err != nil {
		return err
	}
	if eliminated {
		g.Winner = setter
	}
	return nil
}

func startNextRound(g *domain.Game, setter domain.PlayerSlot) {
	g.Turn = setter
	g.Phase = domain.PhaseSetRecord
	g.Current = domain.CurrentRound{By: setter}
}

// addLetter appends the next symbol of the sequence. Letters only ever
// grow, capped at the full sequence.
func addLetter(letters string) (string, bool) {
	if len(letters) >= len(domain.LetterSequence) {
		return letters, true
	}
	updated := letters + string(domain.LetterSequence[len(letters)])
	return updated, len(updated) >= len(domain.LetterSequence)
}
