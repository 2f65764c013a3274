package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"sk8_webapp/internal/domain"
)

// fakeGameStore keeps aggregates in memory behind a mutex, mimicking
// the store's atomic transform.
type fakeGameStore struct {
	mu    sync.Mutex
	games map[string]*domain.Game
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{games: make(map[string]*domain.Game)}
}

func cloneGame(g *domain.Game) *domain.Game {
	b, _ := json.Marshal(g)
	var out domain.Game
	_ = json.Unmarshal(b, &out)
	return &out
}

func (s *fakeGameStore) Create(_ context.Context, g *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = cloneGame(g)
	return nil
}

func (s *fakeGameStore) GetByID(_ context.Context, id string) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "game not found")
	}
	return cloneGame(g), nil
}

func (s *fakeGameStore) FindIDByCode(_ context.Context, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range s.games {
		if g.Code == code {
			return id, nil
		}
	}
	return "", domain.NewError(domain.KindNotFound, "game code not found")
}

func (s *fakeGameStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeGameStore) Transform(_ context.Context, id string, fn func(g *domain.Game) error) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[id]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "game not found")
	}
	g := cloneGame(stored)
	if err := fn(g); err != nil {
		return nil, err
	}
	s.games[id] = cloneGame(g)
	return g, nil
}

func (s *fakeGameStore) ListByUser(_ context.Context, uid string) ([]*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*domain.Game
	for _, g := range s.games {
		if g.SlotOf(uid) != "" {
			res = append(res, cloneGame(g))
		}
	}
	return res, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *fakePublisher) PublishGame(gameID string, _ []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, gameID)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func wantKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := domain.KindOf(err); got != kind {
		t.Fatalf("error kind = %s; want %s (err: %v)", got, kind, err)
	}
}

func TestCreateGame(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(newFakeGameStore(), nil)

	g, err := svc.Create(ctx, "uid-ann", " Ann ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.ID == "" || len(g.Code) != 6 {
		t.Fatalf("created game id=%q code=%q", g.ID, g.Code)
	}
	if strings.ContainsAny(g.Code, "0O1I") {
		t.Fatalf("code %q uses confusable characters", g.Code)
	}
	if g.Players[domain.SlotA].UID != "uid-ann" || g.Players[domain.SlotA].Name != "Ann" {
		t.Fatalf("slot A = %+v", g.Players[domain.SlotA])
	}
	if g.Phase != domain.PhaseSetRecord || g.Turn != domain.SlotA {
		t.Fatalf("phase=%s turn=%s", g.Phase, g.Turn)
	}

	_, err = svc.Create(ctx, "uid-ann", "x")
	wantKind(t, err, domain.KindInvalidArgument)
}

func TestJoinGame(t *testing.T) {
	ctx := context.Background()
	store := newFakeGameStore()
	svc := NewGameService(store, nil)

	created, err := svc.Create(ctx, "uid-ann", "Ann")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joined, err := svc.Join(ctx, "uid-bob", "Bob", strings.ToLower(created.Code))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != created.ID {
		t.Fatalf("joined game %q; want %q", joined.ID, created.ID)
	}
	if joined.SlotOf("uid-bob") != domain.SlotB {
		t.Fatalf("SlotOf(bob) = %q; want B", joined.SlotOf("uid-bob"))
	}

	_, err = svc.Join(ctx, "uid-carl", "Carl", "ZZZZZ2")
	wantKind(t, err, domain.KindNotFound)
}

func TestFullRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeGameStore()
	pub := &fakePublisher{}
	svc := NewGameService(store, pub)

	g, err := svc.Create(ctx, "uid-ann", "Ann")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Join(ctx, "uid-bob", "Bob", g.Code); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := svc.SubmitSetClip(ctx, "uid-ann", g.ID, "games/"+g.ID+"/set.mp4"); err != nil {
		t.Fatalf("submitSetClip: %v", err)
	}
	if _, err := svc.JudgeSet(ctx, "uid-bob", g.ID, true); err != nil {
		t.Fatalf("judgeSet: %v", err)
	}
	if _, err := svc.SubmitRespClip(ctx, "uid-bob", g.ID, "games/"+g.ID+"/resp.mp4"); err != nil {
		t.Fatalf("submitRespClip: %v", err)
	}
	final, err := svc.JudgeResp(ctx, "uid-ann", g.ID, true)
	if err != nil {
		t.Fatalf("judgeResp: %v", err)
	}

	if len(final.History) != 1 || final.History[0].Result != domain.ResultLanded {
		t.Fatalf("history: %+v", final.History)
	}
	if final.Turn != domain.SlotB || final.Phase != domain.PhaseSetRecord {
		t.Fatalf("turn=%s phase=%s; want B SET_RECORD", final.Turn, final.Phase)
	}

	// every committed mutation pushed a snapshot (join + 4 actions)
	if pub.count() != 5 {
		t.Fatalf("published snapshots = %d; want 5", pub.count())
	}
}

func TestRejectedTransitionDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewGameService(newFakeGameStore(), pub)

	g, err := svc.Create(ctx, "uid-ann", "Ann")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Join(ctx, "uid-bob", "Bob", g.Code); err != nil {
		t.Fatalf("join: %v", err)
	}
	before := pub.count()

	// wrong actor: no commit, no snapshot
	_, err = svc.SubmitSetClip(ctx, "uid-bob", g.ID, "games/"+g.ID+"/set.mp4")
	wantKind(t, err, domain.KindFailedPrecondition)
	if pub.count() != before {
		t.Fatalf("snapshot published for a rejected transition")
	}
}

func TestSubmitClipValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(newFakeGameStore(), nil)

	g, err := svc.Create(ctx, "uid-ann", "Ann")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.SubmitSetClip(ctx, "uid-ann", g.ID, "not-a-storage-path")
	wantKind(t, err, domain.KindInvalidArgument)

	_, err = svc.SubmitSetClip(ctx, "uid-ann", "missing-game", "games/x/set.mp4")
	wantKind(t, err, domain.KindNotFound)
}

func TestGetRequiresParticipation(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(newFakeGameStore(), nil)

	g, err := svc.Create(ctx, "uid-ann", "Ann")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "uid-ann", g.ID); err != nil {
		t.Fatalf("participant get: %v", err)
	}
	_, err = svc.Get(ctx, "uid-stranger", g.ID)
	wantKind(t, err, domain.KindPermissionDenied)
	_, err = svc.Get(ctx, "uid-ann", "missing")
	wantKind(t, err, domain.KindNotFound)
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(newFakeGameStore(), nil)

	g1, _ := svc.Create(ctx, "uid-ann", "Ann")
	g2, _ := svc.Create(ctx, "uid-ann", "Ann")
	if _, err := svc.Create(ctx, "uid-carl", "Carl"); err != nil {
		t.Fatalf("create: %v", err)
	}

	games, err := svc.ListMine(ctx, "uid-ann")
	if err != nil {
		t.Fatalf("listMine: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d; want 2", len(games))
	}
	ids := map[string]bool{g1.ID: false, g2.ID: false}
	for _, g := range games {
		ids[g.ID] = true
	}
	for id, seen := range ids {
		if !seen {
			t.Fatalf("game %s missing from listing", id)
		}
	}
}
