package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/game"
	"sk8_webapp/internal/logger"
)

// GameStore is the narrow storage surface the service needs: plain
// reads plus one atomic read-modify-write primitive.
type GameStore interface {
	Create(ctx context.Context, g *domain.Game) error
	GetByID(ctx context.Context, id string) (*domain.Game, error)
	FindIDByCode(ctx context.Context, code string) (string, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Transform(ctx context.Context, id string, fn func(g *domain.Game) error) (*domain.Game, error)
	ListByUser(ctx context.Context, uid string) ([]*domain.Game, error)
}

// Publisher pushes a committed snapshot to subscribed observers.
type Publisher interface {
	PublishGame(gameID string, snapshot []byte)
}

// GameService runs the action surface: validate input, resolve the
// caller's slot, apply the pure transition inside a store transaction,
// then push the committed snapshot.
type GameService struct {
	store GameStore
	pub   Publisher
}

// NewGameService wires the service. pub may be nil when no live
// snapshot channel is running.
func NewGameService(store GameStore, pub Publisher) *GameService {
	return &GameService{store: store, pub: pub}
}

func (s *GameService) Create(ctx context.Context, uid, name string) (*domain.Game, error) {
	name, err := game.ValidateName(name)
	if err != nil {
		return nil, err
	}
	code, err := game.NewCode(ctx, s.store.CodeExists)
	if err != nil {
		return nil, err
	}

	g := game.New(uuid.NewString(), code, uid, name, time.Now().UTC())
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	logger.Info("game created", "game_id", g.ID, "code", g.Code, "uid", uid)
	return g, nil
}

func (s *GameService) Join(ctx context.Context, uid, name, code string) (*domain.Game, error) {
	name, err := game.ValidateName(name)
	if err != nil {
		return nil, err
	}
	code, err = game.ValidateCode(code)
	if err != nil {
		return nil, err
	}
	id, err := s.store.FindIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	g, err := s.mutate(ctx, id, func(g *domain.Game) error {
		return game.Join(g, uid, name)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("player joined game", "game_id", id, "uid", uid)
	return g, nil
}

func (s *GameService) SubmitSetClip(ctx context.Context, uid, gameID, clipPath string) (*domain.Game, error) {
	clipPath, err := game.ValidateClipPath(clipPath)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.SubmitSetClip(g, uid, clipPath, time.Now().UTC())
	})
}

func (s *GameService) JudgeSet(ctx context.Context, uid, gameID string, approve bool) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.JudgeSet(g, uid, approve, time.Now().UTC())
	})
}

func (s *GameService) SubmitRespClip(ctx context.Context, uid, gameID, clipPath string) (*domain.Game, error) {
	clipPath, err := game.ValidateClipPath(clipPath)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.SubmitRespClip(g, uid, clipPath, time.Now().UTC())
	})
}

func (s *GameService) JudgeResp(ctx context.Context, uid, gameID string, approve bool) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.JudgeResp(g, uid, approve, time.Now().UTC())
	})
}

func (s *GameService) SelfFailSet(ctx context.Context, uid, gameID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.SelfFailSet(g, uid, time.Now().UTC())
	})
}

func (s *GameService) SelfFailResp(ctx context.Context, uid, gameID string) (*domain.Game, error) {
	return s.mutate(ctx, gameID, func(g *domain.Game) error {
		return game.SelfFailResp(g, uid, time.Now().UTC())
	})
}

// Get returns the full snapshot to a participant.
func (s *GameService) Get(ctx context.Context, uid, gameID string) (*domain.Game, error) {
	g, err := s.store.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.SlotOf(uid) == "" {
		return nil, domain.NewError(domain.KindPermissionDenied, "you are not part of this game")
	}
	return g, nil
}

// ListMine returns the caller's games, newest first.
func (s *GameService) ListMine(ctx context.Context, uid string) ([]*domain.Game, error) {
	return s.store.ListByUser(ctx, uid)
}

// IsParticipant reports whether uid holds a slot in the game. Used by
// the snapshot channel before subscribing a connection.
func (s *GameService) IsParticipant(ctx context.Context, uid, gameID string) (bool, error) {
	g, err := s.store.GetByID(ctx, gameID)
	if err != nil {
		return false, err
	}
	return g.SlotOf(uid) != "", nil
}

func (s *GameService) mutate(ctx context.Context, id string, fn func(g *domain.Game) error) (*domain.Game, error) {
	g, err := s.store.Transform(ctx, id, fn)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			logger.Error("game transition failed", "game_id", id, "error", err)
		}
		return nil, err
	}
	s.publish(g)
	return g, nil
}

func (s *GameService) publish(g *domain.Game) {
	if s.pub == nil {
		return
	}
	snapshot, err := json.Marshal(g)
	if err != nil {
		logger.Error("marshal game snapshot", "game_id", g.ID, "error", err)
		return
	}
	s.pub.PublishGame(g.ID, snapshot)
}
