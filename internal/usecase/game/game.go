package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
)

const DefaultAnonName = "Anon"

type GameStore interface {
	CreateGame(ctx context.Context, g *game.Game) (string, error)
	UpdateGame(ctx context.Context, id string, g *game.Game) error
	AppendMove(ctx context.Context, id string, move game.Move) error
	GetGame(ctx context.Context, id string) (*game.Game, error)
}

// PlayerDirectory resolves a player id to the name shown to other players.
type PlayerDirectory interface {
	GetPlayerDisplayName(ctx context.Context, playerID string) (string, bool)
}

type SGFCache interface {
	SaveSGF(ctx context.Context, key string, sgf string) error
	LoadSGF(ctx context.Context, key string) (string, error)
}

type MoveOutcome int

const (
	OutcomeNone MoveOutcome = iota
	OutcomeAccepted
	OutcomeRejected
	OutcomeIgnored
	OutcomeEnded
)

func (o MoveOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeEnded:
		return "ended"
	}
	return "none"
}

// MoveResult tells the caller what happened to a submitted move. A rejected
// move is a normal result, the reason is in Violation.
type MoveResult struct {
	Outcome   MoveOutcome
	Violation game.Violation
	Captured  game.Capture
}

type GameUseCase struct {
	store    GameStore
	players  PlayerDirectory
	sgfCache SGFCache
	log      *zap.SugaredLogger
	anonName string
	now      func() time.Time
	newID    func() string
}

func NewGameUseCase(store GameStore, players PlayerDirectory, sgfCache SGFCache, log *zap.SugaredLogger, anonName string) *GameUseCase {
	if anonName == "" {
		anonName = DefaultAnonName
	}
	return &GameUseCase{
		store:    store,
		players:  players,
		sgfCache: sgfCache,
		log:      log,
		anonName: anonName,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// NewGame starts an active game between playerA (black) and playerB (white).
func (g *GameUseCase) NewGame(ctx context.Context, playerA, playerB string, size int) (*game.Game, error) {
	play, err := game.New(g.newID(), playerA, playerB, size, g.now())
	if err != nil {
		return nil, err
	}

	play.BlackName, play.WhiteName = g.resolveNames(ctx, playerA, playerB)

	if _, err = g.store.CreateGame(ctx, play); err != nil {
		g.log.Errorf("failed to create game %s: %v", play.ID, err)
		return nil, fmt.Errorf("%w: %v", errs.ErrCreateGameFailed, err)
	}

	g.log.Infof("game %s created: %s vs %s on %dx%d", play.ID, play.BlackName, play.WhiteName, size, size)
	return play, nil
}

// NewMove applies move to the game with the given id.
//
// Illegal moves come back as OutcomeRejected with the unchanged game. Moves
// sent to a finished game are ignored. A pass answering a pass ends the
// game. Store write failures are logged and the updated game is still
// returned.
func (g *GameUseCase) NewMove(ctx context.Context, gameID string, move game.Move) (*game.Game, MoveResult, error) {
	if !move.Color.IsStone() {
		return nil, MoveResult{}, fmt.Errorf("%w: move without a color", errs.ErrMalformedMove)
	}

	play, err := g.loadGame(ctx, gameID)
	if err != nil {
		return nil, MoveResult{}, err
	}

	if play.IsDone() {
		g.log.Infof("attempted move %s on finished game %s", move, gameID)
		return play, MoveResult{Outcome: OutcomeIgnored}, nil
	}

	if move.PlayedAt.IsZero() {
		move.PlayedAt = g.now()
	}

	if move.Pass {
		if last, ok := play.LastMove(); ok && last.Pass {
			g.record(ctx, play, move)
			return g.EndGame(ctx, play), MoveResult{Outcome: OutcomeEnded}, nil
		}
	}

	violation, err := game.Validate(move, play)
	if err != nil {
		return nil, MoveResult{}, err
	}
	if violation != game.ViolationNone {
		g.log.Infof("game %s: rejected %s: %s", gameID, move, violation)
		return play, MoveResult{Outcome: OutcomeRejected, Violation: violation}, nil
	}

	var captured game.Capture
	if !move.Pass {
		if err = play.Board.Set(move.X, move.Y, move.Color); err != nil {
			return nil, MoveResult{}, err
		}
		captured, err = game.ApplyCapture(play.Board, move.Color, move.X, move.Y)
		if err != nil {
			return nil, MoveResult{}, err
		}
		play.AddCaptures(move.Color, captured.Count)
	}

	g.record(ctx, play, move)
	if err = g.store.UpdateGame(ctx, gameID, play); err != nil {
		g.log.Errorf("game %s: failed to store board after %s: %v", gameID, move, err)
	}

	return play, MoveResult{Outcome: OutcomeAccepted, Captured: captured}, nil
}

// record appends move to the history, hands the turn over and persists the
// move. Board changes are persisted by the caller.
func (g *GameUseCase) record(ctx context.Context, play *game.Game, move game.Move) {
	play.Moves = append(play.Moves, move)
	play.Turn = play.Turn.Opponent()

	if err := g.store.AppendMove(ctx, play.ID, move); err != nil {
		g.log.Errorf("game %s: failed to append move %s: %v", play.ID, move, err)
	}
}

// EndGame finishes play: area tally added to the captures, names resolved
// again, final record stored. Calling it twice counts the board twice.
func (g *GameUseCase) EndGame(ctx context.Context, play *game.Game) *game.Game {
	now := g.now()
	play.State = game.StateDone
	play.EndedAt = &now

	black, white := play.Tally()
	play.AddCaptures(game.Black, black)
	play.AddCaptures(game.White, white)

	play.BlackName, play.WhiteName = g.resolveNames(ctx, play.PlayerBlack, play.PlayerWhite)

	if err := g.store.UpdateGame(ctx, play.ID, play); err != nil {
		g.log.Errorf("bad write on ending game %s: %v", play.ID, err)
	}

	g.log.Infof("game %s finished: %s (black %d, white %d)", play.ID, play.Result(), play.BlackCaptures, play.WhiteCaptures)
	g.saveSGF(ctx, play.ID, SerializeSGF(PrepareSgfFile(play)))
	return play
}

// Terminate ends an active game on request. A finished game is returned as is.
func (g *GameUseCase) Terminate(ctx context.Context, gameID string) (*game.Game, error) {
	play, err := g.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if play.IsDone() {
		g.log.Infof("termination of finished game %s ignored", gameID)
		return play, nil
	}
	return g.EndGame(ctx, play), nil
}

func (g *GameUseCase) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	return g.loadGame(ctx, gameID)
}

// loadGame guards against the store handing back a different game.
func (g *GameUseCase) loadGame(ctx context.Context, gameID string) (*game.Game, error) {
	play, err := g.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, errs.ErrGameNotFound) {
			g.log.Warnf("game %s not found", gameID)
			return nil, errs.ErrGameNotFound
		}
		g.log.Errorf("failed to load game %s: %v", gameID, err)
		return nil, fmt.Errorf("%w: %v", errs.ErrInternal, err)
	}
	if play == nil || play.ID != gameID {
		got := ""
		if play != nil {
			got = play.ID
		}
		g.log.Warnf("asked for game %s, store returned %q", gameID, got)
		return nil, errs.ErrGameNotFound
	}
	return play, nil
}

// resolveNames looks both players up at the same time and waits for both.
func (g *GameUseCase) resolveNames(ctx context.Context, blackID, whiteID string) (black, white string) {
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		black = g.displayName(gctx, blackID)
		return nil
	})
	grp.Go(func() error {
		white = g.displayName(gctx, whiteID)
		return nil
	})
	_ = grp.Wait()
	return black, white
}

func (g *GameUseCase) displayName(ctx context.Context, playerID string) string {
	if g.players == nil || playerID == "" {
		return g.anonName
	}
	name, ok := g.players.GetPlayerDisplayName(ctx, playerID)
	if !ok || name == "" {
		return g.anonName
	}
	return name
}
