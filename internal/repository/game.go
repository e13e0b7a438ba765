package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
)

const (
	gamesCollection = "games"
	callTimeout     = 5 * time.Second
)

// GameRepository keeps games in MongoDB and the SGF of finished games in
// Redis.
type GameRepository struct {
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func (g *GameRepository) CreateGame(ctx context.Context, play *game.Game) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)

	if _, err := collection.InsertOne(ctx, play.Record()); err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return "", err
	}

	g.log.Infof("game inserted successfully with id: %s", play.ID)
	return play.ID, nil
}

// UpdateGame rewrites everything but the move list, which only grows
// through AppendMove.
func (g *GameRepository) UpdateGame(ctx context.Context, id string, play *game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)

	rec := play.Record()
	set := bson.M{
		"board":          rec.Board,
		"board_size":     rec.BoardSize,
		"player_black":   rec.PlayerBlack,
		"player_white":   rec.PlayerWhite,
		"black_name":     rec.BlackName,
		"white_name":     rec.WhiteName,
		"black_captures": rec.BlackCaptures,
		"white_captures": rec.WhiteCaptures,
		"state":          rec.State,
		"turn":           rec.Turn,
	}
	if rec.EndedAt != nil {
		set["ended_at"] = *rec.EndedAt
	}
	if rec.Result != "" {
		set["result"] = rec.Result
	}

	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		g.log.Errorf("failed to update game %s: %v", id, err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, id)
	}
	return nil
}

func (g *GameRepository) AppendMove(ctx context.Context, id string, move game.Move) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)

	update := bson.M{
		"$push": bson.M{
			"moves": move.Request(),
		},
	}

	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		g.log.Errorf("failed to append move to game %s: %v", id, err)
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, id)
	}
	return nil
}

func (g *GameRepository) GetGame(ctx context.Context, id string) (*game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)

	var rec game.Record
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return nil, err
	}

	return game.FromRecord(rec)
}

func (g *GameRepository) SaveSGF(ctx context.Context, key string, sgfText string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return g.redis.Set(ctx, key, sgfText, 0).Err()
}

func (g *GameRepository) LoadSGF(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return g.redis.Get(ctx, key).Result()
}
