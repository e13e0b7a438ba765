package repo

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const usernameField = "username"

// PlayerRepository answers display-name lookups from the "player:<id>"
// hashes the account service writes to Redis.
type PlayerRepository struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

func NewPlayerRepository(client *redis.Client, log *zap.SugaredLogger) *PlayerRepository {
	return &PlayerRepository{
		client: client,
		log:    log,
	}
}

func playerKey(playerID string) string {
	return "player:" + playerID
}

func (p *PlayerRepository) GetPlayerDisplayName(ctx context.Context, playerID string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	name, err := p.client.HGet(ctx, playerKey(playerID), usernameField).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.log.Errorf("failed to look up player %s: %v", playerID, err)
		}
		return "", false
	}
	return name, name != ""
}

func (p *PlayerRepository) StorePlayer(ctx context.Context, playerID, username string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return p.client.HSet(ctx, playerKey(playerID), usernameField, username).Err()
}
