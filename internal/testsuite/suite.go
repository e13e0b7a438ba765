package testsuite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"

	mongoPort  = "27017/tcp"
	mongoImage = "mongo"
	mongoTag   = "7"
)

type Suite struct {
	*testing.T
	Logger *zap.SugaredLogger

	Redis *redis.Client
	Mongo *mongo.Database
}

// New starts throwaway Redis and MongoDB containers for one test. The test
// is skipped when no Docker daemon is reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	pool.MaxWait = maxWaitDuration

	return ctx, &Suite{
		T:      t,
		Logger: zap.NewNop().Sugar(),
		Redis:  startRedis(ctx, t, pool),
		Mongo:  startMongo(ctx, t, pool),
	}
}

func run(t *testing.T, pool *dockertest.Pool, repository, tag string) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: repository,
		Tag:        tag,
		Env:        []string{},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start %s: %v", repository, err)
	}

	// hard kill in case cleanup never runs
	_ = resource.Expire(expireDuration)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge %s: %v", repository, err)
		}
	})
	return resource
}

func startRedis(ctx context.Context, t *testing.T, pool *dockertest.Pool) *redis.Client {
	t.Helper()

	resource := run(t, pool, redisImage, redisTag)
	host := resource.GetHostPort(redisPort)

	var client *redis.Client
	if err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: host})
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func startMongo(ctx context.Context, t *testing.T, pool *dockertest.Pool) *mongo.Database {
	t.Helper()

	resource := run(t, pool, mongoImage, mongoTag)
	uri := "mongodb://" + resource.GetHostPort(mongoPort)

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return err
		}
		return client.Ping(ctx, nil)
	}); err != nil {
		t.Fatalf("could not connect to mongo: %v", err)
	}

	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("baduk_test")
}
