package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelotrevisani/roboto/internal/pkg/etcd"
	rds "github.com/marcelotrevisani/roboto/internal/pkg/redis"
)

const (
	ThreadPrefix   = "roboto:thread"
	LastReadPrefix = "roboto:last-read"

	// Processed-thread claims expire after a week; a new comment on the same
	// thread carries a fresh updated_at and therefore a fresh key anyway.
	ThreadRetention = 7 * 24 * time.Hour
)

// Repository persists which notification threads the bot has already
// handled and the inbox read high-water mark, so a restart does not replay
// mentions or double-post acknowledgements.
type Repository interface {
	ClaimThread(ctx context.Context, threadId string, updatedAt time.Time) (bool, error)
	ReleaseThread(ctx context.Context, threadId string, updatedAt time.Time) error
	CountProcessed(ctx context.Context) (int64, error)

	SetLastRead(ctx context.Context, t time.Time) error
	GetLastRead(ctx context.Context) (time.Time, bool, error)

	HealthCheck(ctx context.Context) error
}

type RepositoryConfig struct {
	RedisAddrs    string
	RedisUsername string
	RedisPassword string
	RedisTls      bool

	EtcdAddrs    []string
	EtcdUsername string
	EtcdPassword string
}

func New(ctx context.Context, cfg RepositoryConfig) (Repository, error) {
	if cfg.RedisAddrs != "" {
		redisCli, err := rds.New(ctx, rds.RedisConfig{
			Addr:     cfg.RedisAddrs,
			Password: cfg.RedisPassword,
			Username: cfg.RedisUsername,
			TLS:      cfg.RedisTls,
		})
		if err != nil {
			return nil, err
		}

		return NewRedisRepository(redisCli), nil
	}

	if len(cfg.EtcdAddrs) > 0 {
		etcdCli, err := etcd.New(ctx, etcd.EtcdConfig{
			EtcdAddrs:    cfg.EtcdAddrs,
			EtcdUsername: cfg.EtcdUsername,
			EtcdPassword: cfg.EtcdPassword,
		})
		if err != nil {
			return nil, err
		}

		return NewEtcdRepository(etcdCli), nil
	}

	return nil, fmt.Errorf("'RedisAddrs' nor 'EtcdAddrs' has been provided for 'notifications' repository")
}
