package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcelotrevisani/roboto/internal/app/notifications/repository"
	rds "github.com/marcelotrevisani/roboto/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type RedisRepositorySuite struct {
	suite.Suite
	repository *repository.RedisRepository
	client     *redis.Client
	keys       repository.Keys
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositorySuite))
}

func (suite *RedisRepositorySuite) SetupSuite() {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	suite.client = client
	suite.keys = repository.Keys{}
	suite.repository = repository.NewRedisRepository(&rds.Redis{Client: client})
}

func (suite *RedisRepositorySuite) TearDownSuite() {
	suite.client.Close()
}

func (suite *RedisRepositorySuite) BeforeTest(suiteName, testName string) {
	err := suite.client.FlushAll(context.Background()).Err()
	assert.NoErrorf(suite.T(), err, "Flushing all data from redis before each test within the test: %s", testName)
}

func (suite *RedisRepositorySuite) TestClaimThread() {
	updatedAt := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	newer := updatedAt.Add(2 * time.Hour)

	type claim struct {
		threadId  string
		updatedAt time.Time
	}

	type testCase struct {
		name            string
		claimedBefore   []claim
		threadId        string
		updatedAt       time.Time
		expectedClaimed bool
	}

	testCases := []testCase{
		{
			name:            "first claim of a thread state succeeds",
			threadId:        "1",
			updatedAt:       updatedAt,
			expectedClaimed: true,
		},
		{
			name:            "claiming the same thread state twice is rejected",
			claimedBefore:   []claim{{"1", updatedAt}},
			threadId:        "1",
			updatedAt:       updatedAt,
			expectedClaimed: false,
		},
		{
			name:            "new activity on a claimed thread is claimable",
			claimedBefore:   []claim{{"1", updatedAt}},
			threadId:        "1",
			updatedAt:       newer,
			expectedClaimed: true,
		},
		{
			name:            "claims on different threads do not collide",
			claimedBefore:   []claim{{"1", updatedAt}},
			threadId:        "2",
			updatedAt:       updatedAt,
			expectedClaimed: true,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			ctx := context.Background()
			suite.NoError(suite.client.FlushAll(ctx).Err())

			for _, c := range tc.claimedBefore {
				claimed, err := suite.repository.ClaimThread(ctx, c.threadId, c.updatedAt)
				suite.NoError(err)
				suite.True(claimed)
			}

			claimed, err := suite.repository.ClaimThread(ctx, tc.threadId, tc.updatedAt)
			suite.NoError(err)
			suite.Equal(tc.expectedClaimed, claimed)
		})
	}
}

func (suite *RedisRepositorySuite) TestClaimThreadSetsRetention() {
	ctx := context.Background()
	updatedAt := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	claimed, err := suite.repository.ClaimThread(ctx, "1", updatedAt)
	suite.NoError(err)
	suite.True(claimed)

	ttl, err := suite.client.TTL(ctx, suite.keys.GetThreadKey("1", updatedAt)).Result()
	suite.NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, repository.ThreadRetention)
}

func (suite *RedisRepositorySuite) TestReleaseThread() {
	ctx := context.Background()
	updatedAt := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	claimed, err := suite.repository.ClaimThread(ctx, "1", updatedAt)
	suite.NoError(err)
	suite.True(claimed)

	err = suite.repository.ReleaseThread(ctx, "1", updatedAt)
	suite.NoError(err)

	// released thread state can be claimed again
	claimed, err = suite.repository.ClaimThread(ctx, "1", updatedAt)
	suite.NoError(err)
	suite.True(claimed)

	// releasing a thread that was never claimed is a no-op
	err = suite.repository.ReleaseThread(ctx, "unknown", updatedAt)
	suite.NoError(err)
}

func (suite *RedisRepositorySuite) TestCountProcessed() {
	ctx := context.Background()
	updatedAt := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	count, err := suite.repository.CountProcessed(ctx)
	suite.NoError(err)
	suite.Equal(int64(0), count)

	for _, threadId := range []string{"1", "2", "3"} {
		claimed, err := suite.repository.ClaimThread(ctx, threadId, updatedAt)
		suite.NoError(err)
		suite.True(claimed)
	}

	// the last-read key must not count as a processed thread
	suite.NoError(suite.repository.SetLastRead(ctx, updatedAt))

	count, err = suite.repository.CountProcessed(ctx)
	suite.NoError(err)
	suite.Equal(int64(3), count)
}

func (suite *RedisRepositorySuite) TestLastRead() {
	ctx := context.Background()

	_, ok, err := suite.repository.GetLastRead(ctx)
	suite.NoError(err)
	suite.False(ok)

	lastRead := time.Date(2024, 2, 1, 10, 0, 0, 123456789, time.UTC)
	suite.NoError(suite.repository.SetLastRead(ctx, lastRead))

	got, ok, err := suite.repository.GetLastRead(ctx)
	suite.NoError(err)
	suite.True(ok)
	suite.True(got.Equal(lastRead))
}

func (suite *RedisRepositorySuite) TestHealthCheck() {
	suite.NoError(suite.repository.HealthCheck(context.Background()))
}
