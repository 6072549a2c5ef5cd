package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ReactionLab/pkg/errors"
)

type RedisCacheTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	cache  Cache
}

func (s *RedisCacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.client = NewClientFromUniversal(db, logging.NewNopLogger())
	s.cache = NewRedisCache(s.client, nil,
		WithPrefix("test:"),
		WithDefaultTTL(time.Minute),
		WithNullCacheTTL(5*time.Second),
		WithTTLJitter(0),
	)
}

func (s *RedisCacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

type drawing struct {
	SVG string `json:"svg"`
}

func encoded(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

func (s *RedisCacheTestSuite) TestGet_Hit() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectGet("test:svg:CCO").SetVal(string(encoded(val)))

	var dest drawing
	err := s.cache.Get(context.Background(), "svg:CCO", &dest)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *RedisCacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k").RedisNil()

	var dest drawing
	err := s.cache.Get(context.Background(), "k", &dest)

	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *RedisCacheTestSuite) TestGet_NullMarkerIsMiss() {
	s.mock.ExpectGet("test:k").SetVal(nullMarker)

	var dest drawing
	assert.Equal(s.T(), ErrCacheMiss, s.cache.Get(context.Background(), "k", &dest))
}

func (s *RedisCacheTestSuite) TestGet_BackendError() {
	s.mock.ExpectGet("test:k").SetErr(errors.New("connection reset"))

	var dest drawing
	err := s.cache.Get(context.Background(), "k", &dest)

	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *RedisCacheTestSuite) TestGet_CorruptPayload() {
	s.mock.ExpectGet("test:k").SetVal("{not json")

	var dest drawing
	err := s.cache.Get(context.Background(), "k", &dest)

	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *RedisCacheTestSuite) TestSet_UsesDefaultTTL() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectSet("test:k", encoded(val), time.Minute).SetVal("OK")

	assert.NoError(s.T(), s.cache.Set(context.Background(), "k", val, 0))
}

func (s *RedisCacheTestSuite) TestSet_ExplicitTTL() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectSet("test:k", encoded(val), 10*time.Second).SetVal("OK")

	assert.NoError(s.T(), s.cache.Set(context.Background(), "k", val, 10*time.Second))
}

func (s *RedisCacheTestSuite) TestSet_BackendError() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectSet("test:k", encoded(val), time.Minute).SetErr(errors.New("READONLY"))

	err := s.cache.Set(context.Background(), "k", val, 0)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *RedisCacheTestSuite) TestGetOrSet_HitSkipsLoader() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectGet("test:k").SetVal(string(encoded(val)))

	called := false
	var dest drawing
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})

	assert.NoError(s.T(), err)
	assert.False(s.T(), called)
	assert.Equal(s.T(), val, dest)
}

func (s *RedisCacheTestSuite) TestGetOrSet_MissLoadsAndStores() {
	val := drawing{SVG: "<svg id='p'/>"}
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", encoded(val), time.Minute).SetVal("OK")

	var dest drawing
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return val, nil
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *RedisCacheTestSuite) TestGetOrSet_NilValueCachesMarker() {
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", nullMarker, 5*time.Second).SetVal("OK")

	var dest drawing
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return nil, nil
	})

	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *RedisCacheTestSuite) TestGetOrSet_LoaderError() {
	s.mock.ExpectGet("test:k").RedisNil()
	boom := errors.New("render failed")

	var dest drawing
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return nil, boom
	})

	assert.Equal(s.T(), boom, err)
}

func (s *RedisCacheTestSuite) TestGetOrSet_SetFailureStillReturnsValue() {
	val := drawing{SVG: "<svg/>"}
	s.mock.ExpectGet("test:k").RedisNil()
	s.mock.ExpectSet("test:k", encoded(val), time.Minute).SetErr(errors.New("OOM"))

	var dest drawing
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return val, nil
	})

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), val, dest)
}

func (s *RedisCacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)

	assert.NoError(s.T(), s.cache.Delete(context.Background(), "k1", "k2"))
	assert.NoError(s.T(), s.cache.Delete(context.Background()))
}

func (s *RedisCacheTestSuite) TestPing() {
	s.mock.ExpectPing().SetVal("PONG")
	assert.NoError(s.T(), s.cache.Ping(context.Background()))
}

func (s *RedisCacheTestSuite) TestClosedClient() {
	s.mock.ExpectPing().SetVal("PONG")
	assert.NoError(s.T(), s.client.Ping(context.Background()))

	assert.NoError(s.T(), s.client.Close())
	assert.NoError(s.T(), s.client.Close())
	assert.Equal(s.T(), ErrClientClosed, s.client.Ping(context.Background()))
}

func TestRedisCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheTestSuite))
}

func TestJitterTTL_StaysWithinBounds(t *testing.T) {
	c := &redisCache{jitter: 0.1}
	for i := 0; i < 200; i++ {
		got := c.jitterTTL(time.Hour)
		assert.GreaterOrEqual(t, got, 54*time.Minute)
		assert.LessOrEqual(t, got, 66*time.Minute)
	}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))
}

//Personal.AI order the ending
