package redis

import (
	"ProjectFinance/pkg/log"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type IRedis interface {
	GetObject(ctx context.Context, key string, dest interface{}) (bool, error)
	SetObject(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// GetObject decodes the JSON value at key into dest. A missing key reports
// false with a nil error.
func (r *redisClient) GetObject(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		log.WithRequestID(ctx).WithField("key", key).Error(fmt.Sprintf("Error getting key: %v", err))
		return false, err
	}

	if err := jsoniter.Unmarshal(raw, dest); err != nil {
		log.WithRequestID(ctx).WithField("key", key).Error(fmt.Sprintf("Error decoding key: %v", err))
		return false, err
	}
	return true, nil
}

func (r *redisClient) SetObject(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, raw, expiration).Err(); err != nil {
		log.WithRequestID(ctx).WithField("key", key).Error(fmt.Sprintf("Error setting key: %v", err))
		return err
	}
	log.WithRequestID(ctx).WithField("key", key).Debug(fmt.Sprintf("Successfully set key with expiration %v", expiration))
	return nil
}

// GetInt reads an integer counter; a missing key reads as zero.
func (r *redisClient) GetInt(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

func (r *redisClient) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
