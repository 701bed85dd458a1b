package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"notifyd/internal/config"
	"notifyd/internal/domain"
)

const (
	profileKeyPrefix = "profile:"
	activeAdminsKey  = "admins:active"
)

var ErrRedisNotReady = errors.New("redis is not ready")

// Redis reads profiles the profile service mirrors into Redis: a hash per
// recipient at profile:<id> and the set admins:active of admin ids.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{client: client, log: logger}
}

func ProfileKey(recipientID string) string {
	return profileKeyPrefix + recipientID
}

func (r *Redis) Lookup(ctx context.Context, recipientID string) (Profile, error) {
	fields, err := r.client.HGetAll(ctx, ProfileKey(recipientID)).Result()
	if err != nil {
		r.log.Error("redis profile lookup failed", zap.String("recipient_id", recipientID), zap.Error(err))
		return Profile{}, fmt.Errorf("lookup profile %s: %w", recipientID, err)
	}
	if len(fields) == 0 {
		return Profile{}, domain.ErrNotFound
	}
	return profileFromHash(recipientID, fields), nil
}

func (r *Redis) ActiveAdmins(ctx context.Context) ([]Profile, error) {
	ids, err := r.client.SMembers(ctx, activeAdminsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list active admins: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, ProfileKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load admin profiles: %w", err)
	}

	admins := make([]Profile, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			r.log.Warn("active admin without profile", zap.String("recipient_id", ids[i]))
			continue
		}
		p := profileFromHash(ids[i], fields)
		if !p.Active {
			continue
		}
		admins = append(admins, p)
	}
	return admins, nil
}

func profileFromHash(id string, fields map[string]string) Profile {
	active := true
	if v, ok := fields["active"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			active = b
		}
	}
	return Profile{
		ID:     id,
		Name:   fields["name"],
		Email:  fields["email"],
		Role:   fields["role"],
		Active: active,
	}
}

// Connect parses the URL and pings until the server answers or attempts run out.
func Connect(ctx context.Context, url string, attempts int, interval time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	for range attempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
	}
	return nil, ErrRedisNotReady
}

// New picks the Redis directory when REDIS_URL is set and an empty static one otherwise.
func New(cfg *config.Config, logger *zap.Logger) (Directory, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using empty static directory")
		return NewStatic(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := Connect(ctx, cfg.RedisURL, 3, 2*time.Second)
	if err != nil {
		logger.Error("redis connect failed", zap.Error(err))
		return nil, err
	}
	return NewRedis(client, logger), nil
}
