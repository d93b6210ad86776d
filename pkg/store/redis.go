package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vango-dev/sortable/internal/config"
	serrors "github.com/vango-dev/sortable/internal/errors"
)

// hashClient is the part of *redis.Client the Redis store uses.
type hashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	Close() error
}

// Redis keeps one hash per sortable type: field = id, value = JSON entry.
type Redis struct {
	client hashClient
	prefix string
}

// NewRedis wraps an existing client. Keys are prefix + type.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// OpenRedis connects to the server described by cfg and pings it.
func OpenRedis(ctx context.Context, cfg config.StoreConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, serrors.New("E150").WithDetailf("redis %s", cfg.Addr).Wrap(err)
	}
	return NewRedis(client, cfg.Prefix), nil
}

func (r *Redis) key(typ string) string { return r.prefix + typ }

func (r *Redis) load(ctx context.Context, typ string) (map[int]Entry, error) {
	fields, err := r.client.HGetAll(ctx, r.key(typ)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, unknownType(typ)
	}
	entries := make(map[int]Entry, len(fields))
	for field, raw := range fields {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("redis: field %q of %s: %w", field, r.key(typ), err)
		}
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("redis: entry %d of %s: %w", id, r.key(typ), err)
		}
		e.ID = id
		entries[id] = e
	}
	return entries, nil
}

// List implements Store.
func (r *Redis) List(ctx context.Context, typ string) ([]Entry, error) {
	entries, err := r.load(ctx, typ)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, typ string, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key(typ), strconv.Itoa(e.ID), string(raw)).Err()
}

// Reorder implements Store. All fields are written with one HSET.
func (r *Redis) Reorder(ctx context.Context, typ string, orders map[int]int) error {
	entries, err := r.load(ctx, typ)
	if err != nil {
		return err
	}
	known := make(map[int]bool, len(entries))
	for id := range entries {
		known[id] = true
	}
	if err := checkIDs(typ, known, orders); err != nil {
		return err
	}

	values := make([]any, 0, 2*len(orders))
	for id, order := range orders {
		e := entries[id]
		e.Order = order
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values = append(values, strconv.Itoa(id), string(raw))
	}
	if len(values) == 0 {
		return nil
	}
	return r.client.HSet(ctx, r.key(typ), values...).Err()
}

// Close implements Store.
func (r *Redis) Close() error { return r.client.Close() }
