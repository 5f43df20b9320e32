package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/veriluxe/certificate-registry/interfaces"
)

const (
	defaultRedisPrefix = "certificate-registry"

	// redisUpdateRetries bounds optimistic transaction retries under contention.
	redisUpdateRetries = 16
)

// RedisStateStore keeps the admin identity in "<prefix>:admin" and the
// certificate mapping in the hash "<prefix>:certificates". Updates are
// optimistic WATCH/MULTI transactions over both keys.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	log    *slog.Logger
}

func NewRedisStateStore(client *redis.Client, prefix string, log *slog.Logger) *RedisStateStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (s *RedisStateStore) adminKey() string {
	return s.prefix + ":admin"
}

func (s *RedisStateStore) certificatesKey() string {
	return s.prefix + ":certificates"
}

// redisGetter is the read subset shared by *redis.Client and *redis.Tx.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

type redisReader struct {
	cmd   redisGetter
	store *RedisStateStore
}

func (r redisReader) readAdmin(ctx context.Context) (interfaces.Identity, bool, error) {
	raw, err := r.cmd.Get(ctx, r.store.adminKey()).Result()
	if errors.Is(err, redis.Nil) {
		return interfaces.Identity{}, false, nil
	}
	if err != nil {
		return interfaces.Identity{}, false, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	admin, err := interfaces.NewIdentityFromHex(raw)
	if err != nil {
		return interfaces.Identity{}, false, fmt.Errorf("corrupt admin slot: %w", err)
	}
	return admin, true, nil
}

func (r redisReader) readCertificate(ctx context.Context, id interfaces.CertificateID) (interfaces.Certificate, bool, error) {
	raw, err := r.cmd.HGet(ctx, r.store.certificatesKey(), string(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return interfaces.Certificate{}, false, nil
	}
	if err != nil {
		return interfaces.Certificate{}, false, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	var cert interfaces.Certificate
	if err := json.Unmarshal(raw, &cert); err != nil {
		return interfaces.Certificate{}, false, fmt.Errorf("corrupt certificate record %q: %w", id, err)
	}
	return cert, true, nil
}

// View reads each slot with a separate command. Registry reads touch a single
// slot, which is all the consistency they need.
func (s *RedisStateStore) View(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	return fn(newStagedState(redisReader{cmd: s.client, store: s}, true))
}

func (s *RedisStateStore) Update(ctx context.Context, fn func(interfaces.RegistryState) error) error {
	for attempt := 0; attempt < redisUpdateRetries; attempt++ {
		var fnErr error
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			staged := newStagedState(redisReader{cmd: tx, store: s}, false)
			if fnErr = fn(staged); fnErr != nil {
				return fnErr
			}
			if !staged.dirty() {
				return nil
			}

			_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				return s.stageWrites(ctx, pipe, staged)
			})
			return err
		}, s.adminKey(), s.certificatesKey())

		switch {
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			s.log.Debug("Redis state update conflicted, retrying", slog.Int("attempt", attempt+1))
			continue
		case err != nil:
			return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
		default:
			return nil
		}
	}

	return fmt.Errorf("%w: too much contention after %d attempts", interfaces.ErrStoreUnavailable, redisUpdateRetries)
}

func (s *RedisStateStore) stageWrites(ctx context.Context, pipe redis.Pipeliner, staged *stagedState) error {
	if staged.cleared {
		pipe.Del(ctx, s.certificatesKey())
	}
	if staged.admin != nil {
		pipe.Set(ctx, s.adminKey(), staged.admin.String(), 0)
	}
	if len(staged.certs) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(staged.certs))
	for id, cert := range staged.certs {
		encoded, err := json.Marshal(cert)
		if err != nil {
			return fmt.Errorf("failed to encode certificate %q: %w", id, err)
		}
		fields[string(id)] = encoded
	}
	pipe.HSet(ctx, s.certificatesKey(), fields)
	return nil
}

func (s *RedisStateStore) Available(ctx context.Context) bool {
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.log.Debug("Redis state store unavailable", "err", err)
		return false
	}
	return true
}

func (s *RedisStateStore) Name() string {
	return "redis-" + s.prefix
}

func (s *RedisStateStore) Close() error {
	return s.client.Close()
}
