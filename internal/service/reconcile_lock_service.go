package service

import (
	"context"
	"fmt"
	"time"

	"clinical-followup-platform/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// releaseLockScript deletes the lock key only when the stored token
// matches, so a reconciler that outlived its TTL cannot release a lock
// a later run has since acquired.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const reconcileLockKeyPrefix = "reconcile:lock:"

// ReconcileLock is a short-lived advisory lock keyed by
// (patient, exam type). It narrows the race window between overlapping
// reconciler runs; the dedup window on prescriptions remains the
// data-level defense.
type ReconcileLock interface {
	// Acquire returns ok=false when another holder owns the key. The
	// release func is always safe to call, also when ok is false.
	Acquire(ctx context.Context, patientID uint, disease entity.Disease) (release func(), ok bool, err error)
}

type redisReconcileLock struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewReconcileLock(client *redis.Client, log *logrus.Logger, ttl time.Duration) ReconcileLock {
	return &redisReconcileLock{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (l *redisReconcileLock) Acquire(ctx context.Context, patientID uint, disease entity.Disease) (func(), bool, error) {
	key := fmt.Sprintf("%s%d:%s", reconcileLockKeyPrefix, patientID, disease)
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("acquire reconcile lock %s: %w", key, err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warnf("Failed to release reconcile lock %s (non-fatal, TTL will expire it): %+v", key, err)
		}
	}
	return release, true, nil
}
