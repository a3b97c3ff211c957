package adapter

import (
	"context"
	"fmt"

	"sneakerspot/internal/pkg/logger"
	"sneakerspot/internal/pkg/zookeeper"
)

// ZKLockerAdapter serializes reconciliations of one order across replicas
// using the shared ZooKeeper lock.
type ZKLockerAdapter struct {
	conn *zookeeper.Conn
}

func NewZKLockerAdapter(conn *zookeeper.Conn) *ZKLockerAdapter {
	return &ZKLockerAdapter{conn: conn}
}

func (a *ZKLockerAdapter) WithLock(ctx context.Context, name string, fn func() error) error {
	lock, err := zookeeper.NewDistributedLock(a.conn, name)
	if err != nil {
		return fmt.Errorf("create lock %s: %w", name, err)
	}
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock %s: %w", name, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("lock", name).Msg("lock release failed")
		}
	}()
	return fn()
}
