package userlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// DefaultTTL 锁的过期时间，防止持有方崩溃后永久占用
	DefaultTTL = 30 * time.Second
	// DefaultRetryInterval 抢锁失败后的轮询间隔
	DefaultRetryInterval = 50 * time.Millisecond

	lockKeyPrefix = "twelvesteps:userlock:"
)

// Locker 用户级写锁，保证同一用户的写入串行执行
type Locker interface {
	// Acquire 阻塞直到拿到 userId 对应的锁或 ctx 取消，返回释放函数
	Acquire(ctx context.Context, userId string) (release func(), err error)
}

// LocalLocker 单实例部署下的进程内实现
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, userId string) (func(), error) {
	if userId == "" {
		return nil, fmt.Errorf("userId cannot be empty")
	}

	l.mu.Lock()
	m, ok := l.locks[userId]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userId] = m
	}
	l.mu.Unlock()

	// mutex 不支持 ctx 取消，用通道桥接
	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return m.Unlock, nil
	case <-ctx.Done():
		// 后台 goroutine 最终拿到锁后立即归还
		go func() {
			<-acquired
			m.Unlock()
		}()
		return nil, ctx.Err()
	}
}

// RedisLocker 多实例部署下基于 redis SETNX 的实现
type RedisLocker struct {
	client        redis.UniversalClient
	ttl           time.Duration
	retryInterval time.Duration
}

// 仅当 value 匹配时删除，避免释放掉他人持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		client:        client,
		ttl:           DefaultTTL,
		retryInterval: DefaultRetryInterval,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, userId string) (func(), error) {
	if userId == "" {
		return nil, fmt.Errorf("userId cannot be empty")
	}

	key := lockKeyPrefix + userId
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire user lock: %w", err)
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}
