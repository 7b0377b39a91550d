package userlock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type LocalLockerTest struct {
	suite.Suite
}

func (l *LocalLockerTest) TestAcquire_EmptyUserId() {
	locker := NewLocalLocker()

	release, err := locker.Acquire(context.Background(), "")
	l.NotNil(err)
	l.Nil(release)
}

func (l *LocalLockerTest) TestAcquire_Serializes() {
	locker := NewLocalLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		current int
		maxSeen int
		wg      sync.WaitGroup
	)

	// 同一用户的并发持锁区间不应重叠
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := locker.Acquire(ctx, "user-1")
			l.Nil(err)

			mu.Lock()
			current++
			if current > maxSeen {
				maxSeen = current
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()

			release()
		}()
	}

	wg.Wait()
	l.Equal(1, maxSeen, "holders of the same user lock must not overlap")
}

func (l *LocalLockerTest) TestAcquire_DifferentUsersDoNotBlock() {
	locker := NewLocalLocker()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, "user-a")
	l.Nil(err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB, err := locker.Acquire(ctx, "user-b")
		l.Nil(err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		l.Fail("lock for a different user should not block")
	}
}

func (l *LocalLockerTest) TestAcquire_ContextCancel() {
	locker := NewLocalLocker()

	release, err := locker.Acquire(context.Background(), "user-1")
	l.Nil(err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	blocked, err := locker.Acquire(ctx, "user-1")
	l.NotNil(err)
	l.Nil(blocked)

	release()

	// 取消后的锁最终会被归还，后续 Acquire 仍然可用
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	release2, err := locker.Acquire(ctx2, "user-1")
	l.Nil(err)
	release2()
}

func TestLocalLocker(t *testing.T) {
	suite.Run(t, new(LocalLockerTest))
}
