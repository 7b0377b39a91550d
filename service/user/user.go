package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/userlock"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	log "github.com/sirupsen/logrus"
)

var (
	serviceOnce sync.Once
	instance    *Service
)

type Service struct {
	repositoryFactory factory.Factory
	locker            userlock.Locker
}

func NewService(repositoryFactory factory.Factory, locker userlock.Locker) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
			locker:            locker,
		}
	})

	return instance
}

// ResetSummary 重置操作各表的删除行数
type ResetSummary struct {
	Frames         int64 `json:"frames"`
	Trackings      int64 `json:"trackings"`
	Vectors        int64 `json:"vectors"`
	SessionStates  int64 `json:"session_states"`
	Messages       int64 `json:"messages"`
	ProfileCleared int64 `json:"profile_cleared"`
}

// Reset 管理员重置：单事务内删除用户的帧、追踪状态、向量与会话状态，
// 清空派生画像。任何一步失败整体回滚。对不存在的用户是幂等空操作。
func (s *Service) Reset(ctx context.Context, userID string) (*ResetSummary, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	// 与该用户的写入管线互斥，避免删到一半的状态被并发写回
	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to acquire user lock: %w", err))
	}
	defer release()

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	if err := session.Begin(); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to begin transaction: %w", err))
	}

	summary, resetErr := s.resetInSession(session, userID)
	if resetErr != nil {
		if rbErr := session.Rollback(); rbErr != nil {
			log.Errorf("rollback failed for user=%s: %v", userID, rbErr)
		}
		return nil, resetErr
	}

	if err := session.Commit(); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to commit reset: %w", err))
	}

	log.Infof("User reset completed: user=%s, frames=%d, trackings=%d, vectors=%d, sessions=%d, messages=%d, profile=%d",
		userID, summary.Frames, summary.Trackings, summary.Vectors, summary.SessionStates, summary.Messages, summary.ProfileCleared)
	return summary, nil
}

func (s *Service) resetInSession(session interfaces.Session, userID string) (*ResetSummary, *model.Error) {
	frameRepo, err := s.repositoryFactory.NewFrameRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}
	trackingRepo, err := s.repositoryFactory.NewFrameTrackingRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}
	vectorRepo, err := s.repositoryFactory.NewVectorRecordRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}
	stateRepo, err := s.repositoryFactory.NewSessionStateRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}
	messageRepo, err := s.repositoryFactory.NewMessageRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}
	profileRepo, err := s.repositoryFactory.NewUserProfileRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	summary := &ResetSummary{}

	// 向量先删，帧删除后 owner_id 无从追溯
	if summary.Vectors, err = vectorRepo.DeleteByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to delete vector records: %w", err))
	}
	if summary.Frames, err = frameRepo.DeleteByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to delete frames: %w", err))
	}
	if summary.Trackings, err = trackingRepo.DeleteByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to delete frame trackings: %w", err))
	}
	if summary.SessionStates, err = stateRepo.DeleteByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to delete session states: %w", err))
	}
	if summary.Messages, err = messageRepo.DeleteByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to delete messages: %w", err))
	}
	if summary.ProfileCleared, err = profileRepo.ClearByUser(userID); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to clear user profile: %w", err))
	}

	return summary, nil
}
