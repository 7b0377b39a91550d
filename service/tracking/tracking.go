package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/promotion"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
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
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
		}
	})

	return instance
}

// ObserveResult 一条消息的标签观察结果
type ObserveResult struct {
	// NewlyConfirmed 本条消息触发 候选 -> 已确认 跃迁的标签
	NewlyConfirmed []string
	// ObservedLabels 去重后实际计数的标签
	ObservedLabels []string
}

// ObserveLabels 记录一条消息出现的帧标签。
// 同一条消息内的重复标签只计一次；计数单调递增；
// 确认状态一旦置位不回退，只有管理员重置会清除。
func (s *Service) ObserveLabels(ctx context.Context, userID string, labels []string) (*ObserveResult, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	deduped := promotion.DedupeLabels(labels)
	result := &ObserveResult{
		NewlyConfirmed: make([]string, 0),
		ObservedLabels: deduped,
	}
	if len(deduped) == 0 {
		return result, nil
	}

	threshold := config.GetInstance().GetIntOrDefault(config.TrackingConfirmThreshold, constant.DefaultConfirmThreshold)

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	trackingRepo := newFrameTrackingRepository(s.repositoryFactory, session)

	for _, label := range deduped {
		row, err := trackingRepo.GetByUserLabel(userID, label)
		if err != nil {
			return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to get tracking row: %w", err))
		}

		if row == nil {
			row = &entity.FrameTracking{
				UserID:    userID,
				Label:     label,
				Threshold: threshold,
			}
			if err := trackingRepo.Insert(row); err != nil {
				return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to insert tracking row: %w", err))
			}
		}

		state, newlyConfirmed := promotion.Observe(promotion.State{
			Count:     row.RepetitionCount,
			Threshold: row.Threshold,
			Confirmed: row.Confirmed,
		})

		row.RepetitionCount = state.Count
		row.Confirmed = state.Confirmed
		if newlyConfirmed {
			now := time.Now()
			row.ConfirmedAt = &now
			result.NewlyConfirmed = append(result.NewlyConfirmed, label)
			log.Infof("frame label confirmed: user=%s, label=%s, count=%d", userID, label, row.RepetitionCount)
		}

		if err := trackingRepo.Save(row); err != nil {
			return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to save tracking row: %w", err))
		}
	}

	return result, nil
}

// List 查询用户的追踪状态
func (s *Service) List(ctx context.Context, condition *model.GetFrameTrackingCondition) ([]*entity.FrameTracking, int64, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	trackingRepo := newFrameTrackingRepository(s.repositoryFactory, session)
	rows, total, err := trackingRepo.List(condition)
	if err != nil {
		return nil, 0, model.NewError(model.ErrorDB, fmt.Errorf("failed to list tracking rows: %w", err))
	}

	return rows, total, nil
}

// GetConfirmedLabels 返回用户当前所有已确认的标签
func (s *Service) GetConfirmedLabels(ctx context.Context, userID string) ([]string, *model.Error) {
	rows, _, err := s.List(ctx, &model.GetFrameTrackingCondition{UserID: &userID})
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0)
	for _, row := range rows {
		if row.Confirmed {
			labels = append(labels, row.Label)
		}
	}
	return labels, nil
}

func newFrameTrackingRepository(repoFactory factory.Factory, session interfaces.Session) repository.FrameTrackingRepository {
	repo, err := repoFactory.NewFrameTrackingRepository(session)
	if err != nil {
		panic("failed to create frame tracking repository: " + err.Error())
	}
	return repo
}
