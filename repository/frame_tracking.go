package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type FrameTrackingRepository interface {
	GetByUserLabel(userID, label string) (*entity.FrameTracking, error)
	Insert(data *entity.FrameTracking) error
	// Save 写回计数与确认位，repetition_count 只增不减由 service 保证
	Save(data *entity.FrameTracking) error
	List(condition *model.GetFrameTrackingCondition) ([]*entity.FrameTracking, int64, error)
	DeleteByUser(userID string) (int64, error)
}
