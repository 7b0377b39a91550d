package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"xorm.io/builder"
)

type FrameTrackingRepository struct {
	session *Session
}

func NewFrameTrackingRepository(session *Session) repository.FrameTrackingRepository {
	return &FrameTrackingRepository{session: session}
}

func buildFrameTrackingQueryConditions(condition *model.GetFrameTrackingCondition) builder.Cond {
	var conds []builder.Cond

	if condition.UserID != nil && *condition.UserID != "" {
		conds = append(conds, builder.Eq{entity.FrameTrackingFieldUserID: *condition.UserID})
	}
	if condition.Label != nil && *condition.Label != "" {
		conds = append(conds, builder.Eq{entity.FrameTrackingFieldLabel: *condition.Label})
	}

	if len(conds) == 0 {
		return nil
	}
	return builder.And(conds...)
}

func (r *FrameTrackingRepository) GetByUserLabel(userID, label string) (*entity.FrameTracking, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if label == "" {
		return nil, fmt.Errorf("label is required")
	}

	result := &entity.FrameTracking{}
	ok, err := r.session.Table(entity.TableNameFrameTracking).
		Where(builder.Eq{
			entity.FrameTrackingFieldUserID: userID,
			entity.FrameTrackingFieldLabel:  label,
		}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get frame_tracking: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *FrameTrackingRepository) Insert(data *entity.FrameTracking) error {
	if data == nil {
		return fmt.Errorf("frame_tracking data cannot be nil")
	}

	_, err := r.session.Table(entity.TableNameFrameTracking).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert frame_tracking: %w", err)
	}

	return nil
}

func (r *FrameTrackingRepository) Save(data *entity.FrameTracking) error {
	if data == nil {
		return fmt.Errorf("frame_tracking data cannot be nil")
	}
	if data.ID <= 0 {
		return fmt.Errorf("frame_tracking id must be greater than 0")
	}

	updateData := map[string]interface{}{
		entity.FrameTrackingFieldRepetitionCount: data.RepetitionCount,
		entity.FrameTrackingFieldThreshold:       data.Threshold,
		entity.FrameTrackingFieldConfirmed:       data.Confirmed,
	}
	if data.ConfirmedAt != nil {
		updateData[entity.FrameTrackingFieldConfirmedAt] = *data.ConfirmedAt
	}

	_, err := r.session.Table(entity.TableNameFrameTracking).
		Where(builder.Eq{entity.FrameTrackingFieldID: data.ID}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to save frame_tracking: %w", err)
	}

	return nil
}

func (r *FrameTrackingRepository) List(condition *model.GetFrameTrackingCondition) ([]*entity.FrameTracking, int64, error) {
	if condition == nil {
		return nil, 0, fmt.Errorf("get condition cannot be nil")
	}

	cond := buildFrameTrackingQueryConditions(condition)

	session := r.session.Table(entity.TableNameFrameTracking)
	if cond != nil {
		session = session.Where(cond)
	}

	pagerOrder(session, condition, WithDefaultOrderField(entity.FrameTrackingFieldUpdatedAt))

	var results []*entity.FrameTracking
	total, err := session.FindAndCount(&results)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list frame_tracking: %w", err)
	}

	return results, total, nil
}

func (r *FrameTrackingRepository) DeleteByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameFrameTracking).
		Where(builder.Eq{entity.FrameTrackingFieldUserID: userID}).
		Delete(&entity.FrameTracking{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete frame_tracking by user: %w", err)
	}

	return affected, nil
}
