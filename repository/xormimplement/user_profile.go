package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"xorm.io/builder"
)

type UserProfileRepository struct {
	session *Session
}

func NewUserProfileRepository(session *Session) repository.UserProfileRepository {
	return &UserProfileRepository{session: session}
}

func (r *UserProfileRepository) Upsert(req *model.UpsertUserProfileCondition) error {
	if req == nil {
		return fmt.Errorf("upsert request cannot be nil")
	}
	if req.UserID == "" || req.Key == "" {
		return fmt.Errorf("user_id and key are required")
	}

	existing := &entity.UserProfile{}
	ok, err := r.session.Table(entity.TableNameUserProfile).
		Where(builder.Eq{
			entity.UserProfileFieldUserID: req.UserID,
			entity.UserProfileFieldKey:    req.Key,
		}).
		Get(existing)
	if err != nil {
		return fmt.Errorf("failed to get user_profile for upsert: %w", err)
	}

	if !ok {
		data := &entity.UserProfile{
			UserID:      req.UserID,
			Key:         req.Key,
			Value:       req.Value,
			Confidence:  req.Confidence,
			SourceMsgID: req.SourceMsgID,
		}
		if _, err := r.session.Table(entity.TableNameUserProfile).Insert(data); err != nil {
			return fmt.Errorf("failed to insert user_profile: %w", err)
		}
		return nil
	}

	updateData := map[string]interface{}{
		entity.UserProfileFieldValue:      req.Value,
		entity.UserProfileFieldConfidence: req.Confidence,
	}
	if req.SourceMsgID != nil {
		updateData[entity.UserProfileFieldSourceMsgID] = *req.SourceMsgID
	}

	_, err = r.session.Table(entity.TableNameUserProfile).
		Where(builder.Eq{entity.UserProfileFieldID: existing.ID}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update user_profile: %w", err)
	}

	return nil
}

func (r *UserProfileRepository) List(condition *model.GetUserProfileCondition) ([]*entity.UserProfile, error) {
	if condition == nil {
		return nil, fmt.Errorf("get condition cannot be nil")
	}

	var conds []builder.Cond
	if condition.UserID != nil && *condition.UserID != "" {
		conds = append(conds, builder.Eq{entity.UserProfileFieldUserID: *condition.UserID})
	}
	if condition.Key != nil && *condition.Key != "" {
		conds = append(conds, builder.Eq{entity.UserProfileFieldKey: *condition.Key})
	}

	session := r.session.Table(entity.TableNameUserProfile)
	if len(conds) > 0 {
		session = session.Where(builder.And(conds...))
	}

	pagerOrder(session, condition, WithDefaultOrderField(entity.UserProfileFieldUpdatedAt))

	var results []*entity.UserProfile
	if err := session.Find(&results); err != nil {
		return nil, fmt.Errorf("failed to list user_profile: %w", err)
	}

	return results, nil
}

// ClearByUser 清空派生画像的值，保留行的归属（管理员重置使用）
func (r *UserProfileRepository) ClearByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameUserProfile).
		Where(builder.Eq{entity.UserProfileFieldUserID: userID}).
		Update(map[string]interface{}{
			entity.UserProfileFieldValue:      "",
			entity.UserProfileFieldConfidence: float32(0),
		})
	if err != nil {
		return 0, fmt.Errorf("failed to clear user_profile by user: %w", err)
	}

	return affected, nil
}
