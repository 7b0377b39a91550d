package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type UserProfileRepository interface {
	Upsert(req *model.UpsertUserProfileCondition) error
	List(condition *model.GetUserProfileCondition) ([]*entity.UserProfile, error)
	// ClearByUser 清空派生画像的值，保留行的归属
	ClearByUser(userID string) (int64, error)
}
