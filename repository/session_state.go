package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type SessionStateRepository interface {
	GetByUser(userID string) (*entity.SessionState, error)
	Insert(data *entity.SessionState) error
	Update(userID string, req *model.UpdateSessionStateCondition) error
	DeleteByUser(userID string) (int64, error)
}
