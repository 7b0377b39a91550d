package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type MessageRepository interface {
	Insert(data *entity.Message) error
	List(condition *model.GetMessagesCondition) ([]*entity.Message, int64, error)
	GetRecentByUser(userID string, limit int) ([]*entity.Message, error)
	DeleteByUser(userID string) (int64, error)
}
