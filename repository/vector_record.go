package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type VectorRecordRepository interface {
	// Upsert 以 (owner_type, owner_id) 为键幂等写入
	Upsert(data *entity.VectorRecord) (*entity.VectorRecord, error)
	Get(ownerType string, ownerID int64) (*entity.VectorRecord, error)
	// QueryNearest 余弦相似度降序，长度不超过 condition.Limit
	QueryNearest(condition *model.VectorSearchCondition) ([]*model.VectorMatch, error)
	DeleteByOwner(ownerType string, ownerID int64) error
	DeleteByUser(userID string) (int64, error)
}
