package repository

import (
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

type FrameRepository interface {
	Insert(data []*entity.Frame) error
	Get(id int64) (*entity.Frame, error)
	// GetByIDs 按输入顺序返回，已不存在的 id 静默跳过
	GetByIDs(ids []int64) ([]*entity.Frame, error)
	// GetByBlocks 返回 blocks 与给定标签有交集的帧
	GetByBlocks(condition *model.GetFramesByBlocksCondition) ([]*entity.Frame, error)
	List(condition *model.GetFramesCondition) ([]*entity.Frame, int64, error)
	// Update 只允许回填 embedding 引用
	Update(id int64, req *model.UpdateFrameCondition) error
	DeleteByUser(userID string) (int64, error)
}
