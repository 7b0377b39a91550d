package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/lib/pq"
	"xorm.io/builder"
)

type FrameRepository struct {
	session *Session
}

func NewFrameRepository(session *Session) repository.FrameRepository {
	return &FrameRepository{session: session}
}

func buildFrameQueryConditions(condition *model.GetFramesCondition) builder.Cond {
	var conds []builder.Cond

	if condition.UserID != nil && *condition.UserID != "" {
		conds = append(conds, builder.Eq{entity.FrameFieldUserID: *condition.UserID})
	}
	if condition.MessageID != nil {
		conds = append(conds, builder.Eq{entity.FrameFieldMessageID: *condition.MessageID})
	}
	if condition.StartTS != nil {
		conds = append(conds, builder.Gte{entity.FrameFieldCreatedAt: *condition.StartTS})
	}
	if condition.EndTS != nil {
		conds = append(conds, builder.Lte{entity.FrameFieldCreatedAt: *condition.EndTS})
	}

	if len(conds) == 0 {
		return nil
	}
	return builder.And(conds...)
}

func (r *FrameRepository) Insert(data []*entity.Frame) error {
	if len(data) == 0 {
		return fmt.Errorf("frames data cannot be empty")
	}

	// 逐条插入，xorm 批量插入不回填自增 id
	for _, item := range data {
		if item == nil {
			return fmt.Errorf("frames item cannot be nil")
		}
		if _, err := r.session.Table(entity.TableNameFrames).Insert(item); err != nil {
			return fmt.Errorf("failed to insert frames: %w", err)
		}
	}

	return nil
}

func (r *FrameRepository) Get(id int64) (*entity.Frame, error) {
	if id <= 0 {
		return nil, fmt.Errorf("frames id must be greater than 0")
	}

	result := &entity.Frame{}
	ok, err := r.session.Table(entity.TableNameFrames).
		Where(builder.Eq{entity.FrameFieldID: id}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get frames: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

// GetByIDs 按输入顺序返回，已不存在的 id 静默跳过
func (r *FrameRepository) GetByIDs(ids []int64) ([]*entity.Frame, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []*entity.Frame
	err := r.session.Table(entity.TableNameFrames).
		In(entity.FrameFieldID, ids).
		Find(&found)
	if err != nil {
		return nil, fmt.Errorf("failed to get frames by ids: %w", err)
	}

	byID := make(map[int64]*entity.Frame, len(found))
	for _, frame := range found {
		byID[frame.ID] = frame
	}

	// 保持与入参一致的顺序
	results := make([]*entity.Frame, 0, len(found))
	for _, id := range ids {
		if frame, ok := byID[id]; ok {
			results = append(results, frame)
		}
	}

	return results, nil
}

// GetByBlocks 用 jsonb ?| 取块标签交集，候选集按写入时间倒序，
// 最终的 recency 加权评分在 service 层完成
func (r *FrameRepository) GetByBlocks(condition *model.GetFramesByBlocksCondition) ([]*entity.Frame, error) {
	if condition == nil {
		return nil, fmt.Errorf("get condition cannot be nil")
	}
	if condition.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if len(condition.Blocks) == 0 {
		return nil, nil
	}
	if condition.Limit <= 0 {
		condition.Limit = 50
	}

	sql := fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE user_id = $1 AND blocks ?| $2
		ORDER BY created_at DESC
		LIMIT %d
	`, entity.TableNameFrames, condition.Limit)

	var results []*entity.Frame
	err := r.session.SQL(sql, condition.UserID, pq.Array(condition.Blocks)).Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to get frames by blocks: %w", err)
	}

	return results, nil
}

func (r *FrameRepository) List(condition *model.GetFramesCondition) ([]*entity.Frame, int64, error) {
	if condition == nil {
		return nil, 0, fmt.Errorf("get condition cannot be nil")
	}

	cond := buildFrameQueryConditions(condition)

	session := r.session.Table(entity.TableNameFrames)
	if cond != nil {
		session = session.Where(cond)
	}

	pagerOrder(session, condition, WithDefaultOrderField(entity.FrameFieldCreatedAt))

	var results []*entity.Frame
	total, err := session.FindAndCount(&results)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list frames: %w", err)
	}

	return results, total, nil
}

func (r *FrameRepository) Update(id int64, req *model.UpdateFrameCondition) error {
	if id <= 0 {
		return fmt.Errorf("frames id must be greater than 0")
	}
	if req == nil {
		return fmt.Errorf("update request cannot be nil")
	}

	updateData := make(map[string]interface{})
	if req.EmbeddingID != nil {
		updateData[entity.FrameFieldEmbeddingID] = *req.EmbeddingID
	}
	if req.EmbeddedAt != nil {
		updateData[entity.FrameFieldEmbeddedAt] = *req.EmbeddedAt
	}

	if len(updateData) == 0 {
		return fmt.Errorf("at least one field must be updated")
	}

	_, err := r.session.Table(entity.TableNameFrames).
		Where(builder.Eq{entity.FrameFieldID: id}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update frames: %w", err)
	}

	return nil
}

func (r *FrameRepository) DeleteByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameFrames).
		Where(builder.Eq{entity.FrameFieldUserID: userID}).
		Delete(&entity.Frame{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete frames by user: %w", err)
	}

	return affected, nil
}
