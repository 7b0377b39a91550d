package model

import "time"

// GetFramesCondition 查询条件（带分页和排序）
type GetFramesCondition struct {
	UserID    *string    `json:"user_id"`
	MessageID *int64     `json:"message_id"`
	StartTS   *time.Time `json:"start_ts"`
	EndTS     *time.Time `json:"end_ts"`
	*Pager
	*Order
}

func (g *GetFramesCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetFramesCondition) GetOrder() *Order {
	return g.Order
}

// GetFramesByBlocksCondition 按块标签取交集的查询条件
type GetFramesByBlocksCondition struct {
	UserID string   `json:"user_id"`
	Blocks []string `json:"blocks"`
	Limit  int      `json:"limit"`
}

// UpdateFrameCondition 更新条件。帧写入后不可变，仅允许回填 embedding 引用。
type UpdateFrameCondition struct {
	EmbeddingID *int64     `json:"embedding_id"`
	EmbeddedAt  *time.Time `json:"embedded_at"`
}
