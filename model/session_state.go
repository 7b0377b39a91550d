package model

import "time"

// BlockTouch 活跃块的最近触达信息
type BlockTouch struct {
	Turn      int64     `json:"turn"`
	TouchedAt time.Time `json:"touched_at"`
}

// ActiveBlockWindow 活跃块读侧过滤窗口。轮数与时长二选一或同时生效，
// 两者都为零值时块永不失活。
type ActiveBlockWindow struct {
	MaxTurnAge int           `json:"max_turn_age"`
	MaxElapsed time.Duration `json:"max_elapsed"`
}

// UpdateSessionStateCondition 会话状态更新条件
type UpdateSessionStateCondition struct {
	ActiveBlocks  *string `json:"active_blocks"`
	PendingTopics *string `json:"pending_topics"`
	MetaFlags     *string `json:"meta_flags"`
	TurnCounter   *int64  `json:"turn_counter"`
}
