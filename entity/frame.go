package entity

import "time"

const (
	TableNameFrames = "frames"

	FrameFieldID            = "id"
	FrameFieldUserID        = "user_id"
	FrameFieldMessageID     = "message_id"
	FrameFieldContent       = "content"
	FrameFieldBlocks        = "blocks"
	FrameFieldEmotion       = "emotion"
	FrameFieldImportance    = "importance"
	FrameFieldThinkingFrame = "thinking_frame"
	FrameFieldLevelOfMind   = "level_of_mind"
	FrameFieldMemoryType    = "memory_type"
	FrameFieldTargetBlock   = "target_block"
	FrameFieldAction        = "action"
	FrameFieldStrategyHint  = "strategy_hint"
	FrameFieldEmbeddingID   = "embedding_id"
	FrameFieldEmbeddedAt    = "embedded_at"
	FrameFieldCreatedAt     = "created_at"
)

// Frame 从一条用户消息中抽取的结构化心理/行为信号。
// 写入后不可变，只有 embedding 引用允许回填。
type Frame struct {
	ID            int64      `xorm:"pk autoincr id" json:"id"`
	UserID        string     `xorm:"user_id" json:"user_id"`
	MessageID     *int64     `xorm:"message_id" json:"message_id"`
	Content       string     `xorm:"content" json:"content"`
	Blocks        string     `xorm:"blocks" json:"blocks"` // JSONB 类型，块标签列表
	Emotion       string     `xorm:"emotion" json:"emotion"`
	Importance    int        `xorm:"importance" json:"importance"`
	ThinkingFrame *string    `xorm:"thinking_frame" json:"thinking_frame"`
	LevelOfMind   *int       `xorm:"level_of_mind" json:"level_of_mind"`
	MemoryType    *string    `xorm:"memory_type" json:"memory_type"`
	TargetBlock   *string    `xorm:"target_block" json:"target_block"` // JSONB 类型，{main, sub}
	Action        *string    `xorm:"action" json:"action"`
	StrategyHint  *string    `xorm:"strategy_hint" json:"strategy_hint"`
	EmbeddingID   *int64     `xorm:"embedding_id" json:"embedding_id"`
	EmbeddedAt    *time.Time `xorm:"embedded_at" json:"embedded_at"`
	CreatedAt     time.Time  `xorm:"created_at created" json:"created_at"`
}

func (e *Frame) TableName() string {
	return TableNameFrames
}
