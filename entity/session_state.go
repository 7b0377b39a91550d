package entity

import "time"

const (
	TableNameSessionStates = "session_states"

	SessionStateFieldID            = "id"
	SessionStateFieldUserID        = "user_id"
	SessionStateFieldActiveBlocks  = "active_blocks"
	SessionStateFieldPendingTopics = "pending_topics"
	SessionStateFieldMetaFlags     = "meta_flags"
	SessionStateFieldTurnCounter   = "turn_counter"
	SessionStateFieldCreatedAt     = "created_at"
	SessionStateFieldUpdatedAt     = "updated_at"
)

// SessionState 每用户一行的短期会话状态。
// 只能经由 session 服务的两个入口修改，读侧按窗口过滤而不删除。
type SessionState struct {
	ID            int64     `xorm:"pk autoincr id" json:"id"`
	UserID        string    `xorm:"user_id unique" json:"user_id"`
	ActiveBlocks  string    `xorm:"active_blocks" json:"active_blocks"`   // JSONB 类型，block -> {turn, touched_at}
	PendingTopics string    `xorm:"pending_topics" json:"pending_topics"` // JSONB 类型，话题列表
	MetaFlags     string    `xorm:"meta_flags" json:"meta_flags"`         // JSONB 类型，元信号列表
	TurnCounter   int64     `xorm:"turn_counter" json:"turn_counter"`
	CreatedAt     time.Time `xorm:"created_at created" json:"created_at"`
	UpdatedAt     time.Time `xorm:"updated_at updated" json:"updated_at"`
}

func (e *SessionState) TableName() string {
	return TableNameSessionStates
}
