package model

// TurnRequest 处理一轮用户消息的请求体
type TurnRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// PartError 单个 part 被拒绝的原因，不影响同一消息的其余 parts
type PartError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// TurnResult 一轮处理的结果：新帧、确认标签与下一轮上下文
type TurnResult struct {
	MessageID       int64         `json:"message_id"`
	FrameIDs        []int64       `json:"frame_ids"`
	RejectedParts   []PartError   `json:"rejected_parts,omitempty"`
	ConfirmedLabels []string      `json:"confirmed_labels,omitempty"`
	ActiveBlocks    []string      `json:"active_blocks"`
	Context         []RankedFrame `json:"context"`
	Degraded        bool          `json:"degraded"` // 分类或 embedding 失败后的降级标记
}

// ResetRequest 管理员清空某用户数据的请求体
type ResetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
