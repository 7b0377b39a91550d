package entity

import "time"

const (
	TableNameMessages = "messages"

	MessageFieldID         = "id"
	MessageFieldUserID     = "user_id"
	MessageFieldSenderRole = "sender_role"
	MessageFieldContent    = "content"
	MessageFieldCreatedAt  = "created_at"
)

const (
	SenderRoleUser      = "user"
	SenderRoleAssistant = "assistant"
)

// Message 会话消息，帧通过 message_id 指回来源消息
type Message struct {
	ID         int64     `xorm:"pk autoincr id" json:"id"`
	UserID     string    `xorm:"user_id" json:"user_id"`
	SenderRole string    `xorm:"sender_role" json:"sender_role"`
	Content    string    `xorm:"content" json:"content"`
	CreatedAt  time.Time `xorm:"created_at created" json:"created_at"`
}

func (e *Message) TableName() string {
	return TableNameMessages
}
