package entity

import "time"

const (
	TableNameFrameTracking = "frame_tracking"

	FrameTrackingFieldID              = "id"
	FrameTrackingFieldUserID          = "user_id"
	FrameTrackingFieldLabel           = "label"
	FrameTrackingFieldRepetitionCount = "repetition_count"
	FrameTrackingFieldThreshold       = "threshold"
	FrameTrackingFieldConfirmed       = "confirmed"
	FrameTrackingFieldConfirmedAt     = "confirmed_at"
	FrameTrackingFieldCreatedAt       = "created_at"
	FrameTrackingFieldUpdatedAt       = "updated_at"
)

// FrameTracking 每个 (user, label) 一行。repetition_count 只增不减，
// confirmed 置位后不回退，只有管理员重置会清掉整行。
type FrameTracking struct {
	ID              int64      `xorm:"pk autoincr id" json:"id"`
	UserID          string     `xorm:"user_id unique(user_label)" json:"user_id"`
	Label           string     `xorm:"label unique(user_label)" json:"label"`
	RepetitionCount int        `xorm:"repetition_count" json:"repetition_count"`
	Threshold       int        `xorm:"threshold" json:"threshold"`
	Confirmed       bool       `xorm:"confirmed" json:"confirmed"`
	ConfirmedAt     *time.Time `xorm:"confirmed_at" json:"confirmed_at"`
	CreatedAt       time.Time  `xorm:"created_at created" json:"created_at"`
	UpdatedAt       time.Time  `xorm:"updated_at updated" json:"updated_at"`
}

func (e *FrameTracking) TableName() string {
	return TableNameFrameTracking
}
