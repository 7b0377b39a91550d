package entity

import "time"

const (
	TableNameVectorRecords = "vector_records"

	VectorRecordFieldID        = "id"
	VectorRecordFieldUserID    = "user_id"
	VectorRecordFieldOwnerType = "owner_type"
	VectorRecordFieldOwnerID   = "owner_id"
	VectorRecordFieldText      = "text"
	VectorRecordFieldEmbedding = "embedding"
	VectorRecordFieldCreatedAt = "created_at"
	VectorRecordFieldUpdatedAt = "updated_at"
)

// VectorRecord 帧文本（或核心画像片段）的向量。
// (owner_type, owner_id) 唯一，upsert 幂等。
type VectorRecord struct {
	ID        int64     `xorm:"pk autoincr id" json:"id"`
	UserID    string    `xorm:"user_id" json:"user_id"`
	OwnerType string    `xorm:"owner_type unique(owner)" json:"owner_type"`
	OwnerID   int64     `xorm:"owner_id unique(owner)" json:"owner_id"`
	Text      string    `xorm:"text" json:"text"`
	Embedding string    `xorm:"embedding" json:"embedding"` // PostgreSQL vector 类型，存储为字符串
	CreatedAt time.Time `xorm:"created_at created" json:"created_at"`
	UpdatedAt time.Time `xorm:"updated_at updated" json:"updated_at"`
}

func (e *VectorRecord) TableName() string {
	return TableNameVectorRecords
}
