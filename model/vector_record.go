package model

// VectorSearchCondition 向量检索条件
type VectorSearchCondition struct {
	UserID      string   `json:"user_id"`
	OwnerType   *string  `json:"owner_type"`   // 可选，frame / core_profile
	QueryVector string   `json:"query_vector"` // 查询向量（字符串格式）
	Limit       int      `json:"limit"`        // 返回数量
	Threshold   *float64 `json:"threshold"`    // 相似度阈值（可选）
}

// VectorMatch 向量检索的一条命中，相似度已归一到 [0,1]
type VectorMatch struct {
	OwnerID    int64   `json:"owner_id"`
	OwnerType  string  `json:"owner_type"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}
