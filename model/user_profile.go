package model

// GetUserProfileCondition 查询条件
type GetUserProfileCondition struct {
	UserID *string `json:"user_id"`
	Key    *string `json:"key"`
	*Pager
	*Order
}

func (g *GetUserProfileCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetUserProfileCondition) GetOrder() *Order {
	return g.Order
}

// UpsertUserProfileCondition 画像键值写入条件
type UpsertUserProfileCondition struct {
	UserID      string  `json:"user_id"`
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Confidence  float32 `json:"confidence"`
	SourceMsgID *int64  `json:"source_msg_id"`
}

// ProfileAnalysis 画像分析器输出
type ProfileAnalysis struct {
	UpdateNeeded  bool    `json:"update_needed"`
	ExtractedInfo *string `json:"extracted_info"`
	Reason        *string `json:"reason"`
}
