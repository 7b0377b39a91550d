package model

// GetFrameTrackingCondition 查询条件
type GetFrameTrackingCondition struct {
	UserID *string `json:"user_id"`
	Label  *string `json:"label"`
	*Pager
	*Order
}

func (g *GetFrameTrackingCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetFrameTrackingCondition) GetOrder() *Order {
	return g.Order
}
