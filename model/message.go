package model

import "time"

// GetMessagesCondition 查询条件（带分页和排序）
type GetMessagesCondition struct {
	UserID  *string    `json:"user_id"`
	StartTS *time.Time `json:"start_ts"`
	EndTS   *time.Time `json:"end_ts"`
	*Pager
	*Order
}

func (g *GetMessagesCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetMessagesCondition) GetOrder() *Order {
	return g.Order
}
