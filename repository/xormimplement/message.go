package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"xorm.io/builder"
)

type MessageRepository struct {
	session *Session
}

func NewMessageRepository(session *Session) repository.MessageRepository {
	return &MessageRepository{session: session}
}

func buildMessageQueryConditions(condition *model.GetMessagesCondition) builder.Cond {
	var conds []builder.Cond

	if condition.UserID != nil && *condition.UserID != "" {
		conds = append(conds, builder.Eq{entity.MessageFieldUserID: *condition.UserID})
	}
	if condition.StartTS != nil {
		conds = append(conds, builder.Gte{entity.MessageFieldCreatedAt: *condition.StartTS})
	}
	if condition.EndTS != nil {
		conds = append(conds, builder.Lte{entity.MessageFieldCreatedAt: *condition.EndTS})
	}

	if len(conds) == 0 {
		return nil
	}
	return builder.And(conds...)
}

func (r *MessageRepository) Insert(data *entity.Message) error {
	if data == nil {
		return fmt.Errorf("messages data cannot be nil")
	}

	_, err := r.session.Table(entity.TableNameMessages).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert messages: %w", err)
	}

	return nil
}

func (r *MessageRepository) List(condition *model.GetMessagesCondition) ([]*entity.Message, int64, error) {
	if condition == nil {
		return nil, 0, fmt.Errorf("get condition cannot be nil")
	}

	cond := buildMessageQueryConditions(condition)

	session := r.session.Table(entity.TableNameMessages)
	if cond != nil {
		session = session.Where(cond)
	}

	pagerOrder(session, condition, WithDefaultOrderField(entity.MessageFieldCreatedAt))

	var results []*entity.Message
	total, err := session.FindAndCount(&results)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	return results, total, nil
}

// GetRecentByUser 获取用户最近的 N 条消息
func (r *MessageRepository) GetRecentByUser(userID string, limit int) ([]*entity.Message, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*entity.Message
	err := r.session.Table(entity.TableNameMessages).
		Where(builder.Eq{entity.MessageFieldUserID: userID}).
		OrderBy(entity.MessageFieldCreatedAt + " DESC").
		Limit(limit).
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}

	// 反转结果，使其按时间升序排列
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	return results, nil
}

func (r *MessageRepository) DeleteByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameMessages).
		Where(builder.Eq{entity.MessageFieldUserID: userID}).
		Delete(&entity.Message{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages by user: %w", err)
	}

	return affected, nil
}
