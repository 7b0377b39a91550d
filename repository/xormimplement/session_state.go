package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"xorm.io/builder"
)

type SessionStateRepository struct {
	session *Session
}

func NewSessionStateRepository(session *Session) repository.SessionStateRepository {
	return &SessionStateRepository{session: session}
}

func (r *SessionStateRepository) GetByUser(userID string) (*entity.SessionState, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	result := &entity.SessionState{}
	ok, err := r.session.Table(entity.TableNameSessionStates).
		Where(builder.Eq{entity.SessionStateFieldUserID: userID}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get session_states: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *SessionStateRepository) Insert(data *entity.SessionState) error {
	if data == nil {
		return fmt.Errorf("session_states data cannot be nil")
	}

	_, err := r.session.Table(entity.TableNameSessionStates).Insert(data)
	if err != nil {
		return fmt.Errorf("failed to insert session_states: %w", err)
	}

	return nil
}

func (r *SessionStateRepository) Update(userID string, req *model.UpdateSessionStateCondition) error {
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	if req == nil {
		return fmt.Errorf("update request cannot be nil")
	}

	updateData := make(map[string]interface{})
	if req.ActiveBlocks != nil {
		updateData[entity.SessionStateFieldActiveBlocks] = *req.ActiveBlocks
	}
	if req.PendingTopics != nil {
		updateData[entity.SessionStateFieldPendingTopics] = *req.PendingTopics
	}
	if req.MetaFlags != nil {
		updateData[entity.SessionStateFieldMetaFlags] = *req.MetaFlags
	}
	if req.TurnCounter != nil {
		updateData[entity.SessionStateFieldTurnCounter] = *req.TurnCounter
	}

	if len(updateData) == 0 {
		return fmt.Errorf("at least one field must be updated")
	}

	_, err := r.session.Table(entity.TableNameSessionStates).
		Where(builder.Eq{entity.SessionStateFieldUserID: userID}).
		Update(updateData)
	if err != nil {
		return fmt.Errorf("failed to update session_states: %w", err)
	}

	return nil
}

func (r *SessionStateRepository) DeleteByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameSessionStates).
		Where(builder.Eq{entity.SessionStateFieldUserID: userID}).
		Delete(&entity.SessionState{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete session_states by user: %w", err)
	}

	return affected, nil
}
