package xormimplement

import (
	"fmt"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"xorm.io/builder"
)

type VectorRecordRepository struct {
	session *Session
}

func NewVectorRecordRepository(session *Session) repository.VectorRecordRepository {
	return &VectorRecordRepository{session: session}
}

// Upsert 以 (owner_type, owner_id) 为键幂等写入
func (r *VectorRecordRepository) Upsert(data *entity.VectorRecord) (*entity.VectorRecord, error) {
	if data == nil {
		return nil, fmt.Errorf("vector_records data cannot be nil")
	}
	if data.OwnerType == "" || data.OwnerID <= 0 {
		return nil, fmt.Errorf("vector_records owner is required")
	}

	existing := &entity.VectorRecord{}
	ok, err := r.session.Table(entity.TableNameVectorRecords).
		Where(builder.Eq{
			entity.VectorRecordFieldOwnerType: data.OwnerType,
			entity.VectorRecordFieldOwnerID:   data.OwnerID,
		}).
		Get(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to get vector_records for upsert: %w", err)
	}

	if !ok {
		if _, err := r.session.Table(entity.TableNameVectorRecords).Insert(data); err != nil {
			return nil, fmt.Errorf("failed to insert vector_records: %w", err)
		}
		return data, nil
	}

	updateData := map[string]interface{}{
		entity.VectorRecordFieldText:      data.Text,
		entity.VectorRecordFieldEmbedding: data.Embedding,
	}
	_, err = r.session.Table(entity.TableNameVectorRecords).
		Where(builder.Eq{entity.VectorRecordFieldID: existing.ID}).
		Update(updateData)
	if err != nil {
		return nil, fmt.Errorf("failed to update vector_records: %w", err)
	}

	existing.Text = data.Text
	existing.Embedding = data.Embedding
	return existing, nil
}

func (r *VectorRecordRepository) Get(ownerType string, ownerID int64) (*entity.VectorRecord, error) {
	if ownerType == "" || ownerID <= 0 {
		return nil, fmt.Errorf("vector_records owner is required")
	}

	result := &entity.VectorRecord{}
	ok, err := r.session.Table(entity.TableNameVectorRecords).
		Where(builder.Eq{
			entity.VectorRecordFieldOwnerType: ownerType,
			entity.VectorRecordFieldOwnerID:   ownerID,
		}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get vector_records: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

// QueryNearest 向量相似度检索（使用 pgvector 的余弦相似度）
func (r *VectorRecordRepository) QueryNearest(condition *model.VectorSearchCondition) ([]*model.VectorMatch, error) {
	if condition == nil {
		return nil, fmt.Errorf("vector search condition cannot be nil")
	}
	if condition.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if condition.QueryVector == "" {
		return nil, fmt.Errorf("query_vector is required")
	}
	if condition.Limit <= 0 {
		condition.Limit = 10
	}

	// 1 - (embedding <=> query_vector) 得到相似度分数（越大越相似）
	sql := fmt.Sprintf(`
		SELECT owner_id, owner_type, text,
		       1 - (embedding <=> '%s'::vector) as similarity
		FROM %s
		WHERE user_id = $1
	`, condition.QueryVector, entity.TableNameVectorRecords)

	args := []interface{}{condition.UserID}
	argIndex := 2

	if condition.OwnerType != nil && *condition.OwnerType != "" {
		sql += fmt.Sprintf(" AND owner_type = $%d", argIndex)
		args = append(args, *condition.OwnerType)
		argIndex++
	}
	if condition.Threshold != nil {
		sql += fmt.Sprintf(" AND (1 - (embedding <=> '%s'::vector)) >= $%d", condition.QueryVector, argIndex)
		args = append(args, *condition.Threshold)
	}

	// 按相似度降序排序并限制数量
	sql += fmt.Sprintf(" ORDER BY similarity DESC LIMIT %d", condition.Limit)

	var results []*model.VectorMatch
	err := r.session.SQL(sql, args...).Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest vector_records: %w", err)
	}

	return results, nil
}

func (r *VectorRecordRepository) DeleteByOwner(ownerType string, ownerID int64) error {
	if ownerType == "" || ownerID <= 0 {
		return fmt.Errorf("vector_records owner is required")
	}

	_, err := r.session.Table(entity.TableNameVectorRecords).
		Where(builder.Eq{
			entity.VectorRecordFieldOwnerType: ownerType,
			entity.VectorRecordFieldOwnerID:   ownerID,
		}).
		Delete(&entity.VectorRecord{})
	if err != nil {
		return fmt.Errorf("failed to delete vector_records by owner: %w", err)
	}

	return nil
}

func (r *VectorRecordRepository) DeleteByUser(userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("user_id is required")
	}

	affected, err := r.session.Table(entity.TableNameVectorRecords).
		Where(builder.Eq{entity.VectorRecordFieldUserID: userID}).
		Delete(&entity.VectorRecord{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete vector_records by user: %w", err)
	}

	return affected, nil
}
