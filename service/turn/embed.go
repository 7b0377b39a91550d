package turn

import (
	"context"
	"fmt"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/embedding"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	log "github.com/sirupsen/logrus"
)

// embedFrames 同步为新帧写向量，受 embed 超时约束。
// 失败不阻断本轮处理：帧 id 进后台补偿队列，返回降级标记。
func (s *Service) embedFrames(ctx context.Context, frames []*entity.Frame) bool {
	if len(frames) == 0 {
		return false
	}

	timeoutSec := config.GetInstance().GetIntOrDefault(config.RetrievalEmbedTimeoutSec, constant.DefaultEmbedTimeoutSeconds)
	embedCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	if err := embedAndStore(embedCtx, s.repositoryFactory, frames); err != nil {
		log.Warnf("synchronous embedding failed, frames queued for backfill: %v", err)
		for _, frame := range frames {
			s.backfill.Enqueue(frame.ID)
		}
		return true
	}

	return false
}

// embedAndStore 批量向量化并落库：vector_records 幂等 upsert，
// 帧上回填 embedding 引用。
func embedAndStore(ctx context.Context, repositoryFactory factory.Factory, frames []*entity.Frame) error {
	embeddingClient, err := embedding.GetInstance()
	if err != nil {
		return fmt.Errorf("embedding client unavailable: %w", err)
	}

	texts := make([]string, len(frames))
	for i, frame := range frames {
		texts[i] = frame.Content
	}

	vectors, err := embeddingClient.GetTextEmbeddingBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed frames: %w", err)
	}

	session := repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	vectorRepo, err := repositoryFactory.NewVectorRecordRepository(session)
	if err != nil {
		return fmt.Errorf("failed to create vector record repository: %w", err)
	}
	frameRepo, err := repositoryFactory.NewFrameRepository(session)
	if err != nil {
		return fmt.Errorf("failed to create frame repository: %w", err)
	}

	now := time.Now()
	for i, frame := range frames {
		if i >= len(vectors) || len(vectors[i]) == 0 {
			continue
		}

		record, err := vectorRepo.Upsert(&entity.VectorRecord{
			UserID:    frame.UserID,
			OwnerType: constant.VectorOwnerTypeFrame,
			OwnerID:   frame.ID,
			Text:      frame.Content,
			Embedding: embedding.VectorToString(vectors[i]),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert vector record for frame %d: %w", frame.ID, err)
		}

		if err := frameRepo.Update(frame.ID, &model.UpdateFrameCondition{
			EmbeddingID: &record.ID,
			EmbeddedAt:  &now,
		}); err != nil {
			return fmt.Errorf("failed to mark frame %d embedded: %w", frame.ID, err)
		}
	}

	return nil
}
