package frame

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	log "github.com/sirupsen/logrus"
)

var (
	serviceOnce sync.Once
	instance    *Service
)

type Service struct {
	repositoryFactory factory.Factory
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
		}
	})

	return instance
}

// BuildResult 一批分类片段转换为帧后的结果
type BuildResult struct {
	Frames        []*entity.Frame
	RejectedParts []model.PartError
}

// BuildFrames 将分类片段逐个校验并转换为帧实体。
// 单个 part 校验失败只记入 RejectedParts，不影响其余 parts。
func (s *Service) BuildFrames(userID string, messageID *int64, parts []model.ClassificationPart) (*BuildResult, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	result := &BuildResult{
		Frames:        make([]*entity.Frame, 0, len(parts)),
		RejectedParts: make([]model.PartError, 0),
	}

	for i := range parts {
		part := parts[i]

		if err := model.ValidatePart(&part); err != nil {
			log.Warnf("frame part %d rejected for user=%s: %v", i, userID, err)
			result.RejectedParts = append(result.RejectedParts, model.PartError{
				Index:  i,
				Reason: err.Error(),
			})
			continue
		}

		frame, err := partToFrame(userID, messageID, &part)
		if err != nil {
			result.RejectedParts = append(result.RejectedParts, model.PartError{
				Index:  i,
				Reason: err.Error(),
			})
			continue
		}

		result.Frames = append(result.Frames, frame)
	}

	return result, nil
}

// SaveFrames 批量入库
func (s *Service) SaveFrames(ctx context.Context, frames []*entity.Frame) *model.Error {
	if len(frames) == 0 {
		return nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	if err := frameRepo.Insert(frames); err != nil {
		return model.NewError(model.ErrorDB, fmt.Errorf("failed to insert frames: %w", err))
	}

	log.Infof("Saved %d frames for user=%s", len(frames), frames[0].UserID)
	return nil
}

// GetByBlocks 块通道检索：返回 blocks 与给定标签有交集的帧
func (s *Service) GetByBlocks(ctx context.Context, userID string, blocks []string, limit int) ([]*entity.Frame, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	frames, err := frameRepo.GetByBlocks(&model.GetFramesByBlocksCondition{
		UserID: userID,
		Blocks: blocks,
		Limit:  limit,
	})
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to get frames by blocks: %w", err))
	}

	return frames, nil
}

// GetByIDs 按输入顺序返回帧，已删除的 id 静默跳过
func (s *Service) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Frame, *model.Error) {
	if len(ids) == 0 {
		return nil, nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	frames, err := frameRepo.GetByIDs(ids)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to get frames by ids: %w", err))
	}

	return frames, nil
}

// List 按条件查询帧（带分页）
func (s *Service) List(ctx context.Context, condition *model.GetFramesCondition) ([]*entity.Frame, int64, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	frames, total, err := frameRepo.List(condition)
	if err != nil {
		return nil, 0, model.NewError(model.ErrorDB, fmt.Errorf("failed to list frames: %w", err))
	}

	return frames, total, nil
}

// MarkEmbedded 回填帧的 embedding 引用，帧的其余字段不可变
func (s *Service) MarkEmbedded(ctx context.Context, frameID int64, req *model.UpdateFrameCondition) *model.Error {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	if err := frameRepo.Update(frameID, req); err != nil {
		return model.NewError(model.ErrorDB, fmt.Errorf("failed to mark frame embedded: %w", err))
	}

	return nil
}

// partToFrame 单个片段转换为帧实体，blocks 与 target_block 序列化为 JSONB 字符串
func partToFrame(userID string, messageID *int64, part *model.ClassificationPart) (*entity.Frame, error) {
	blocksJSON, err := json.Marshal(part.Blocks)
	if err != nil {
		return nil, fmt.Errorf("marshal blocks: %w", err)
	}

	frame := &entity.Frame{
		UserID:        userID,
		MessageID:     messageID,
		Content:       part.Part,
		Blocks:        string(blocksJSON),
		Emotion:       part.Emotion,
		Importance:    part.Importance,
		ThinkingFrame: part.ThinkingFrame,
		LevelOfMind:   part.LevelOfMind,
		MemoryType:    part.MemoryType,
		Action:        part.Action,
		StrategyHint:  part.StrategyHint,
	}

	if tb := model.NormalizeTargetBlock(part.TargetBlock); tb != nil {
		tbJSON, err := json.Marshal(tb)
		if err != nil {
			return nil, fmt.Errorf("marshal target_block: %w", err)
		}
		tbStr := string(tbJSON)
		frame.TargetBlock = &tbStr
	}

	return frame, nil
}

// ParseBlocks 反序列化帧上的块标签列表
func ParseBlocks(frame *entity.Frame) []string {
	if frame == nil || frame.Blocks == "" {
		return nil
	}
	var blocks []string
	if err := json.Unmarshal([]byte(frame.Blocks), &blocks); err != nil {
		log.Warnf("frame %d has malformed blocks: %v", frame.ID, err)
		return nil
	}
	return blocks
}

func newFrameRepository(repoFactory factory.Factory, session interfaces.Session) repository.FrameRepository {
	repo, err := repoFactory.NewFrameRepository(session)
	if err != nil {
		panic("failed to create frame repository: " + err.Error())
	}
	return repo
}
