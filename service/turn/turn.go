package turn

import (
	"context"
	"fmt"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/classifier"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/promotion"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/userlock"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	frameservice "github.com/TaisyaFreelanse/twelvesteps/service/frame"
	profileservice "github.com/TaisyaFreelanse/twelvesteps/service/profile"
	retrievalservice "github.com/TaisyaFreelanse/twelvesteps/service/retrieval"
	sessionservice "github.com/TaisyaFreelanse/twelvesteps/service/session"
	trackingservice "github.com/TaisyaFreelanse/twelvesteps/service/tracking"
	log "github.com/sirupsen/logrus"
)

var (
	serviceOnce sync.Once
	instance    *Service
)

// Classifier 消息分类接口，便于测试替换
type Classifier interface {
	Classify(c context.Context, message string) (*model.ClassificationResult, error)
}

type Service struct {
	repositoryFactory factory.Factory
	locker            userlock.Locker
	classifier        Classifier
	frameService      *frameservice.Service
	trackingService   *trackingservice.Service
	sessionService    *sessionservice.Service
	retrievalService  *retrievalservice.Service
	profileService    *profileservice.Service
	backfill          *backfillWorker
}

func NewService(repositoryFactory factory.Factory, locker userlock.Locker) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
			locker:            locker,
			classifier:        classifier.GetInstance(),
			frameService:      frameservice.NewService(repositoryFactory),
			trackingService:   trackingservice.NewService(repositoryFactory),
			sessionService:    sessionservice.NewService(repositoryFactory),
			retrievalService:  retrievalservice.NewService(repositoryFactory),
			profileService:    profileservice.NewService(repositoryFactory),
		}
		instance.backfill = newBackfillWorker(repositoryFactory)
		instance.backfill.Start()
	})

	return instance
}

// ProcessMessage 处理一轮用户消息的完整管线：
// 落消息、分类、帧入库、标签计数、向量写入、会话状态更新、混合检索。
// 同一用户的并发请求经 locker 串行化；embedding 失败只降级不报错。
func (s *Service) ProcessMessage(ctx context.Context, req *model.TurnRequest) (*model.TurnResult, *model.Error) {
	if req == nil || req.UserID == "" || req.Message == "" {
		return nil, model.NewError(model.ErrorParams, nil)
	}

	release, err := s.locker.Acquire(ctx, req.UserID)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to acquire user lock: %w", err))
	}
	defer release()

	// 上一轮的活跃块在本轮写入前采样，frame_shift 的判定基准
	prevState, stateErr := s.sessionService.GetState(ctx, req.UserID)
	if stateErr != nil {
		return nil, stateErr
	}

	messageID, msgErr := s.saveMessage(ctx, req.UserID, req.Message)
	if msgErr != nil {
		return nil, msgErr
	}

	classification, classifyErr := s.classifier.Classify(ctx, req.Message)
	if classifyErr != nil {
		if modelErr, ok := classifyErr.(*model.Error); ok {
			return nil, modelErr
		}
		return nil, model.NewError(model.ErrorClassification, classifyErr)
	}

	build, buildErr := s.frameService.BuildFrames(req.UserID, &messageID, classification.Parts)
	if buildErr != nil {
		return nil, buildErr
	}

	if saveErr := s.frameService.SaveFrames(ctx, build.Frames); saveErr != nil {
		return nil, saveErr
	}

	frameIDs := make([]int64, 0, len(build.Frames))
	for _, frame := range build.Frames {
		frameIDs = append(frameIDs, frame.ID)
	}

	// 标签计数：只统计入库成功的帧，消息内去重由 promotion 保证
	labels := collectLabels(classification.Parts, build)
	observe, observeErr := s.trackingService.ObserveLabels(ctx, req.UserID, labels)
	if observeErr != nil {
		return nil, observeErr
	}

	// embedding 尽力而为：失败的帧进后台补偿队列
	degraded := s.embedFrames(ctx, build.Frames)

	blocks := collectBlocks(build.Frames)
	metaFlags := trackingservice.DetectMetaFlags(prevState.ActiveBlocks, classification.Parts, observe.NewlyConfirmed)

	state, turnErr := s.sessionService.RecordTurn(ctx, req.UserID, &sessionservice.TurnUpdate{
		Blocks:        blocks,
		PendingTopics: collectPendingTopics(classification.Metadata),
		MetaFlags:     metaFlags,
	})
	if turnErr != nil {
		return nil, turnErr
	}

	// 画像更新尽力而为，失败不影响本轮结果
	if config.GetInstance().GetBoolOrDefault(config.ProfileEnableAutoUpdate, false) {
		if _, profileErr := s.profileService.AnalyzeAndUpdate(ctx, req.UserID, req.Message, &messageID); profileErr != nil {
			log.Warnf("profile auto update failed for user=%s: %v", req.UserID, profileErr)
		}
	}

	retrieveBlocks := unionBlocks(state.ActiveBlocks, blocks)
	retrieved, retrieveErr := s.retrievalService.Retrieve(ctx, req.UserID, req.Message, retrieveBlocks, nil)
	if retrieveErr != nil {
		return nil, retrieveErr
	}

	return &model.TurnResult{
		MessageID:       messageID,
		FrameIDs:        frameIDs,
		RejectedParts:   build.RejectedParts,
		ConfirmedLabels: observe.NewlyConfirmed,
		ActiveBlocks:    state.ActiveBlocks,
		Context:         retrieved.Frames,
		Degraded:        degraded || retrieved.Degraded,
	}, nil
}

// GetContext 只读的混合检索入口：用当前活跃块 + 查询文本取上下文
func (s *Service) GetContext(ctx context.Context, userID, query string) (*model.TurnResult, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	state, stateErr := s.sessionService.GetState(ctx, userID)
	if stateErr != nil {
		return nil, stateErr
	}

	retrieved, retrieveErr := s.retrievalService.Retrieve(ctx, userID, query, state.ActiveBlocks, nil)
	if retrieveErr != nil {
		return nil, retrieveErr
	}

	return &model.TurnResult{
		ActiveBlocks: state.ActiveBlocks,
		Context:      retrieved.Frames,
		Degraded:     retrieved.Degraded,
	}, nil
}

func (s *Service) saveMessage(ctx context.Context, userID, content string) (int64, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	messageRepo := newMessageRepository(s.repositoryFactory, session)
	message := &entity.Message{
		UserID:     userID,
		SenderRole: entity.SenderRoleUser,
		Content:    content,
	}
	if err := messageRepo.Insert(message); err != nil {
		return 0, model.NewError(model.ErrorDB, fmt.Errorf("failed to insert message: %w", err))
	}
	return message.ID, nil
}

// collectLabels 取入库成功的帧对应 part 的追踪标签
func collectLabels(parts []model.ClassificationPart, build *frameservice.BuildResult) []string {
	rejected := make(map[int]struct{}, len(build.RejectedParts))
	for _, pe := range build.RejectedParts {
		rejected[pe.Index] = struct{}{}
	}

	labels := make([]string, 0, len(parts))
	for i := range parts {
		if _, ok := rejected[i]; ok {
			continue
		}
		labels = append(labels, parts[i].PromotionLabel())
	}
	return promotion.DedupeLabels(labels)
}

func collectBlocks(frames []*entity.Frame) []string {
	blocks := make([]string, 0)
	for _, frame := range frames {
		blocks = append(blocks, frameservice.ParseBlocks(frame)...)
	}
	return promotion.DedupeLabels(blocks)
}

func collectPendingTopics(metadata *model.ClassificationMetadata) []string {
	if metadata == nil {
		return nil
	}
	topics := make([]string, 0, 1)
	if metadata.Intention != nil && *metadata.Intention != "" {
		topics = append(topics, *metadata.Intention)
	}
	return topics
}

func unionBlocks(a, b []string) []string {
	return promotion.DedupeLabels(append(append([]string{}, a...), b...))
}

func newMessageRepository(repoFactory factory.Factory, session interfaces.Session) repository.MessageRepository {
	repo, err := repoFactory.NewMessageRepository(session)
	if err != nil {
		panic("failed to create message repository: " + err.Error())
	}
	return repo
}
