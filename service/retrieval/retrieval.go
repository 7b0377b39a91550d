package retrieval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/embedding"
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

// Result 混合检索结果
type Result struct {
	Frames []model.RankedFrame
	// Degraded embedding 超时或失败后退化为仅块检索
	Degraded bool
}

// Retrieve 混合检索：块通道与向量通道并发执行后合并排名。
// 向量通道受 embed 超时约束，超时不阻塞也不报错，降级为仅块检索。
func (s *Service) Retrieve(ctx context.Context, userID, queryText string, blocks []string, opts *model.RetrievalOptions) (*Result, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	options := s.fillOptions(opts)

	var (
		wg         sync.WaitGroup
		blockHits  []ChannelHit
		vectorHits []ChannelHit
		blockErr   *model.Error
		degraded   bool
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		blockHits, blockErr = s.blockChannel(ctx, userID, blocks, options)
	}()

	if queryText != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := s.vectorChannel(ctx, userID, queryText, options)
			if err != nil {
				// 向量通道失败只降级，块通道结果照常返回
				log.Warnf("vector channel degraded for user=%s: %v", userID, err)
				degraded = true
				return
			}
			vectorHits = hits
		}()
	}

	wg.Wait()

	if blockErr != nil {
		return nil, blockErr
	}

	frames := MergeChannels(blockHits, vectorHits, options.CrossBonus, options.MaxResults)
	log.Infof("Hybrid retrieval for user=%s: block_hits=%d, vector_hits=%d, returned=%d, degraded=%v",
		userID, len(blockHits), len(vectorHits), len(frames), degraded)

	return &Result{Frames: frames, Degraded: degraded}, nil
}

// blockChannel 取块命中的帧并按 重要度 x 时间衰减 打分
func (s *Service) blockChannel(ctx context.Context, userID string, blocks []string, options *model.RetrievalOptions) ([]ChannelHit, *model.Error) {
	if len(blocks) == 0 {
		return nil, nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	frameRepo := newFrameRepository(s.repositoryFactory, session)

	// 取宽一些再合并，截断交给 MergeChannels
	frames, err := frameRepo.GetByBlocks(&model.GetFramesByBlocksCondition{
		UserID: userID,
		Blocks: blocks,
		Limit:  options.MaxResults * 2,
	})
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to query block channel: %w", err))
	}

	now := time.Now()
	hits := make([]ChannelHit, 0, len(frames))
	for _, frame := range frames {
		hits = append(hits, ChannelHit{
			FrameID:   frame.ID,
			Content:   frame.Content,
			Score:     BlockScore(frame.Importance, frame.CreatedAt, now, options.DecayHalfLifeHrs),
			CreatedAt: frame.CreatedAt,
		})
	}
	return hits, nil
}

// vectorChannel 查询文本向量化后做余弦近邻检索
func (s *Service) vectorChannel(ctx context.Context, userID, queryText string, options *model.RetrievalOptions) ([]ChannelHit, error) {
	embeddingClient, err := embedding.GetInstance()
	if err != nil {
		return nil, fmt.Errorf("embedding client unavailable: %w", err)
	}

	embedCtx, cancel := context.WithTimeout(ctx, time.Duration(options.EmbedTimeoutSec)*time.Second)
	defer cancel()

	queryEmbedding, err := embeddingClient.GetTextEmbedding(embedCtx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	vectorRepo := newVectorRecordRepository(s.repositoryFactory, session)

	ownerType := constant.VectorOwnerTypeFrame
	condition := &model.VectorSearchCondition{
		UserID:      userID,
		OwnerType:   &ownerType,
		QueryVector: embedding.VectorToString(queryEmbedding),
		Limit:       options.VectorTopK,
	}
	if options.SimilarityMinimum > 0 {
		condition.Threshold = &options.SimilarityMinimum
	}

	matches, err := vectorRepo.QueryNearest(condition)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest vectors: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// 取回帧本体补齐创建时间，已删除的帧静默跳过
	ids := make([]int64, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.OwnerID)
	}

	frameRepo := newFrameRepository(s.repositoryFactory, session)
	frames, err := frameRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vector hits: %w", err)
	}

	byID := make(map[int64]*ChannelHit, len(matches))
	for _, match := range matches {
		byID[match.OwnerID] = &ChannelHit{
			FrameID: match.OwnerID,
			Content: match.Text,
			Score:   match.Similarity,
		}
	}

	hits := make([]ChannelHit, 0, len(frames))
	for _, frame := range frames {
		hit, ok := byID[frame.ID]
		if !ok {
			continue
		}
		hit.CreatedAt = frame.CreatedAt
		if hit.Content == "" {
			hit.Content = frame.Content
		}
		hits = append(hits, *hit)
	}
	return hits, nil
}

func (s *Service) fillOptions(opts *model.RetrievalOptions) *model.RetrievalOptions {
	cfg := config.GetInstance()
	filled := &model.RetrievalOptions{}
	if opts != nil {
		*filled = *opts
	}

	if filled.VectorTopK <= 0 {
		filled.VectorTopK = cfg.GetIntOrDefault(config.RetrievalVectorTopK, constant.DefaultVectorTopK)
	}
	if filled.CrossBonus <= 0 {
		filled.CrossBonus = cfg.GetFloat64OrDefault(config.RetrievalCrossBonus, constant.DefaultCrossBonus)
	}
	if filled.MaxResults <= 0 {
		filled.MaxResults = cfg.GetIntOrDefault(config.RetrievalMaxResults, constant.DefaultRetrievalMaxResults)
	}
	if filled.EmbedTimeoutSec <= 0 {
		filled.EmbedTimeoutSec = cfg.GetIntOrDefault(config.RetrievalEmbedTimeoutSec, constant.DefaultEmbedTimeoutSeconds)
	}
	if filled.DecayHalfLifeHrs <= 0 {
		filled.DecayHalfLifeHrs = cfg.GetFloat64OrDefault(config.RetrievalDecayHalfLifeHrs, constant.DefaultDecayHalfLifeHours)
	}
	return filled
}

func newFrameRepository(repoFactory factory.Factory, session interfaces.Session) repository.FrameRepository {
	repo, err := repoFactory.NewFrameRepository(session)
	if err != nil {
		panic("failed to create frame repository: " + err.Error())
	}
	return repo
}

func newVectorRecordRepository(repoFactory factory.Factory, session interfaces.Session) repository.VectorRecordRepository {
	repo, err := repoFactory.NewVectorRecordRepository(session)
	if err != nil {
		panic("failed to create vector record repository: " + err.Error())
	}
	return repo
}
