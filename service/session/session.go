package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/promotion"
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

// TurnUpdate 一轮对话对会话状态的全部写入
type TurnUpdate struct {
	Blocks        []string
	PendingTopics []string
	MetaFlags     []string
}

// State 解码后的会话状态视图
type State struct {
	UserID        string                      `json:"user_id"`
	ActiveBlocks  []string                    `json:"active_blocks"`
	BlockTouches  map[string]model.BlockTouch `json:"block_touches"`
	PendingTopics []string                    `json:"pending_topics"`
	MetaFlags     []string                    `json:"meta_flags"`
	TurnCounter   int64                       `json:"turn_counter"`
}

// RecordTurn 记录一轮对话：轮计数自增，本轮的块写入触达表，
// 待跟进话题并入已有集合（去重、保序），元信号是每轮的即时判断、整体覆盖。
// 会话状态只有这里和 Reset 两个写入口。
func (s *Service) RecordTurn(ctx context.Context, userID string, update *TurnUpdate) (*State, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}
	if update == nil {
		update = &TurnUpdate{}
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	stateRepo := newSessionStateRepository(s.repositoryFactory, session)

	row, err := stateRepo.GetByUser(userID)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to get session state: %w", err))
	}

	if row == nil {
		row = &entity.SessionState{
			UserID:        userID,
			ActiveBlocks:  "{}",
			PendingTopics: "[]",
			MetaFlags:     "[]",
		}
		if err := stateRepo.Insert(row); err != nil {
			return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to insert session state: %w", err))
		}
	}

	touches := parseTouches(row.ActiveBlocks)
	now := time.Now()
	turn := row.TurnCounter + 1
	touches = TouchBlocks(touches, update.Blocks, turn, now)
	pendingTopics := normalizeList(promotion.DedupeLabels(
		append(parseList(row.PendingTopics), update.PendingTopics...)))

	touchesJSON, err := json.Marshal(touches)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("marshal active blocks: %w", err))
	}
	topicsJSON, err := json.Marshal(pendingTopics)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("marshal pending topics: %w", err))
	}
	flagsJSON, err := json.Marshal(normalizeList(update.MetaFlags))
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("marshal meta flags: %w", err))
	}

	touchesStr := string(touchesJSON)
	topicsStr := string(topicsJSON)
	flagsStr := string(flagsJSON)

	if err := stateRepo.Update(userID, &model.UpdateSessionStateCondition{
		ActiveBlocks:  &touchesStr,
		PendingTopics: &topicsStr,
		MetaFlags:     &flagsStr,
		TurnCounter:   &turn,
	}); err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to update session state: %w", err))
	}

	log.Infof("Recorded turn %d for user=%s: blocks=%v, flags=%v", turn, userID, update.Blocks, update.MetaFlags)

	return &State{
		UserID:        userID,
		ActiveBlocks:  FilterActiveBlocks(touches, turn, s.activeBlockWindow(), now),
		BlockTouches:  touches,
		PendingTopics: pendingTopics,
		MetaFlags:     normalizeList(update.MetaFlags),
		TurnCounter:   turn,
	}, nil
}

// GetState 读取会话状态，活跃块经过窗口过滤
func (s *Service) GetState(ctx context.Context, userID string) (*State, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	stateRepo := newSessionStateRepository(s.repositoryFactory, session)
	row, err := stateRepo.GetByUser(userID)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to get session state: %w", err))
	}

	if row == nil {
		// 没有任何轮次的用户返回空状态而不是报错
		return &State{
			UserID:        userID,
			ActiveBlocks:  []string{},
			BlockTouches:  map[string]model.BlockTouch{},
			PendingTopics: []string{},
			MetaFlags:     []string{},
		}, nil
	}

	touches := parseTouches(row.ActiveBlocks)

	return &State{
		UserID:        userID,
		ActiveBlocks:  FilterActiveBlocks(touches, row.TurnCounter, s.activeBlockWindow(), time.Now()),
		BlockTouches:  touches,
		PendingTopics: parseList(row.PendingTopics),
		MetaFlags:     parseList(row.MetaFlags),
		TurnCounter:   row.TurnCounter,
	}, nil
}

// GetActiveBlocks 当前窗口内仍然活跃的块
func (s *Service) GetActiveBlocks(ctx context.Context, userID string) ([]string, *model.Error) {
	state, err := s.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.ActiveBlocks, nil
}

func (s *Service) activeBlockWindow() model.ActiveBlockWindow {
	cfg := config.GetInstance()
	window := model.ActiveBlockWindow{
		MaxTurnAge: cfg.GetIntOrDefault(config.SessionActiveBlockWindowTurns, constant.DefaultActiveBlockWindowTurns),
	}
	if hours := cfg.GetIntOrDefault(config.SessionActiveBlockWindowHours, 0); hours > 0 {
		window.MaxElapsed = time.Duration(hours) * time.Hour
	}
	return window
}

func parseTouches(raw string) map[string]model.BlockTouch {
	touches := make(map[string]model.BlockTouch)
	if raw == "" {
		return touches
	}
	if err := json.Unmarshal([]byte(raw), &touches); err != nil {
		log.Warnf("malformed active_blocks payload: %v", err)
		return make(map[string]model.BlockTouch)
	}
	return touches
}

func parseList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Warnf("malformed list payload: %v", err)
		return []string{}
	}
	return list
}

func normalizeList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func newSessionStateRepository(repoFactory factory.Factory, session interfaces.Session) repository.SessionStateRepository {
	repo, err := repoFactory.NewSessionStateRepository(session)
	if err != nil {
		panic("failed to create session state repository: " + err.Error())
	}
	return repo
}
