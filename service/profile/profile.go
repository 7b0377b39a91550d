package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/llm_model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/tools"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

var (
	serviceOnce sync.Once
	instance    *Service
)

const (
	// 派生画像的统一键与默认置信度
	ProfileKeyDerived        = "derived_profile"
	profileAnalyzeConfidence = 0.8
)

// ChatCompleter 聊天模型调用接口，便于测试替换
type ChatCompleter interface {
	PostChatCompletionsJSON(c context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error)
}

type Service struct {
	repositoryFactory factory.Factory
	chat              ChatCompleter
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
			chat:              llm_model.GetInstance(),
		}
	})

	return instance
}

// Get 读取用户画像键值
func (s *Service) Get(ctx context.Context, userID string) ([]*entity.UserProfile, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	profileRepo := newUserProfileRepository(s.repositoryFactory, session)
	rows, err := profileRepo.List(&model.GetUserProfileCondition{UserID: &userID})
	if err != nil {
		return nil, model.NewError(model.ErrorDB, fmt.Errorf("failed to list user profile: %w", err))
	}
	return rows, nil
}

// Save 写入单个画像键值
func (s *Service) Save(ctx context.Context, req *model.UpsertUserProfileCondition) *model.Error {
	if req == nil || req.UserID == "" {
		return model.NewError(model.ErrorParams, nil)
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	profileRepo := newUserProfileRepository(s.repositoryFactory, session)
	if err := profileRepo.Upsert(req); err != nil {
		return model.NewError(model.ErrorDB, fmt.Errorf("failed to upsert user profile: %w", err))
	}

	log.Infof("Saved profile entry: user=%s, key=%s", req.UserID, req.Key)
	return nil
}

// AnalyzeAndUpdate 用分析器判断消息是否带出新的画像事实，需要时追加写入。
// 分析失败只告警，不影响主流程。
func (s *Service) AnalyzeAndUpdate(ctx context.Context, userID, message string, sourceMsgID *int64) (*model.ProfileAnalysis, *model.Error) {
	if userID == "" {
		return nil, model.NewError(model.ErrorEmptyId, nil)
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis, parseErr := s.analyze(ctx, formatProfile(current), message)
	if parseErr != nil {
		log.Warnf("profile analysis failed for user=%s: %v", userID, parseErr)
		return nil, model.NewError(model.ErrorClassification, parseErr)
	}

	if !analysis.UpdateNeeded || analysis.ExtractedInfo == nil || strings.TrimSpace(*analysis.ExtractedInfo) == "" {
		return analysis, nil
	}

	value := appendDerivedValue(current, *analysis.ExtractedInfo)
	if saveErr := s.Save(ctx, &model.UpsertUserProfileCondition{
		UserID:      userID,
		Key:         ProfileKeyDerived,
		Value:       value,
		Confidence:  profileAnalyzeConfidence,
		SourceMsgID: sourceMsgID,
	}); saveErr != nil {
		return nil, saveErr
	}

	log.Infof("Profile updated for user=%s: %s", userID, *analysis.ExtractedInfo)
	return analysis, nil
}

func (s *Service) analyze(ctx context.Context, currentProfile, message string) (*model.ProfileAnalysis, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: constant.ProfileAnalyzeSystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(constant.ProfileAnalyzeUserTemplate, currentProfile, message),
		},
	}

	response, err := s.chat.PostChatCompletionsJSON(ctx, messages)
	if err != nil {
		return nil, err
	}
	if response == nil || len(response.Choices) == 0 {
		return nil, fmt.Errorf("profile analysis response has no choices")
	}

	return ParseAnalysis(response.Choices[0].Message.Content)
}

// ParseAnalysis 解析分析器输出
func ParseAnalysis(content string) (*model.ProfileAnalysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var analysis model.ProfileAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// formatProfile 把画像行拼成分析器输入
func formatProfile(rows []*entity.UserProfile) string {
	if len(rows) == 0 {
		return "(empty)"
	}

	var builder strings.Builder
	for _, row := range rows {
		if row.Value == "" {
			continue
		}
		builder.WriteString(fmt.Sprintf("- %s: %s\n", row.Key, row.Value))
	}
	if builder.Len() == 0 {
		return "(empty)"
	}
	return builder.String()
}

// appendDerivedValue 新事实追加在派生画像值末尾
func appendDerivedValue(rows []*entity.UserProfile, info string) string {
	for _, row := range rows {
		if row.Key == ProfileKeyDerived && row.Value != "" {
			return row.Value + "\n" + info
		}
	}
	return info
}

func newUserProfileRepository(repoFactory factory.Factory, session interfaces.Session) repository.UserProfileRepository {
	repo, err := repoFactory.NewUserProfileRepository(session)
	if err != nil {
		panic("failed to create user profile repository: " + err.Error())
	}
	return repo
}
