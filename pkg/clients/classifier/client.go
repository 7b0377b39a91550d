package classifier

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/llm_model"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	clientNameClassifier = "classifier"
)

// ChatCompleter 聊天模型调用接口，便于测试替换
type ChatCompleter interface {
	PostChatCompletionsJSON(c context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error)
}

type Client struct {
	chat ChatCompleter
}

var (
	instance *Client
	once     sync.Once
)

func GetInstance() *Client {
	once.Do(func() {
		instance = &Client{
			chat: llm_model.GetInstance(),
		}
	})
	return instance
}

func NewClient(chat ChatCompleter) *Client {
	return &Client{chat: chat}
}

// @Description 对用户消息做结构化分类，返回经过 schema 校验的结果
// @Param c context.Context
// @Param message string
// @Success *model.ClassificationResult
// @Success error
func (cc *Client) Classify(c context.Context, message string) (*model.ClassificationResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, model.NewError(model.ErrorParams, nil)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: constant.ClassifierSystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: message,
		},
	}

	response, err := cc.chat.PostChatCompletionsJSON(c, messages)
	if err != nil {
		log.Errorf("%s chat completion error: %v", clientNameClassifier, err)
		return nil, model.NewError(model.ErrorClassification, err)
	}

	if response == nil || len(response.Choices) == 0 {
		log.Errorf("%s chat completion response has no choices", clientNameClassifier)
		return nil, model.NewErrorWithMessage(model.ErrorClassification, "chat completion response has no choices")
	}

	content := response.Choices[0].Message.Content
	result, err := ParseResult(content)
	if err != nil {
		log.Errorf("%s parse result error: %v, content: %s", clientNameClassifier, err, content)
		return nil, model.NewError(model.ErrorClassification, err)
	}

	return result, nil
}

// ParseResult 解析模型输出并做 schema 校验
// 兼容模型把 JSON 包进 markdown 代码块的情况。
func ParseResult(content string) (*model.ClassificationResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result model.ClassificationResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}

	if err := result.ValidateSchema(); err != nil {
		return nil, err
	}

	return &result, nil
}
