package model

import (
	"fmt"
	"strings"

	"github.com/TaisyaFreelanse/twelvesteps/constant"
)

// TargetBlock 结构化目标块，main/sub 要么都有效要么整体缺省
type TargetBlock struct {
	Main string `json:"main"`
	Sub  string `json:"sub"`
}

// ClassificationPart 分类结果中的一个片段，入库前即 Frame 的原始形态。
// part 与 blocks 必填，其余字段均为可选。
type ClassificationPart struct {
	Part          string       `json:"part"`
	Blocks        []string     `json:"blocks"`
	Emotion       string       `json:"emotion"`
	Importance    int          `json:"importance"`
	ThinkingFrame *string      `json:"thinking_frame"`
	LevelOfMind   *int         `json:"level_of_mind"`
	MemoryType    *string      `json:"memory_type"`
	TargetBlock   *TargetBlock `json:"target_block"`
	Action        *string      `json:"action"`
	StrategyHint  *string      `json:"strategy_hint"`
}

// ClassificationMetadata 整条消息级别的分类元信息，全部可选
type ClassificationMetadata struct {
	Intention             *string `json:"intention"`
	Urgency               *string `json:"urgency"`
	CognitiveMode         *string `json:"cognitive_mode"`
	SuggestedResponseMode *string `json:"suggested_response_mode"`
}

// ClassificationResult 分类器输出
type ClassificationResult struct {
	Parts    []ClassificationPart    `json:"parts"`
	Metadata *ClassificationMetadata `json:"metadata"`
}

// ValidateSchema 在字段进入仓库之前校验 schema 级约束。
// 缺少 part 文本或 blocks 非法属于 ClassificationError；
// 数值越界属于单个 part 的 ValidationError，在入库时逐个处理。
func (r *ClassificationResult) ValidateSchema() error {
	if r == nil {
		return fmt.Errorf("classification result is nil")
	}
	for i, part := range r.Parts {
		if strings.TrimSpace(part.Part) == "" {
			return fmt.Errorf("part %d: missing part text", i)
		}
		if part.Blocks == nil {
			return fmt.Errorf("part %d: blocks list is missing", i)
		}
		for j, block := range part.Blocks {
			if strings.TrimSpace(block) == "" {
				return fmt.Errorf("part %d: block %d is empty", i, j)
			}
		}
	}
	return nil
}

// ValidatePart 校验单个 part 的可选数值字段与枚举字段
func ValidatePart(part *ClassificationPart) error {
	if part.Importance < constant.FrameImportanceMin || part.Importance > constant.FrameImportanceMax {
		return fmt.Errorf("importance %d out of range [%d,%d]",
			part.Importance, constant.FrameImportanceMin, constant.FrameImportanceMax)
	}
	if part.LevelOfMind != nil {
		if *part.LevelOfMind < constant.FrameLevelOfMindMin || *part.LevelOfMind > constant.FrameLevelOfMindMax {
			return fmt.Errorf("level_of_mind %d out of range [%d,%d]",
				*part.LevelOfMind, constant.FrameLevelOfMindMin, constant.FrameLevelOfMindMax)
		}
	}
	if part.MemoryType != nil {
		switch *part.MemoryType {
		case constant.MemoryTypeVolatile, constant.MemoryTypeDynamic, constant.MemoryTypeStable:
		default:
			return fmt.Errorf("memory_type %q is not one of volatile|dynamic|stable", *part.MemoryType)
		}
	}
	if part.TargetBlock != nil {
		if strings.TrimSpace(part.TargetBlock.Main) == "" || strings.TrimSpace(part.TargetBlock.Sub) == "" {
			return fmt.Errorf("target_block must have both main and sub")
		}
	}
	return nil
}

// NormalizeTargetBlock 把半填的 target_block 规整为缺省
func NormalizeTargetBlock(tb *TargetBlock) *TargetBlock {
	if tb == nil {
		return nil
	}
	if strings.TrimSpace(tb.Main) == "" && strings.TrimSpace(tb.Sub) == "" {
		return nil
	}
	return tb
}

// PromotionLabel 提取用于帧追踪的标签：优先 thinking_frame，否则取规整后的片段文本
func (p *ClassificationPart) PromotionLabel() string {
	if p.ThinkingFrame != nil && strings.TrimSpace(*p.ThinkingFrame) != "" {
		return strings.ToLower(strings.TrimSpace(*p.ThinkingFrame))
	}
	return strings.ToLower(strings.Join(strings.Fields(p.Part), " "))
}
