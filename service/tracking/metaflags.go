package tracking

import (
	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/model"
)

// DetectMetaFlags 根据本条消息的分类结果推导会话级元信号。
//
//	loop_detected     本条消息触发了标签确认，同一模式反复出现
//	frame_shift       本条消息的块与上一轮活跃块完全不相交
//	identity_conflict 同一条消息内共享块的片段带出相互矛盾的情绪
func DetectMetaFlags(prevActiveBlocks []string, parts []model.ClassificationPart, newlyConfirmed []string) []string {
	flags := make([]string, 0)

	if len(newlyConfirmed) > 0 {
		flags = append(flags, constant.MetaFlagLoopDetected)
	}

	currentBlocks := make(map[string]struct{})
	for _, part := range parts {
		for _, block := range part.Blocks {
			currentBlocks[block] = struct{}{}
		}
	}

	if len(prevActiveBlocks) > 0 && len(currentBlocks) > 0 {
		overlap := false
		for _, block := range prevActiveBlocks {
			if _, ok := currentBlocks[block]; ok {
				overlap = true
				break
			}
		}
		if !overlap {
			flags = append(flags, constant.MetaFlagFrameShift)
		}
	}

	if hasConflictingEmotions(parts) {
		flags = append(flags, constant.MetaFlagIdentityConflict)
	}

	return flags
}

// hasConflictingEmotions 共享至少一个块、但情绪不同的两个片段视为冲突
func hasConflictingEmotions(parts []model.ClassificationPart) bool {
	for i := 0; i < len(parts); i++ {
		if parts[i].Emotion == "" {
			continue
		}
		for j := i + 1; j < len(parts); j++ {
			if parts[j].Emotion == "" || parts[i].Emotion == parts[j].Emotion {
				continue
			}
			if blocksOverlap(parts[i].Blocks, parts[j].Blocks) {
				return true
			}
		}
	}
	return false
}

func blocksOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, block := range a {
		set[block] = struct{}{}
	}
	for _, block := range b {
		if _, ok := set[block]; ok {
			return true
		}
	}
	return false
}
