package retrieval

import (
	"math"
	"sort"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/model"
)

// ChannelHit 单通道的一条命中，分数已归一到 [0,1]
type ChannelHit struct {
	FrameID   int64
	Content   string
	Score     float64
	CreatedAt time.Time
}

// BlockScore 块通道打分：importance 归一到 [0,1] 后乘以指数时间衰减。
// halfLifeHours <= 0 时不衰减。
func BlockScore(importance int, createdAt, now time.Time, halfLifeHours float64) float64 {
	score := float64(importance) / 10.0
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	if halfLifeHours > 0 {
		ageHours := now.Sub(createdAt).Hours()
		if ageHours > 0 {
			score *= math.Pow(0.5, ageHours/halfLifeHours)
		}
	}

	return score
}

// MergeChannels 合并块通道与向量通道的命中。
// 同一帧取两通道分数的较大者；双通道命中加交叉验证分，总分封顶 1.0。
// 按分数降序排列，同分时较新的帧在前，结果截断到 maxResults。
func MergeChannels(blockHits, vectorHits []ChannelHit, crossBonus float64, maxResults int) []model.RankedFrame {
	merged := make(map[int64]*model.RankedFrame)

	for _, hit := range blockHits {
		merged[hit.FrameID] = &model.RankedFrame{
			FrameID:   hit.FrameID,
			Content:   hit.Content,
			Score:     hit.Score,
			Source:    model.RetrievalSourceBlock,
			CreatedAt: hit.CreatedAt,
		}
	}

	for _, hit := range vectorHits {
		existing, ok := merged[hit.FrameID]
		if !ok {
			merged[hit.FrameID] = &model.RankedFrame{
				FrameID:   hit.FrameID,
				Content:   hit.Content,
				Score:     hit.Score,
				Source:    model.RetrievalSourceVector,
				CreatedAt: hit.CreatedAt,
			}
			continue
		}

		if hit.Score > existing.Score {
			existing.Score = hit.Score
		}
		existing.Score += crossBonus
		if existing.Score > 1.0 {
			existing.Score = 1.0
		}
		existing.Source = model.RetrievalSourceBoth
	}

	result := make([]model.RankedFrame, 0, len(merged))
	for _, frame := range merged {
		result = append(result, *frame)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].FrameID > result[j].FrameID
	})

	if maxResults > 0 && len(result) > maxResults {
		result = result[:maxResults]
	}

	return result
}
