package model

import "time"

// RetrievalSource 帧进入排名的来源
const (
	RetrievalSourceBlock  = "block"
	RetrievalSourceVector = "vector"
	RetrievalSourceBoth   = "both"
)

// RankedFrame 混合检索输出的一条排名结果
type RankedFrame struct {
	FrameID   int64     `json:"frame_id"`
	Content   string    `json:"content"`
	Score     float64   `json:"score"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// RetrievalOptions 混合检索参数，零值交由 service 用配置填充
type RetrievalOptions struct {
	VectorTopK        int     `json:"vector_top_k"`
	CrossBonus        float64 `json:"cross_bonus"`
	MaxResults        int     `json:"max_results"`
	EmbedTimeoutSec   int     `json:"embed_timeout_seconds"`
	DecayHalfLifeHrs  float64 `json:"decay_half_life_hours"`
	SimilarityMinimum float64 `json:"similarity_minimum"`
}
