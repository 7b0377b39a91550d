package retrieval

import (
	"testing"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/stretchr/testify/suite"
)

type MergeTest struct {
	suite.Suite
}

func (m *MergeTest) TestBlockScore_Normalization() {
	now := time.Now()

	m.InDelta(0.8, BlockScore(8, now, now, 0), 1e-9)
	m.InDelta(0.0, BlockScore(0, now, now, 0), 1e-9)
	m.InDelta(1.0, BlockScore(10, now, now, 0), 1e-9)
	// 越界值被钳制
	m.InDelta(0.0, BlockScore(-3, now, now, 0), 1e-9)
	m.InDelta(1.0, BlockScore(15, now, now, 0), 1e-9)
}

func (m *MergeTest) TestBlockScore_HalfLifeDecay() {
	now := time.Now()

	// 恰好一个半衰期：分数减半
	m.InDelta(0.4, BlockScore(8, now.Add(-72*time.Hour), now, 72), 1e-9)
	// 两个半衰期
	m.InDelta(0.2, BlockScore(8, now.Add(-144*time.Hour), now, 72), 1e-9)
	// 刚写入的帧不衰减
	m.InDelta(0.8, BlockScore(8, now, now, 72), 1e-9)
}

func (m *MergeTest) TestMerge_MaxOfBothPlusCrossBonus() {
	now := time.Now()

	blockHits := []ChannelHit{
		{FrameID: 1, Content: "a", Score: 0.5, CreatedAt: now},
	}
	vectorHits := []ChannelHit{
		{FrameID: 1, Content: "a", Score: 0.7, CreatedAt: now},
	}

	got := MergeChannels(blockHits, vectorHits, 0.1, 10)
	m.Len(got, 1)
	m.InDelta(0.8, got[0].Score, 1e-9, "max(0.5,0.7)+0.1")
	m.Equal(model.RetrievalSourceBoth, got[0].Source)
}

func (m *MergeTest) TestMerge_ScoreCappedAtOne() {
	now := time.Now()

	blockHits := []ChannelHit{{FrameID: 1, Score: 0.95, CreatedAt: now}}
	vectorHits := []ChannelHit{{FrameID: 1, Score: 0.99, CreatedAt: now}}

	got := MergeChannels(blockHits, vectorHits, 0.1, 10)
	m.Len(got, 1)
	m.InDelta(1.0, got[0].Score, 1e-9)
}

func (m *MergeTest) TestMerge_SingleChannelSources() {
	now := time.Now()

	blockHits := []ChannelHit{{FrameID: 1, Score: 0.6, CreatedAt: now}}
	vectorHits := []ChannelHit{{FrameID: 2, Score: 0.7, CreatedAt: now}}

	got := MergeChannels(blockHits, vectorHits, 0.1, 10)
	m.Len(got, 2)
	m.Equal(int64(2), got[0].FrameID)
	m.Equal(model.RetrievalSourceVector, got[0].Source)
	m.Equal(model.RetrievalSourceBlock, got[1].Source)
}

func (m *MergeTest) TestMerge_OrderingWithRecencyTieBreak() {
	now := time.Now()

	// A 只在块通道 0.6；B 与 C 双通道命中后同为 0.8，C 更新
	blockHits := []ChannelHit{
		{FrameID: 1, Content: "A", Score: 0.6, CreatedAt: now.Add(-time.Hour)},
		{FrameID: 2, Content: "B", Score: 0.7, CreatedAt: now.Add(-2 * time.Hour)},
		{FrameID: 3, Content: "C", Score: 0.5, CreatedAt: now},
	}
	vectorHits := []ChannelHit{
		{FrameID: 2, Content: "B", Score: 0.6, CreatedAt: now.Add(-2 * time.Hour)},
		{FrameID: 3, Content: "C", Score: 0.7, CreatedAt: now},
	}

	got := MergeChannels(blockHits, vectorHits, 0.1, 10)
	m.Len(got, 3)
	m.Equal("C", got[0].Content, "tie at 0.8 goes to the newer frame")
	m.Equal("B", got[1].Content)
	m.Equal("A", got[2].Content)
	m.InDelta(0.8, got[0].Score, 1e-9)
	m.InDelta(0.8, got[1].Score, 1e-9)
	m.InDelta(0.6, got[2].Score, 1e-9)
}

func (m *MergeTest) TestMerge_Truncation() {
	now := time.Now()

	blockHits := make([]ChannelHit, 0, 15)
	for i := 1; i <= 15; i++ {
		blockHits = append(blockHits, ChannelHit{
			FrameID:   int64(i),
			Score:     float64(i) / 20.0,
			CreatedAt: now,
		})
	}

	got := MergeChannels(blockHits, nil, 0.1, 10)
	m.Len(got, 10)
	m.Equal(int64(15), got[0].FrameID)
}

func (m *MergeTest) TestMerge_Empty() {
	got := MergeChannels(nil, nil, 0.1, 10)
	m.Len(got, 0)
}

func TestMerge(t *testing.T) {
	suite.Run(t, new(MergeTest))
}
