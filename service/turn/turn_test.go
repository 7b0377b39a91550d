package turn

import (
	"testing"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	frameservice "github.com/TaisyaFreelanse/twelvesteps/service/frame"
	"github.com/stretchr/testify/suite"
)

type TurnHelpersTest struct {
	suite.Suite
}

func strPtr(v string) *string { return &v }

func (t *TurnHelpersTest) TestCollectLabels_SkipsRejectedParts() {
	parts := []model.ClassificationPart{
		{Part: "ok one", Blocks: []string{"a"}, ThinkingFrame: strPtr("我不够好")},
		{Part: "rejected", Blocks: []string{"a"}},
		{Part: "ok two", Blocks: []string{"b"}},
	}
	build := &frameservice.BuildResult{
		RejectedParts: []model.PartError{{Index: 1, Reason: "importance"}},
	}

	labels := collectLabels(parts, build)
	t.Equal([]string{"我不够好", "ok two"}, labels)
}

func (t *TurnHelpersTest) TestCollectLabels_DedupesWithinMessage() {
	parts := []model.ClassificationPart{
		{Part: "a", Blocks: []string{"x"}, ThinkingFrame: strPtr("Victim")},
		{Part: "b", Blocks: []string{"y"}, ThinkingFrame: strPtr("victim")},
	}
	build := &frameservice.BuildResult{}

	labels := collectLabels(parts, build)
	t.Equal([]string{"victim"}, labels, "same label in one message counts once")
}

func (t *TurnHelpersTest) TestCollectBlocks() {
	frames := []*entity.Frame{
		{ID: 1, Blocks: `["a","b"]`},
		{ID: 2, Blocks: `["b","c"]`},
		{ID: 3, Blocks: `[]`},
	}

	t.Equal([]string{"a", "b", "c"}, collectBlocks(frames))
}

func (t *TurnHelpersTest) TestCollectPendingTopics() {
	t.Nil(collectPendingTopics(nil))
	t.Empty(collectPendingTopics(&model.ClassificationMetadata{}))
	t.Equal([]string{"asking_for_help"},
		collectPendingTopics(&model.ClassificationMetadata{Intention: strPtr("asking_for_help")}))
}

func (t *TurnHelpersTest) TestUnionBlocks() {
	t.Equal([]string{"a", "b", "c"}, unionBlocks([]string{"a", "b"}, []string{"b", "c"}))
	t.Empty(unionBlocks(nil, nil))
}

func TestTurnHelpers(t *testing.T) {
	suite.Run(t, new(TurnHelpersTest))
}
