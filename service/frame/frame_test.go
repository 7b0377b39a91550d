package frame

import (
	"testing"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/stretchr/testify/suite"
)

type FrameServiceTest struct {
	suite.Suite
	service *Service
}

func (f *FrameServiceTest) SetupSuite() {
	// BuildFrames 不触库，repositoryFactory 可以为空
	f.service = NewService(nil)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func (f *FrameServiceTest) TestBuildFrames_EmptyUserId() {
	result, err := f.service.BuildFrames("", nil, nil)
	f.NotNil(err)
	f.Nil(result)
	f.Equal(model.ErrorEmptyId, err.Code)
}

func (f *FrameServiceTest) TestBuildFrames_AllValid() {
	parts := []model.ClassificationPart{
		{
			Part:       "我控制不了自己",
			Blocks:     []string{"control", "powerlessness"},
			Emotion:    "despair",
			Importance: 8,
		},
		{
			Part:   "也许今天可以不喝",
			Blocks: []string{"hope"},
		},
	}

	result, err := f.service.BuildFrames("user-1", nil, parts)
	f.Nil(err)
	f.Len(result.Frames, 2)
	f.Len(result.RejectedParts, 0)

	f.Equal("user-1", result.Frames[0].UserID)
	f.Equal("我控制不了自己", result.Frames[0].Content)
	f.JSONEq(`["control","powerlessness"]`, result.Frames[0].Blocks)
	f.Equal(8, result.Frames[0].Importance)
}

func (f *FrameServiceTest) TestBuildFrames_RejectsInvalidPartOnly() {
	parts := []model.ClassificationPart{
		{Part: "valid", Blocks: []string{"a"}, Importance: 5},
		{Part: "bad importance", Blocks: []string{"a"}, Importance: 11},
		{Part: "bad memory type", Blocks: []string{"a"}, MemoryType: strPtr("forever")},
		{Part: "also valid", Blocks: []string{"b"}},
	}

	result, err := f.service.BuildFrames("user-1", nil, parts)
	f.Nil(err)
	f.Len(result.Frames, 2, "invalid parts must not block valid ones")
	f.Len(result.RejectedParts, 2)
	f.Equal(1, result.RejectedParts[0].Index)
	f.Equal(2, result.RejectedParts[1].Index)
	f.Contains(result.RejectedParts[0].Reason, "importance")
	f.Contains(result.RejectedParts[1].Reason, "memory_type")
}

func (f *FrameServiceTest) TestBuildFrames_LevelOfMindRange() {
	parts := []model.ClassificationPart{
		{Part: "ok", Blocks: []string{"a"}, LevelOfMind: intPtr(100)},
		{Part: "too high", Blocks: []string{"a"}, LevelOfMind: intPtr(101)},
	}

	result, err := f.service.BuildFrames("user-1", nil, parts)
	f.Nil(err)
	f.Len(result.Frames, 1)
	f.Len(result.RejectedParts, 1)
	f.Contains(result.RejectedParts[0].Reason, "level_of_mind")
}

func (f *FrameServiceTest) TestBuildFrames_NormalizesHalfEmptyTargetBlock() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"a"}, TargetBlock: &model.TargetBlock{}},
	}

	result, err := f.service.BuildFrames("user-1", nil, parts)
	f.Nil(err)
	f.Len(result.Frames, 1)
	f.Nil(result.Frames[0].TargetBlock, "an empty target_block collapses to null")
}

func (f *FrameServiceTest) TestBuildFrames_KeepsTargetBlock() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"a"}, TargetBlock: &model.TargetBlock{Main: "self_worth", Sub: "shame"}},
	}

	result, err := f.service.BuildFrames("user-1", nil, parts)
	f.Nil(err)
	f.Len(result.Frames, 1)
	f.NotNil(result.Frames[0].TargetBlock)
	f.JSONEq(`{"main":"self_worth","sub":"shame"}`, *result.Frames[0].TargetBlock)
}

func (f *FrameServiceTest) TestParseBlocks() {
	f.Nil(ParseBlocks(nil))
	f.Nil(ParseBlocks(&entity.Frame{Blocks: ""}))
	f.Nil(ParseBlocks(&entity.Frame{Blocks: "not json"}))
	f.Equal([]string{"a", "b"}, ParseBlocks(&entity.Frame{Blocks: `["a","b"]`}))
}

func TestFrameService(t *testing.T) {
	suite.Run(t, new(FrameServiceTest))
}
