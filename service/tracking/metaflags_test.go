package tracking

import (
	"testing"

	"github.com/TaisyaFreelanse/twelvesteps/constant"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/stretchr/testify/suite"
)

type MetaFlagsTest struct {
	suite.Suite
}

func (m *MetaFlagsTest) TestDetect_NoSignals() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"hope"}, Emotion: "calm"},
	}

	flags := DetectMetaFlags([]string{"hope"}, parts, nil)
	m.Empty(flags)
}

func (m *MetaFlagsTest) TestDetect_LoopDetected() {
	flags := DetectMetaFlags(nil, nil, []string{"我总是失败"})
	m.Equal([]string{constant.MetaFlagLoopDetected}, flags)
}

func (m *MetaFlagsTest) TestDetect_FrameShift() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"work_stress"}},
	}

	flags := DetectMetaFlags([]string{"family", "guilt"}, parts, nil)
	m.Equal([]string{constant.MetaFlagFrameShift}, flags)
}

func (m *MetaFlagsTest) TestDetect_NoFrameShiftOnOverlap() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"guilt", "work_stress"}},
	}

	flags := DetectMetaFlags([]string{"family", "guilt"}, parts, nil)
	m.Empty(flags)
}

func (m *MetaFlagsTest) TestDetect_NoFrameShiftWithoutHistory() {
	parts := []model.ClassificationPart{
		{Part: "text", Blocks: []string{"work_stress"}},
	}

	flags := DetectMetaFlags(nil, parts, nil)
	m.Empty(flags, "first turn has nothing to shift from")
}

func (m *MetaFlagsTest) TestDetect_IdentityConflict() {
	parts := []model.ClassificationPart{
		{Part: "我恨自己喝酒", Blocks: []string{"self_worth"}, Emotion: "shame"},
		{Part: "喝酒时我才是真正的自己", Blocks: []string{"self_worth"}, Emotion: "relief"},
	}

	flags := DetectMetaFlags([]string{"self_worth"}, parts, nil)
	m.Equal([]string{constant.MetaFlagIdentityConflict}, flags)
}

func (m *MetaFlagsTest) TestDetect_NoConflictOnDisjointBlocks() {
	parts := []model.ClassificationPart{
		{Part: "a", Blocks: []string{"self_worth"}, Emotion: "shame"},
		{Part: "b", Blocks: []string{"work_stress"}, Emotion: "relief"},
	}

	flags := DetectMetaFlags([]string{"self_worth"}, parts, nil)
	m.Empty(flags)
}

func (m *MetaFlagsTest) TestDetect_AllThree() {
	parts := []model.ClassificationPart{
		{Part: "a", Blocks: []string{"self_worth"}, Emotion: "shame"},
		{Part: "b", Blocks: []string{"self_worth"}, Emotion: "pride"},
	}

	flags := DetectMetaFlags([]string{"family"}, parts, []string{"我一个人撑不住"})
	m.Equal([]string{
		constant.MetaFlagLoopDetected,
		constant.MetaFlagFrameShift,
		constant.MetaFlagIdentityConflict,
	}, flags)
}

func TestMetaFlags(t *testing.T) {
	suite.Run(t, new(MetaFlagsTest))
}
