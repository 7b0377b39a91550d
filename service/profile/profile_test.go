package profile

import (
	"testing"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTest struct {
	suite.Suite
}

func (p *ProfileServiceTest) TestParseAnalysis_UpdateNeeded() {
	analysis, err := ParseAnalysis(`{"update_needed": true, "extracted_info": "sober for 30 days", "reason": "new milestone"}`)
	p.Nil(err)
	p.True(analysis.UpdateNeeded)
	p.Equal("sober for 30 days", *analysis.ExtractedInfo)
}

func (p *ProfileServiceTest) TestParseAnalysis_NoUpdate() {
	analysis, err := ParseAnalysis(`{"update_needed": false, "extracted_info": null, "reason": null}`)
	p.Nil(err)
	p.False(analysis.UpdateNeeded)
	p.Nil(analysis.ExtractedInfo)
}

func (p *ProfileServiceTest) TestParseAnalysis_MarkdownFenced() {
	analysis, err := ParseAnalysis("```json\n{\"update_needed\": true, \"extracted_info\": \"x\"}\n```")
	p.Nil(err)
	p.True(analysis.UpdateNeeded)
}

func (p *ProfileServiceTest) TestParseAnalysis_Invalid() {
	analysis, err := ParseAnalysis("nope")
	p.NotNil(err)
	p.Nil(analysis)
}

func (p *ProfileServiceTest) TestFormatProfile() {
	p.Equal("(empty)", formatProfile(nil))
	p.Equal("(empty)", formatProfile([]*entity.UserProfile{{Key: "a", Value: ""}}))

	got := formatProfile([]*entity.UserProfile{
		{Key: "derived_profile", Value: "alcoholic, 12 years"},
		{Key: "cleared", Value: ""},
	})
	p.Equal("- derived_profile: alcoholic, 12 years\n", got)
}

func (p *ProfileServiceTest) TestAppendDerivedValue() {
	p.Equal("new fact", appendDerivedValue(nil, "new fact"))

	rows := []*entity.UserProfile{{Key: ProfileKeyDerived, Value: "old fact"}}
	p.Equal("old fact\nnew fact", appendDerivedValue(rows, "new fact"))

	// 被清空的画像重新从头累积
	cleared := []*entity.UserProfile{{Key: ProfileKeyDerived, Value: ""}}
	p.Equal("new fact", appendDerivedValue(cleared, "new fact"))
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ProfileServiceTest))
}
