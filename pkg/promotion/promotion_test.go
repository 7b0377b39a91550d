package promotion

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PromotionTest struct {
	suite.Suite
}

func (p *PromotionTest) TestObserve_ConfirmsAtThreshold() {
	s := State{Threshold: 3}

	s, confirmed := Observe(s)
	p.False(confirmed)
	p.Equal(1, s.Count)
	p.False(s.Confirmed)

	s, confirmed = Observe(s)
	p.False(confirmed)
	p.Equal(2, s.Count)

	s, confirmed = Observe(s)
	p.True(confirmed, "third observation should confirm")
	p.Equal(3, s.Count)
	p.True(s.Confirmed)
}

func (p *PromotionTest) TestObserve_ConfirmedOnlyOnce() {
	s := State{Count: 2, Threshold: 3}

	s, confirmed := Observe(s)
	p.True(confirmed)

	s, confirmed = Observe(s)
	p.False(confirmed, "transition fires only at the crossing")
	p.Equal(4, s.Count, "count keeps growing after confirmation")
	p.True(s.Confirmed)
}

func (p *PromotionTest) TestObserve_ConfirmedIsIrreversible() {
	s := State{Count: 10, Threshold: 3, Confirmed: true}

	for i := 0; i < 5; i++ {
		var confirmed bool
		s, confirmed = Observe(s)
		p.False(confirmed)
		p.True(s.Confirmed)
	}
	p.Equal(15, s.Count)
}

func (p *PromotionTest) TestObserve_ZeroThresholdNeverConfirms() {
	s := State{Threshold: 0}

	for i := 0; i < 10; i++ {
		var confirmed bool
		s, confirmed = Observe(s)
		p.False(confirmed)
	}
	p.False(s.Confirmed)
	p.Equal(10, s.Count)
}

func (p *PromotionTest) TestDedupeLabels() {
	p.Nil(DedupeLabels(nil))
	p.Nil(DedupeLabels([]string{}))

	got := DedupeLabels([]string{"victim", "control", "victim", "", "control", "hope"})
	p.Equal([]string{"victim", "control", "hope"}, got)
}

func TestPromotion(t *testing.T) {
	suite.Run(t, new(PromotionTest))
}
