package session

import (
	"testing"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/stretchr/testify/suite"
)

type WindowTest struct {
	suite.Suite
}

func (w *WindowTest) TestFilter_Empty() {
	got := FilterActiveBlocks(nil, 10, model.ActiveBlockWindow{MaxTurnAge: 5}, time.Now())
	w.Equal([]string{}, got)
}

func (w *WindowTest) TestFilter_TurnWindow() {
	now := time.Now()
	touches := map[string]model.BlockTouch{
		"fresh":   {Turn: 10, TouchedAt: now},
		"aging":   {Turn: 6, TouchedAt: now},
		"expired": {Turn: 5, TouchedAt: now},
		"ancient": {Turn: 1, TouchedAt: now},
	}

	// 窗口 5 轮：第 10 轮读取时，第 5 轮及更早的触达失活
	got := FilterActiveBlocks(touches, 10, model.ActiveBlockWindow{MaxTurnAge: 5}, now)
	w.Equal([]string{"fresh", "aging"}, got)
}

func (w *WindowTest) TestFilter_ElapsedWindow() {
	now := time.Now()
	touches := map[string]model.BlockTouch{
		"recent": {Turn: 3, TouchedAt: now.Add(-30 * time.Minute)},
		"stale":  {Turn: 2, TouchedAt: now.Add(-3 * time.Hour)},
	}

	got := FilterActiveBlocks(touches, 3, model.ActiveBlockWindow{MaxElapsed: 2 * time.Hour}, now)
	w.Equal([]string{"recent"}, got)
}

func (w *WindowTest) TestFilter_BothWindows() {
	now := time.Now()
	touches := map[string]model.BlockTouch{
		"alive":        {Turn: 9, TouchedAt: now.Add(-10 * time.Minute)},
		"old_by_turn":  {Turn: 2, TouchedAt: now.Add(-10 * time.Minute)},
		"old_by_clock": {Turn: 9, TouchedAt: now.Add(-5 * time.Hour)},
	}

	window := model.ActiveBlockWindow{MaxTurnAge: 5, MaxElapsed: time.Hour}
	got := FilterActiveBlocks(touches, 10, window, now)
	w.Equal([]string{"alive"}, got)
}

func (w *WindowTest) TestFilter_ZeroWindowKeepsEverything() {
	now := time.Now()
	touches := map[string]model.BlockTouch{
		"a": {Turn: 1, TouchedAt: now.Add(-100 * time.Hour)},
		"b": {Turn: 99, TouchedAt: now},
	}

	got := FilterActiveBlocks(touches, 100, model.ActiveBlockWindow{}, now)
	w.Equal([]string{"b", "a"}, got)
}

func (w *WindowTest) TestFilter_StableOrder() {
	now := time.Now()
	touches := map[string]model.BlockTouch{
		"beta":  {Turn: 7, TouchedAt: now},
		"alpha": {Turn: 7, TouchedAt: now},
		"newer": {Turn: 8, TouchedAt: now},
	}

	got := FilterActiveBlocks(touches, 8, model.ActiveBlockWindow{MaxTurnAge: 5}, now)
	w.Equal([]string{"newer", "alpha", "beta"}, got)
}

func (w *WindowTest) TestTouchBlocks() {
	now := time.Now()
	touches := TouchBlocks(nil, []string{"a", "", "b"}, 3, now)
	w.Len(touches, 2)
	w.Equal(int64(3), touches["a"].Turn)

	// 重复触达刷新轮次，旧块保留
	later := now.Add(time.Minute)
	touches = TouchBlocks(touches, []string{"a", "c"}, 4, later)
	w.Len(touches, 3)
	w.Equal(int64(4), touches["a"].Turn)
	w.Equal(int64(3), touches["b"].Turn)
	w.Equal(later, touches["a"].TouchedAt)
}

func TestWindow(t *testing.T) {
	suite.Run(t, new(WindowTest))
}
