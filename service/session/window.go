package session

import (
	"sort"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/model"
)

// FilterActiveBlocks 读侧窗口过滤：块不会被写侧删除，只在读取时按
// 轮数窗口或时间窗口判定失活。两个窗口都为零值时全部块有效。
// 结果按最近触达在前排序，触达轮次相同时按名称排序保证稳定。
func FilterActiveBlocks(touches map[string]model.BlockTouch, currentTurn int64, window model.ActiveBlockWindow, now time.Time) []string {
	if len(touches) == 0 {
		return []string{}
	}

	type touchedBlock struct {
		name  string
		touch model.BlockTouch
	}

	alive := make([]touchedBlock, 0, len(touches))
	for name, touch := range touches {
		if window.MaxTurnAge > 0 && currentTurn-touch.Turn >= int64(window.MaxTurnAge) {
			continue
		}
		if window.MaxElapsed > 0 && now.Sub(touch.TouchedAt) >= window.MaxElapsed {
			continue
		}
		alive = append(alive, touchedBlock{name: name, touch: touch})
	}

	sort.Slice(alive, func(i, j int) bool {
		if alive[i].touch.Turn != alive[j].touch.Turn {
			return alive[i].touch.Turn > alive[j].touch.Turn
		}
		return alive[i].name < alive[j].name
	})

	result := make([]string, 0, len(alive))
	for _, block := range alive {
		result = append(result, block.name)
	}
	return result
}

// TouchBlocks 把本轮出现的块写进触达表，旧块保留等待窗口失活
func TouchBlocks(touches map[string]model.BlockTouch, blocks []string, turn int64, now time.Time) map[string]model.BlockTouch {
	if touches == nil {
		touches = make(map[string]model.BlockTouch)
	}
	for _, block := range blocks {
		if block == "" {
			continue
		}
		touches[block] = model.BlockTouch{Turn: turn, TouchedAt: now}
	}
	return touches
}
