package promotion

// State 单个（用户，标签）的追踪状态
type State struct {
	Count     int  // 出现次数，单调递增
	Threshold int  // 确认阈值
	Confirmed bool // 是否已确认，确认后不可回退
}

// Observe 记录标签在一条新消息中出现一次，返回更新后的状态
// 以及本次是否发生了 候选 -> 已确认 的跃迁。
// 已确认的标签继续累加计数，作为频率信号保留。
func Observe(s State) (State, bool) {
	s.Count++

	if s.Confirmed {
		return s, false
	}

	if s.Threshold > 0 && s.Count >= s.Threshold {
		s.Confirmed = true
		return s, true
	}

	return s, false
}

// DedupeLabels 同一条消息内的重复标签只计一次，保持首次出现顺序
func DedupeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(labels))
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}
	return result
}
