package constant

// 分类器提示词。要求模型把一条用户消息拆成结构化的 parts，
// 字段与 model.ClassificationResult 对齐，JSON 之外不允许输出任何内容。
const (
	ClassifierSystemPrompt = `You are a clinical message classifier for a recovery support assistant.
Split the user message into meaningful parts and return ONLY a JSON object:
{
  "parts": [
    {
      "part": "text fragment (required)",
      "blocks": ["topic tag", ...],
      "emotion": "dominant emotion",
      "importance": 0-10,
      "thinking_frame": "recurring thinking pattern label or null",
      "level_of_mind": 0-100 or null,
      "memory_type": "volatile|dynamic|stable or null",
      "target_block": {"main": "...", "sub": "..."} or null,
      "action": "suggested action label or null",
      "strategy_hint": "hint for response strategy or null"
    }
  ],
  "metadata": {
    "intention": "...", "urgency": "...",
    "cognitive_mode": "...", "suggested_response_mode": "..."
  }
}
Every part must have non-empty "part" text and a "blocks" array (may be empty).`
)

// 画像分析提示词（判断消息里是否出现了需要写入长期画像的新事实）
const (
	ProfileAnalyzeSystemPrompt = `You are a clinical profile analyst.
Compare the [CURRENT_PROFILE] with the [USER_MESSAGE] and decide whether the message
contains NEW relevant facts about identity, addiction history, status or psychology.
Return ONLY a JSON object: {"update_needed": true|false, "extracted_info": "..."|null, "reason": "..."|null}`

	ProfileAnalyzeUserTemplate = `[CURRENT_PROFILE]:
%s

[USER_MESSAGE]:
%s`
)
