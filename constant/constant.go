package constant

const (
	DefaultPageLimit = 10
)

const (
	EmptyString = ""
)

// 帧追踪相关默认值
const (
	// 帧标签从候选转为确认所需的默认重复次数
	DefaultConfirmThreshold = 3

	// 向量检索默认返回条数
	DefaultVectorTopK = 5

	// 混合检索结果默认上限
	DefaultRetrievalMaxResults = 10

	// 双通道命中时的交叉验证加分，总分封顶 1.0
	DefaultCrossBonus = 0.1

	// embedding 调用默认超时（秒），超时退化为仅块检索
	DefaultEmbedTimeoutSeconds = 3

	// 块检索的重要度时间衰减半衰期（小时）
	DefaultDecayHalfLifeHours = 72

	// 活跃块的默认失活窗口（轮数）
	DefaultActiveBlockWindowTurns = 5
)

// 帧字段取值范围
const (
	FrameImportanceMin = 0
	FrameImportanceMax = 10

	FrameLevelOfMindMin = 0
	FrameLevelOfMindMax = 100
)

// 记忆类型枚举值
const (
	MemoryTypeVolatile = "volatile"
	MemoryTypeDynamic  = "dynamic"
	MemoryTypeStable   = "stable"
)

// 向量记录归属类型
const (
	VectorOwnerTypeFrame = "frame"
	VectorOwnerTypeCore  = "core_profile"
)

// 会话元信号
const (
	MetaFlagLoopDetected     = "loop_detected"
	MetaFlagFrameShift       = "frame_shift"
	MetaFlagIdentityConflict = "identity_conflict"
)
