package factory

import (
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/redis"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/userlock"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/xormimplement"
	"github.com/TaisyaFreelanse/twelvesteps/service/frame"
	"github.com/TaisyaFreelanse/twelvesteps/service/profile"
	"github.com/TaisyaFreelanse/twelvesteps/service/retrieval"
	"github.com/TaisyaFreelanse/twelvesteps/service/session"
	"github.com/TaisyaFreelanse/twelvesteps/service/tracking"
	"github.com/TaisyaFreelanse/twelvesteps/service/turn"
	"github.com/TaisyaFreelanse/twelvesteps/service/user"
)

var instance *Factory
var once sync.Once

// 创建
type Factory struct {
	repositoryFactory factory.Factory
	locker            userlock.Locker
}

// 实例化instance
func init() {
	once.Do(func() {
		instance = &Factory{
			repositoryFactory: xormimplement.GetRepositoryFactoryInstance(),
			locker:            newLocker(),
		}
	})
}

// 单例模式，
func GetServiceFactory() *Factory {
	return instance
}

// newLocker 配置了 redis 时用分布式锁，多实例部署下仍然保证
// 同一用户的写入串行；否则退回进程内锁。
func newLocker() userlock.Locker {
	if config.GetInstance().GetString(config.RedisClientHost) != "" {
		return userlock.NewRedisLocker(redis.GetInstance().Client)
	}
	return userlock.NewLocalLocker()
}

// NewTurnService 获取消息处理管线服务
func (f *Factory) NewTurnService() *turn.Service {
	return turn.NewService(f.repositoryFactory, f.locker)
}

// NewFrameService 获取帧服务
func (f *Factory) NewFrameService() *frame.Service {
	return frame.NewService(f.repositoryFactory)
}

// NewTrackingService 获取帧追踪服务
func (f *Factory) NewTrackingService() *tracking.Service {
	return tracking.NewService(f.repositoryFactory)
}

// NewSessionService 获取会话状态服务
func (f *Factory) NewSessionService() *session.Service {
	return session.NewService(f.repositoryFactory)
}

// NewRetrievalService 获取混合检索服务
func (f *Factory) NewRetrievalService() *retrieval.Service {
	return retrieval.NewService(f.repositoryFactory)
}

// NewProfileService 获取画像服务
func (f *Factory) NewProfileService() *profile.Service {
	return profile.NewService(f.repositoryFactory)
}

// NewUserService 获取用户管理服务
func (f *Factory) NewUserService() *user.Service {
	return user.NewService(f.repositoryFactory, f.locker)
}
