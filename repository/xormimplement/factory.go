package xormimplement

import (
	"context"
	"fmt"
	"sync"

	"github.com/TaisyaFreelanse/twelvesteps/config"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/factory"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"

	_ "github.com/lib/pq"
)

var once sync.Once
var instance *Factory

type Factory struct {
	// 连接 pg（需要 pgvector 扩展）
	engine *xorm.Engine
}

// 获取一个factory实例
func GetRepositoryFactoryInstance() factory.Factory {
	once.Do(func() {
		instance = &Factory{
			engine: openDB(
				config.GetInstance().GetString(config.BaseDbXormType),
				config.GetInstance().GetString(config.BaseDbXormHost),
				config.GetInstance().GetString(config.BaseDbXormPort),
				config.GetInstance().GetString(config.BaseDbXormUsername),
				config.GetInstance().GetString(config.BaseDbXormName),
				config.GetInstance().GetString(config.BaseDbXormPassword),
				config.GetInstance().GetBool(config.BaseDbXormShowsql),
			),
		}
	})
	return instance
}

// 设置xorm的连接参数
func openDB(dbType string, host string, port string, userName string, name string, password string, showSql bool) *xorm.Engine {
	//拼接数据库参数
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		userName,
		password,
		name,
		port)
	//设置连接参数
	engine, err := xorm.NewEngine(dbType, dsn)
	if err != nil {
		logrus.Errorf("Database connection failed err: %v. Database name: %s", err, name)
		panic(err)
	}
	//是否展示sql文件
	engine.ShowSQL(showSql)
	return engine
}

// 创建一个会话
func (f *Factory) NewSession(ctx context.Context) interfaces.Session {
	return &Session{Session: f.engine.NewSession().Context(ctx)}
}

// NewFrameRepository 创建帧仓库
func (f *Factory) NewFrameRepository(session interfaces.Session) (repository.FrameRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewFrameRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewFrameTrackingRepository 创建帧追踪仓库
func (f *Factory) NewFrameTrackingRepository(session interfaces.Session) (repository.FrameTrackingRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewFrameTrackingRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewVectorRecordRepository 创建向量记录仓库
func (f *Factory) NewVectorRecordRepository(session interfaces.Session) (repository.VectorRecordRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewVectorRecordRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewSessionStateRepository 创建会话状态仓库
func (f *Factory) NewSessionStateRepository(session interfaces.Session) (repository.SessionStateRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewSessionStateRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewMessageRepository 创建消息仓库
func (f *Factory) NewMessageRepository(session interfaces.Session) (repository.MessageRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewMessageRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}

// NewUserProfileRepository 创建用户画像仓库
func (f *Factory) NewUserProfileRepository(session interfaces.Session) (repository.UserProfileRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewUserProfileRepository(s), nil
	}
	return nil, fmt.Errorf("xorm session 结构解析失败")
}
