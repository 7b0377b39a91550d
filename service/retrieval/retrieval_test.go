package retrieval

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/pkg/clients/embedding"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	// 配置文件在模块根目录；清掉 api key 让 embedding 客户端不可用
	_ = os.Setenv("CONFIG_PATH", "../..")
	_ = os.Unsetenv(embedding.EnvModelApiKey)
	os.Exit(m.Run())
}

type stubSession struct{}

func (s *stubSession) Begin() error    { return nil }
func (s *stubSession) Close() error    { return nil }
func (s *stubSession) Commit() error   { return nil }
func (s *stubSession) Rollback() error { return nil }

type fakeFrameRepo struct {
	byBlocks []*entity.Frame
}

func (r *fakeFrameRepo) Insert(data []*entity.Frame) error             { return nil }
func (r *fakeFrameRepo) Get(id int64) (*entity.Frame, error)           { return nil, nil }
func (r *fakeFrameRepo) GetByIDs(ids []int64) ([]*entity.Frame, error) { return nil, nil }
func (r *fakeFrameRepo) DeleteByUser(userID string) (int64, error)     { return 0, nil }
func (r *fakeFrameRepo) Update(id int64, req *model.UpdateFrameCondition) error {
	return nil
}

func (r *fakeFrameRepo) GetByBlocks(condition *model.GetFramesByBlocksCondition) ([]*entity.Frame, error) {
	return r.byBlocks, nil
}

func (r *fakeFrameRepo) List(condition *model.GetFramesCondition) ([]*entity.Frame, int64, error) {
	return nil, 0, nil
}

type fakeFactory struct {
	frameRepo *fakeFrameRepo
}

func (f *fakeFactory) NewSession(ctx context.Context) interfaces.Session {
	return &stubSession{}
}

func (f *fakeFactory) NewFrameRepository(session interfaces.Session) (repository.FrameRepository, error) {
	return f.frameRepo, nil
}

func (f *fakeFactory) NewFrameTrackingRepository(session interfaces.Session) (repository.FrameTrackingRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewVectorRecordRepository(session interfaces.Session) (repository.VectorRecordRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewSessionStateRepository(session interfaces.Session) (repository.SessionStateRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewMessageRepository(session interfaces.Session) (repository.MessageRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewUserProfileRepository(session interfaces.Session) (repository.UserProfileRepository, error) {
	return nil, nil
}

type RetrievalServiceTest struct {
	suite.Suite
	frameRepo *fakeFrameRepo
	svc       *Service
}

func (s *RetrievalServiceTest) SetupSuite() {
	s.frameRepo = &fakeFrameRepo{}
	// 重置单例状态（用于测试）
	instance = nil
	serviceOnce = sync.Once{}
	s.svc = NewService(&fakeFactory{frameRepo: s.frameRepo})
}

func (s *RetrievalServiceTest) SetupTest() {
	s.frameRepo.byBlocks = nil
}

// 向量通道不可用时退化为仅块检索：结果照常返回，标记降级，不报错
func (s *RetrievalServiceTest) TestRetrieveDegradesToBlockOnlyWhenEmbeddingFails() {
	now := time.Now()
	s.frameRepo.byBlocks = []*entity.Frame{
		{ID: 1, UserID: "u1", Content: "frame one", Importance: 8, CreatedAt: now},
		{ID: 2, UserID: "u1", Content: "frame two", Importance: 5, CreatedAt: now},
	}

	result, err := s.svc.Retrieve(context.Background(), "u1", "query text", []string{"money"}, nil)
	s.Require().Nil(err)
	s.Require().NotNil(result)

	s.True(result.Degraded)
	s.Require().Len(result.Frames, 2)
	// 仅块通道得分：重要度高者在前，来源标记为块通道
	s.Equal(int64(1), result.Frames[0].FrameID)
	s.Equal(int64(2), result.Frames[1].FrameID)
	for _, frame := range result.Frames {
		s.Equal(model.RetrievalSourceBlock, frame.Source)
	}
}

func (s *RetrievalServiceTest) TestRetrieveWithoutQueryTextIsNotDegraded() {
	s.frameRepo.byBlocks = []*entity.Frame{
		{ID: 3, UserID: "u1", Content: "frame three", Importance: 6, CreatedAt: time.Now()},
	}

	result, err := s.svc.Retrieve(context.Background(), "u1", "", []string{"work"}, nil)
	s.Require().Nil(err)

	s.False(result.Degraded)
	s.Require().Len(result.Frames, 1)
	s.Equal(int64(3), result.Frames[0].FrameID)
}

func (s *RetrievalServiceTest) TestRetrieveEmptyBothChannels() {
	result, err := s.svc.Retrieve(context.Background(), "u1", "", nil, nil)
	s.Require().Nil(err)

	s.Empty(result.Frames)
	s.False(result.Degraded)
}

func (s *RetrievalServiceTest) TestRetrieveEmptyUserID() {
	_, err := s.svc.Retrieve(context.Background(), "", "query", nil, nil)
	s.Require().NotNil(err)
	s.Equal(model.ErrorEmptyId, err.Code)
}

func TestRetrievalService(t *testing.T) {
	suite.Run(t, new(RetrievalServiceTest))
}
