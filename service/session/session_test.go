package session

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/TaisyaFreelanse/twelvesteps/entity"
	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	// 配置文件在模块根目录
	_ = os.Setenv("CONFIG_PATH", "../..")
	os.Exit(m.Run())
}

type stubSession struct{}

func (s *stubSession) Begin() error    { return nil }
func (s *stubSession) Close() error    { return nil }
func (s *stubSession) Commit() error   { return nil }
func (s *stubSession) Rollback() error { return nil }

type fakeSessionStateRepo struct {
	row     *entity.SessionState
	inserts []*entity.SessionState
	updates []*model.UpdateSessionStateCondition
}

func (r *fakeSessionStateRepo) GetByUser(userID string) (*entity.SessionState, error) {
	return r.row, nil
}

func (r *fakeSessionStateRepo) Insert(data *entity.SessionState) error {
	r.inserts = append(r.inserts, data)
	r.row = data
	return nil
}

func (r *fakeSessionStateRepo) Update(userID string, req *model.UpdateSessionStateCondition) error {
	r.updates = append(r.updates, req)
	return nil
}

func (r *fakeSessionStateRepo) DeleteByUser(userID string) (int64, error) {
	return 0, nil
}

type fakeFactory struct {
	stateRepo *fakeSessionStateRepo
}

func (f *fakeFactory) NewSession(ctx context.Context) interfaces.Session {
	return &stubSession{}
}

func (f *fakeFactory) NewSessionStateRepository(session interfaces.Session) (repository.SessionStateRepository, error) {
	return f.stateRepo, nil
}

func (f *fakeFactory) NewFrameRepository(session interfaces.Session) (repository.FrameRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewFrameTrackingRepository(session interfaces.Session) (repository.FrameTrackingRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewVectorRecordRepository(session interfaces.Session) (repository.VectorRecordRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewMessageRepository(session interfaces.Session) (repository.MessageRepository, error) {
	return nil, nil
}

func (f *fakeFactory) NewUserProfileRepository(session interfaces.Session) (repository.UserProfileRepository, error) {
	return nil, nil
}

type SessionServiceTest struct {
	suite.Suite
	repo *fakeSessionStateRepo
	svc  *Service
}

func (s *SessionServiceTest) SetupSuite() {
	s.repo = &fakeSessionStateRepo{}
	// 重置单例状态（用于测试）
	instance = nil
	serviceOnce = sync.Once{}
	s.svc = NewService(&fakeFactory{stateRepo: s.repo})
}

func (s *SessionServiceTest) SetupTest() {
	s.repo.row = nil
	s.repo.inserts = nil
	s.repo.updates = nil
}

func (s *SessionServiceTest) seedRow(topics, flags string, turn int64) {
	s.repo.row = &entity.SessionState{
		ID:            1,
		UserID:        "u1",
		ActiveBlocks:  "{}",
		PendingTopics: topics,
		MetaFlags:     flags,
		TurnCounter:   turn,
	}
}

func (s *SessionServiceTest) lastUpdate() *model.UpdateSessionStateCondition {
	s.Require().NotEmpty(s.repo.updates)
	return s.repo.updates[len(s.repo.updates)-1]
}

// 新话题并入已有集合，旧话题在常规写入下永不丢失
func (s *SessionServiceTest) TestRecordTurnUnionsPendingTopics() {
	s.seedRow(`["old-topic"]`, "[]", 3)

	state, err := s.svc.RecordTurn(context.Background(), "u1", &TurnUpdate{
		PendingTopics: []string{"new-topic"},
	})
	s.Require().Nil(err)

	s.Equal([]string{"old-topic", "new-topic"}, state.PendingTopics)
	s.Equal(int64(4), state.TurnCounter)

	update := s.lastUpdate()
	s.Require().NotNil(update.PendingTopics)
	s.Equal(`["old-topic","new-topic"]`, *update.PendingTopics)
}

func (s *SessionServiceTest) TestRecordTurnWithoutTopicsKeepsExisting() {
	s.seedRow(`["old-topic"]`, "[]", 5)

	state, err := s.svc.RecordTurn(context.Background(), "u1", &TurnUpdate{})
	s.Require().Nil(err)

	s.Equal([]string{"old-topic"}, state.PendingTopics)

	update := s.lastUpdate()
	s.Require().NotNil(update.PendingTopics)
	s.Equal(`["old-topic"]`, *update.PendingTopics)
}

func (s *SessionServiceTest) TestRecordTurnDedupesRepeatedTopic() {
	s.seedRow(`["money"]`, "[]", 2)

	state, err := s.svc.RecordTurn(context.Background(), "u1", &TurnUpdate{
		PendingTopics: []string{"money", "work"},
	})
	s.Require().Nil(err)

	s.Equal([]string{"money", "work"}, state.PendingTopics)
}

// 元信号是每轮的即时判断，不累积
func (s *SessionServiceTest) TestRecordTurnOverwritesMetaFlags() {
	s.seedRow("[]", `["loop_detected"]`, 7)

	state, err := s.svc.RecordTurn(context.Background(), "u1", &TurnUpdate{})
	s.Require().Nil(err)

	s.Empty(state.MetaFlags)

	update := s.lastUpdate()
	s.Require().NotNil(update.MetaFlags)
	s.Equal(`[]`, *update.MetaFlags)
}

func (s *SessionServiceTest) TestRecordTurnCreatesStateOnFirstTurn() {
	state, err := s.svc.RecordTurn(context.Background(), "u1", &TurnUpdate{
		Blocks:        []string{"money"},
		PendingTopics: []string{"job-loss"},
	})
	s.Require().Nil(err)

	s.Len(s.repo.inserts, 1)
	s.Equal(int64(1), state.TurnCounter)
	s.Equal([]string{"job-loss"}, state.PendingTopics)
	s.Contains(state.ActiveBlocks, "money")
}

func (s *SessionServiceTest) TestRecordTurnEmptyUserID() {
	_, err := s.svc.RecordTurn(context.Background(), "", &TurnUpdate{})
	s.Require().NotNil(err)
	s.Equal(model.ErrorEmptyId, err.Code)
}

func TestSessionService(t *testing.T) {
	suite.Run(t, new(SessionServiceTest))
}
