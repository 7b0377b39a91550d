package factory

import (
	"context"

	"github.com/TaisyaFreelanse/twelvesteps/repository"
	"github.com/TaisyaFreelanse/twelvesteps/repository/interfaces"
)

type Factory interface {
	NewSession(ctx context.Context) interfaces.Session
	NewFrameRepository(session interfaces.Session) (repository.FrameRepository, error)
	NewFrameTrackingRepository(session interfaces.Session) (repository.FrameTrackingRepository, error)
	NewVectorRecordRepository(session interfaces.Session) (repository.VectorRecordRepository, error)
	NewSessionStateRepository(session interfaces.Session) (repository.SessionStateRepository, error)
	NewMessageRepository(session interfaces.Session) (repository.MessageRepository, error)
	NewUserProfileRepository(session interfaces.Session) (repository.UserProfileRepository, error)
}
