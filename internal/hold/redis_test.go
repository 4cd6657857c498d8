package hold

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testEventKey = "concert-2025"
	testToken    = "2b1f3c44-5d6e-4f70-8a91-b2c3d4e5f607"
	testTTL      = 10 * time.Minute
)

// scriptError mimics an error reply raised by a Lua script.
type scriptError string

func (e scriptError) Error() string { return string(e) }

func (scriptError) RedisError() {}

type RedisHoldServiceTestSuite struct {
	suite.Suite
	client  *mocks.MockRedisClient
	service *RedisHoldService
}

func (s *RedisHoldServiceTestSuite) SetupTest() {
	s.client = new(mocks.MockRedisClient)

	service, err := NewRedisHoldService(s.client, testEventKey, testTTL)
	s.Require().NoError(err)
	s.service = service
}

func TestRedisHoldServiceSuite(t *testing.T) {
	suite.Run(t, new(RedisHoldServiceTestSuite))
}

func (s *RedisHoldServiceTestSuite) TestNewRedisHoldService() {
	_, err := NewRedisHoldService(s.client, "", testTTL)
	kind, _ := domain.KindOf(err)
	s.Equal(domain.ErrorKindConfig, kind)

	_, err = NewRedisHoldService(s.client, testEventKey, 0)
	kind, _ = domain.KindOf(err)
	s.Equal(domain.ErrorKindConfig, kind)
}

func (s *RedisHoldServiceTestSuite) TestGetHoldToken() {
	tests := []struct {
		name       string
		setupMocks func()
		wantErr    bool
	}{
		{
			name: "should create a hold key with the TTL",
			setupMocks: func() {
				s.client.On("SetNX", mock.Anything, mock.MatchedBy(func(key string) bool {
					return len(key) > len("hold:"+testEventKey+":")
				}), mock.Anything, testTTL).Return(redis.NewBoolResult(true, nil)).Once()
			},
		},
		{
			name: "should fail when redis is unreachable",
			setupMocks: func() {
				s.client.On("SetNX", mock.Anything, mock.Anything, mock.Anything, testTTL).
					Return(redis.NewBoolResult(false, errors.New("dial tcp: connection refused"))).Once()
			},
			wantErr: true,
		},
		{
			name: "should fail on a token collision",
			setupMocks: func() {
				s.client.On("SetNX", mock.Anything, mock.Anything, mock.Anything, testTTL).
					Return(redis.NewBoolResult(false, nil)).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.client.AssertExpectations(s.T())

			tt.setupMocks()

			token, err := s.service.GetHoldToken(context.Background())

			if tt.wantErr {
				s.Error(err)
				s.Empty(token)
				return
			}

			s.NoError(err)
			s.NotEmpty(token)
		})
	}
}

func (s *RedisHoldServiceTestSuite) TestRefreshHoldToken() {
	keys := []string{holdKey(testEventKey, testToken), holdSeatsKey(testEventKey, testToken)}

	tests := []struct {
		name      string
		result    *redis.Cmd
		wantToken string
		wantErrIs error
		wantErr   bool
	}{
		{
			name:      "should return the refreshed token",
			result:    redis.NewCmdResult(testToken, nil),
			wantToken: testToken,
		},
		{
			name:      "should map a missing hold to an expired token",
			result:    redis.NewCmdResult(nil, scriptError("hold expired")),
			wantErrIs: domain.ErrHoldTokenExpired,
			wantErr:   true,
		},
		{
			name:    "should wrap other redis failures",
			result:  redis.NewCmdResult(nil, errors.New("i/o timeout")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.client.AssertExpectations(s.T())

			s.client.On("EvalSha", mock.Anything, mock.Anything, keys, testToken, 600, testEventKey).
				Return(tt.result).Once()

			token, err := s.service.RefreshHoldToken(context.Background(), testToken)

			if tt.wantErr {
				s.Error(err)
				if tt.wantErrIs != nil {
					s.ErrorIs(err, tt.wantErrIs)
				}
				return
			}

			s.NoError(err)
			s.Equal(tt.wantToken, token)
		})
	}
}

func (s *RedisHoldServiceTestSuite) TestLockSeats() {
	keys := []string{
		holdKey(testEventKey, testToken),
		holdSeatsKey(testEventKey, testToken),
		seatHoldKey(testEventKey, "A1"),
		seatHoldKey(testEventKey, "A2"),
	}

	tests := []struct {
		name      string
		result    *redis.Cmd
		wantErrIs error
		wantErr   bool
	}{
		{
			name:   "should lock every seat",
			result: redis.NewCmdResult("OK", nil),
		},
		{
			name:      "should report seats held by another token",
			result:    redis.NewCmdResult(nil, scriptError("seat already held")),
			wantErrIs: domain.ErrSeatAlreadyHeld,
			wantErr:   true,
		},
		{
			name:      "should report an expired hold",
			result:    redis.NewCmdResult(nil, scriptError("hold expired")),
			wantErrIs: domain.ErrHoldTokenExpired,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.client.AssertExpectations(s.T())

			s.client.On("EvalSha", mock.Anything, mock.Anything, keys, testToken, 600, "A1", "A2").
				Return(tt.result).Once()

			err := s.service.LockSeats(context.Background(), testToken, []string{"A1", "A2"})

			if tt.wantErr {
				s.ErrorIs(err, tt.wantErrIs)
				return
			}

			s.NoError(err)
		})
	}
}

func (s *RedisHoldServiceTestSuite) TestLockNoSeats() {
	s.NoError(s.service.LockSeats(context.Background(), testToken, nil))
	s.client.AssertNotCalled(s.T(), "EvalSha")
}

func (s *RedisHoldServiceTestSuite) TestReleaseHold() {
	keys := []string{holdKey(testEventKey, testToken), holdSeatsKey(testEventKey, testToken)}

	tests := []struct {
		name    string
		result  *redis.Cmd
		wantErr bool
	}{
		{
			name:   "should drop the hold and its seats",
			result: redis.NewCmdResult("OK", nil),
		},
		{
			name:    "should fail when redis is unreachable",
			result:  redis.NewCmdResult(nil, errors.New("dial tcp: connection refused")),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.client.AssertExpectations(s.T())

			s.client.On("EvalSha", mock.Anything, mock.Anything, keys, testToken, testEventKey).
				Return(tt.result).Once()

			err := s.service.ReleaseHold(context.Background(), testToken)

			if tt.wantErr {
				s.Error(err)
				return
			}

			s.NoError(err)
		})
	}
}

func (s *RedisHoldServiceTestSuite) TestHeldBy() {
	defer s.client.AssertExpectations(s.T())

	s.client.On("Get", mock.Anything, seatHoldKey(testEventKey, "A1")).Return(redis.NewStringResult(testToken, nil)).Once()
	s.client.On("Get", mock.Anything, seatHoldKey(testEventKey, "A2")).Return(redis.NewStringResult("", redis.Nil)).Once()

	owner, err := s.service.HeldBy(context.Background(), "A1")
	s.Require().NoError(err)
	s.Equal(testToken, owner)

	owner, err = s.service.HeldBy(context.Background(), "A2")
	s.Require().NoError(err)
	s.Empty(owner)
}
