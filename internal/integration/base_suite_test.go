package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/seating-session/internal/app"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const testEventKey = "concert-2025"

type BaseSuite struct {
	suite.Suite
	cacheContainer *RedisContainer
	redis          *redis.Client
	server         *httptest.Server
}

func (s *BaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	redisContainer, err := getCacheContainer(ctx)
	s.Require().NoError(err)
	s.cacheContainer = redisContainer

	cfg := app.Config{
		Port:               3000,
		Env:                "test",
		EventKey:           testEventKey,
		EventName:          "Summer Gala",
		Currency:           "USD",
		Locale:             "en-US",
		Selection:          domain.SelectionRules{MinSeats: 1, MaxSeats: 4},
		HoldTTL:            time.Minute,
		SessionIdleTimeout: time.Hour,
		Redis: app.RedisConfig{
			URL:          redisContainer.ConnectionString,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
		},
		Stripe: app.StripeConfig{
			SuccessUrl: "https://example.com/success.html",
			FailureUrl: "https://example.com/failure.html",
		},
	}

	s.redis, err = app.NewRedisClient(cfg)
	s.Require().NoError(err)

	application, err := app.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), s.redis)
	s.Require().NoError(err)

	s.server = httptest.NewServer(application.Routes())
}

func (s *BaseSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}

	if s.redis != nil {
		s.redis.Close()
	}

	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			s.T().Logf("failed to terminate container: %s", err)
		}
	}
}

// newBuyer returns a client with its own cookie jar, i.e. its own session.
func (s *BaseSuite) newBuyer() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)

	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}
