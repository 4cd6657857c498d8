package hold

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seating-session/internal/domain"
)

// MemoryHoldService keeps holds in process memory. It is meant for local
// development and tests where no redis is available.
type MemoryHoldService struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	holds map[string]time.Time
	seats map[string]string
}

func NewMemoryHoldService(ttl time.Duration) *MemoryHoldService {
	return &MemoryHoldService{
		ttl:   ttl,
		now:   time.Now,
		holds: make(map[string]time.Time),
		seats: make(map[string]string),
	}
}

func (s *MemoryHoldService) GetHoldToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.holds[token] = s.now().Add(s.ttl)

	return token, nil
}

func (s *MemoryHoldService) RefreshHoldToken(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(token) {
		return "", domain.ErrHoldTokenExpired
	}

	s.holds[token] = s.now().Add(s.ttl)

	return token, nil
}

func (s *MemoryHoldService) LockSeats(ctx context.Context, token string, seatIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked(token) {
		return domain.ErrHoldTokenExpired
	}

	for _, seatID := range seatIDs {
		if owner, ok := s.seats[seatID]; ok && owner != token && s.activeLocked(owner) {
			return domain.ErrSeatAlreadyHeld
		}
	}

	for _, seatID := range seatIDs {
		s.seats[seatID] = token
	}

	return nil
}

func (s *MemoryHoldService) ReleaseHold(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.holds, token)

	for seatID, owner := range s.seats {
		if owner == token {
			delete(s.seats, seatID)
		}
	}

	return nil
}

func (s *MemoryHoldService) activeLocked(token string) bool {
	expiresAt, ok := s.holds[token]
	if !ok {
		return false
	}

	if !s.now().Before(expiresAt) {
		delete(s.holds, token)
		return false
	}

	return true
}
