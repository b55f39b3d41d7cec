package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"chatterbox/internal/errs"
	"chatterbox/internal/logx"
	"chatterbox/internal/models"
)

// IdentityService creates the user identity at most once. Concurrent callers
// wait for the same generation and all see its result, failure included.
type IdentityService struct {
	keys  KeyPairProvider
	newID func() string

	mu      sync.Mutex
	started bool
	done    chan struct{}
	id      models.Identity
	err     error
}

func NewIdentityService(keys KeyPairProvider) *IdentityService {
	return &IdentityService{
		keys:  keys,
		newID: uuid.NewString,
		done:  make(chan struct{}),
	}
}

// Ensure returns the identity, generating it on the first call.
func (s *IdentityService) Ensure(ctx context.Context) (models.Identity, error) {
	s.mu.Lock()
	if !s.started {
		s.started = true
		go s.generate(context.WithoutCancel(ctx))
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		if s.err != nil {
			return models.Identity{}, s.err
		}
		return s.id.Clone(), nil
	case <-ctx.Done():
		return models.Identity{}, ctx.Err()
	}
}

func (s *IdentityService) generate(ctx context.Context) {
	defer close(s.done)

	if s.keys == nil {
		s.err = errs.IdentityGenerationFailed(errors.New("key pair provider is not configured"))
		return
	}
	kp, err := s.keys.GenerateKeyPair(ctx)
	if err != nil {
		logx.Error(err, "key pair generation failed")
		s.err = errs.IdentityGenerationFailed(err)
		return
	}
	if len(kp.PublicKey) == 0 || len(kp.PrivateKey) == 0 {
		s.err = errs.IdentityGenerationFailed(errors.New("provider returned an empty key pair"))
		return
	}
	s.id = models.Identity{
		UserID:     s.newID(),
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
	}
	logx.Debug("identity generated", "user_id", s.id.UserID)
}
