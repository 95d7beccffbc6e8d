package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ErrIdentityConflict is returned when a user row for the identity could
// neither be created nor read back.
var ErrIdentityConflict = errors.New("identity could not be resolved")

const maxResolveAttempts = 3

// IdentityService maps verified token claims to exactly one user row.
type IdentityService struct {
	userRepo repository.UserRepository
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewIdentityService(userRepo repository.UserRepository, log logrus.FieldLogger, m *metrics.Metrics) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		log:      log,
		metrics:  m,
	}
}

// Resolve returns the user for claims, creating it on first sight and
// repairing a stored opaque username. Concurrent first requests for the same
// email end up with the same row.
func (s *IdentityService) Resolve(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	if claims == nil || claims.Email == "" {
		return nil, auth.ErrInvalidToken
	}

	for attempt := 1; attempt <= maxResolveAttempts; attempt++ {
		user, err := s.resolveOnce(ctx, claims)
		if !errors.Is(err, ErrIdentityConflict) {
			return user, err
		}
		s.log.WithFields(logrus.Fields{
			"email":   claims.Email,
			"attempt": attempt,
		}).Debug("Identity creation raced, retrying lookup")
	}

	s.metrics.ObserveIdentity(metrics.IdentityConflict)
	s.log.WithField("email", claims.Email).Warn("Identity could not be resolved")
	return nil, ErrIdentityConflict
}

func (s *IdentityService) resolveOnce(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err == nil {
		return s.repairIfOpaque(ctx, user, claims)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	user = &models.User{
		Username:     auth.DisplayName(claims),
		Email:        claims.Email,
		PasswordHash: constants.ExternalCredentialsMarker,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrIdentityConflict
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	s.metrics.ObserveIdentity(metrics.IdentityCreated)
	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Created user for new identity")
	return user, nil
}

// repairIfOpaque replaces a stored opaque username with the display name the
// token offers, falling back to the email local part.
func (s *IdentityService) repairIfOpaque(ctx context.Context, user *models.User, claims *auth.Claims) (*models.User, error) {
	if !auth.IsOpaqueIdentifier(user.Username) {
		s.metrics.ObserveIdentity(metrics.IdentityExisting)
		return user, nil
	}

	if err := s.repair(ctx, user, auth.DisplayName(claims)); err != nil {
		return nil, err
	}
	s.metrics.ObserveIdentity(metrics.IdentityRepaired)
	return user, nil
}

func (s *IdentityService) repair(ctx context.Context, user *models.User, name string) error {
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"username": name}); err != nil {
		return fmt.Errorf("failed to repair username: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"from":    user.Username,
		"to":      name,
	}).Info("Repaired opaque username")
	user.Username = name
	return nil
}

// RepairOpaqueUsernames rewrites every stored opaque username to the email
// local part and returns how many rows changed.
func (s *IdentityService) RepairOpaqueUsernames(ctx context.Context) (int, error) {
	candidates, err := s.userRepo.ListOpaqueUsernameCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list usernames: %w", err)
	}

	repaired := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		user := &candidates[i]
		if !auth.IsOpaqueIdentifier(user.Username) {
			continue
		}
		if err := s.repair(ctx, user, auth.EmailLocalPart(user.Email)); err != nil {
			return repaired, err
		}
		repaired++
	}

	s.metrics.ObserveRepaired(repaired)
	s.log.WithField("repaired", repaired).Info("Username repair finished")
	return repaired, nil
}
