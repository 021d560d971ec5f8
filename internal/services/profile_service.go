package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finovo/internal/amqp"
	"finovo/internal/core"
	"finovo/internal/log"
	"finovo/internal/metrics"
	"finovo/internal/retry"
	"finovo/internal/storage"
)

// ProfileStore is the profile row plus read access to the user's goals.
type ProfileStore interface {
	storage.ProfileStore
	GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
}

// ProfileService loads and updates the signed-in user's profile.
type ProfileService struct {
	store     ProfileStore
	policy    retry.Policy
	publisher amqp.Publisher
	cache     Invalidator
	logger    *log.Logger
	now       func() time.Time
}

func NewProfileService(store ProfileStore, policy retry.Policy, publisher amqp.Publisher, cache Invalidator, logger *log.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		policy:    policy,
		publisher: publisher,
		cache:     cache,
		logger:    componentLogger(logger, log.ComponentProfile),
		now:       time.Now,
	}
}

// Load polls for the profile row under the retry policy. A row written
// by sign-up may not be visible yet; when it never shows up the profile is
// created here from the session's email.
func (s *ProfileService) Load(ctx context.Context, userID, email string) (core.Profile, error) {
	var attempts int
	p, err := retry.Do(ctx, s.policy, "profile", func(ctx context.Context, attempt int) (core.Profile, bool, error) {
		attempts = attempt
		p, err := s.store.GetProfile(ctx, userID)
		if errors.Is(err, core.ErrNotFound) {
			s.logger.DebugContext(ctx, "Profile not found yet", log.FieldUserID, userID, log.FieldAttempt, attempt)
			return core.Profile{}, false, nil
		}
		if err != nil {
			return core.Profile{}, false, err
		}
		return p, true, nil
	})
	metrics.ProfileLoadAttempts.Observe(float64(attempts))

	if errors.Is(err, retry.ErrNotFound) {
		s.logger.WarnContext(ctx, "Profile missing after retries, creating it",
			log.FieldUserID, userID, log.FieldError, err)
		p = core.NewProfile(userID, email, "")
		if err := s.store.SaveProfile(ctx, p); err != nil {
			return core.Profile{}, fmt.Errorf("create profile: %w", err)
		}
		return p, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Update validates and saves the profile. When goals is set it replaces
// the stored goal list; otherwise the stored goals are kept. A goal id the
// user does not own is treated as a new goal.
func (s *ProfileService) Update(ctx context.Context, p core.Profile, goals core.Optional[[]core.Goal]) (core.Profile, error) {
	now := s.now().UTC()
	list, replace := goals.Get()
	if !replace {
		stored, err := s.store.ListGoals(ctx, p.ID)
		if err != nil {
			return core.Profile{}, fmt.Errorf("load goals: %w", err)
		}
		p.Goals = stored
	} else {
		resolved, err := s.resolveGoals(ctx, p.ID, list, now)
		if err != nil {
			return core.Profile{}, err
		}
		p.Goals = resolved
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}
	p.UpdatedAt = now
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, p.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to invalidate dashboard cache", log.FieldUserID, p.ID, log.FieldError, err)
		}
	}
	publish(ctx, s.publisher, s.logger, amqp.NewLedgerEvent(core.KindProfile, amqp.ActionUpdated, p.ID, p.ID))
	s.logger.InfoContext(ctx, "Profile updated", log.FieldUserID, p.ID, "complete", core.ProfileComplete(p))
	return p, nil
}

// resolveGoals keeps an incoming goal id only when userID already owns
// it; every other goal gets a fresh id.
func (s *ProfileService) resolveGoals(ctx context.Context, userID string, in []core.Goal, now time.Time) ([]core.Goal, error) {
	out := make([]core.Goal, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, g := range in {
		created := now
		if g.ID != "" && !seen[g.ID] {
			existing, err := s.store.GetGoal(ctx, userID, g.ID)
			switch {
			case err == nil:
				created = existing.CreatedAt
			case errors.Is(err, core.ErrNotFound):
				g.ID = ""
			default:
				return nil, fmt.Errorf("load goal: %w", err)
			}
		} else {
			g.ID = ""
		}
		if g.ID == "" {
			g.ID = core.NewID()
		}
		seen[g.ID] = true
		g.UserID = userID
		g.CreatedAt = created
		g.UpdatedAt = now
		out = append(out, g)
	}
	return out, nil
}

// Completeness lists the required fields still missing from p.
func (s *ProfileService) Completeness(p core.Profile) []string {
	return core.MissingProfileFields(p)
}
