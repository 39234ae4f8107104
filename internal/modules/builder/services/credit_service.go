package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"
)

// ErrInsufficientCredits means the account balance cannot cover one
// generation. Surfaced to the client as an upgrade prompt, not an error
// message.
var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditService gates and accounts for generation cost. Free credits are
// granted daily to non-subscribed accounts and spent before purchased ones.
// Spending happens after a successful generation (charge-on-success); there
// is no refund path.
type CreditService struct {
	profiles   repositories.ProfileRepo
	cost       int
	dailyGrant int
}

func NewCreditService(profiles repositories.ProfileRepo, cost, dailyGrant int) *CreditService {
	return &CreditService{
		profiles:   profiles,
		cost:       cost,
		dailyGrant: dailyGrant,
	}
}

// Cost is the fixed price of one generation.
func (s *CreditService) Cost() int {
	return s.cost
}

// LoadProfile fetches (or creates) the account and applies the daily grant
// before the balance is inspected. A stale balance must never block
// generation past a day boundary.
func (s *CreditService) LoadProfile(id uuid.UUID, email string) (*models.Profile, error) {
	profile, err := s.profiles.GetOrCreate(id, email, s.dailyGrant)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if s.MaybeGrantDaily(profile, time.Now()) {
		if err := s.profiles.Save(profile); err != nil {
			return nil, fmt.Errorf("failed to persist daily grant: %w", err)
		}
		utils.LogInfo("daily free credits granted", map[string]interface{}{
			"user_id": profile.ID.String(),
			"credits": profile.FreeCredits,
		})
	}

	return profile, nil
}

// CheckAndReserve reports whether the balance covers one generation. Pure
// predicate, never mutates state.
func (s *CreditService) CheckAndReserve(profile *models.Profile) bool {
	return profile.TotalCredits() >= s.cost
}

// Spend decrements the balance by the generation cost, free credits first,
// the remainder from purchased credits. Total insufficiency is checked
// defensively even though callers gate with CheckAndReserve.
func (s *CreditService) Spend(profile *models.Profile) error {
	if profile.TotalCredits() < s.cost {
		return ErrInsufficientCredits
	}

	remaining := s.cost
	if profile.FreeCredits >= remaining {
		profile.FreeCredits -= remaining
	} else {
		remaining -= profile.FreeCredits
		profile.FreeCredits = 0
		profile.PurchasedCredits -= remaining
		if profile.PurchasedCredits < 0 {
			profile.PurchasedCredits = 0
		}
	}

	if err := s.profiles.Save(profile); err != nil {
		return fmt.Errorf("failed to persist credit spend: %w", err)
	}
	return nil
}

// MaybeGrantDaily resets the free credit balance to the daily grant when the
// local calendar date has advanced since the last grant. Subscribed accounts
// are never touched. Returns true when the profile was modified; persistence
// is the caller's concern.
func (s *CreditService) MaybeGrantDaily(profile *models.Profile, now time.Time) bool {
	if profile.Subscribed {
		return false
	}

	last := profile.LastGrantAt.Local()
	nowLocal := now.Local()
	if last.Year() == nowLocal.Year() && last.YearDay() == nowLocal.YearDay() {
		return false
	}

	profile.FreeCredits = s.dailyGrant
	profile.LastGrantAt = now
	return true
}

// Purchase credits purchased coins to the account. Payment capture happens
// upstream; this only applies the result.
func (s *CreditService) Purchase(profile *models.Profile, coins int) error {
	if coins <= 0 {
		return fmt.Errorf("invalid coin amount: %d", coins)
	}
	profile.PurchasedCredits += coins
	if err := s.profiles.Save(profile); err != nil {
		return fmt.Errorf("failed to persist credit purchase: %w", err)
	}
	return nil
}
