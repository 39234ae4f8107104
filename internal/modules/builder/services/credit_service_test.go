package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

func TestSpendFreeCreditsFirst(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile := &models.Profile{ID: uuid.New(), FreeCredits: 1, PurchasedCredits: 0}
	require.NoError(t, svc.Spend(profile))
	assert.Equal(t, 0, profile.FreeCredits)
	assert.Equal(t, 0, profile.PurchasedCredits)
}

func TestSpendFallsBackToPurchased(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile := &models.Profile{ID: uuid.New(), FreeCredits: 0, PurchasedCredits: 5}
	require.NoError(t, svc.Spend(profile))
	assert.Equal(t, 0, profile.FreeCredits)
	assert.Equal(t, 4, profile.PurchasedCredits)
}

func TestSpendInsufficient(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile := &models.Profile{ID: uuid.New()}
	err := svc.Spend(profile)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, 0, profile.FreeCredits)
	assert.Equal(t, 0, profile.PurchasedCredits)
}

func TestSpendPersists(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile, err := repo.GetOrCreate(uuid.New(), "a@b.c", 3)
	require.NoError(t, err)

	require.NoError(t, svc.Spend(profile))

	stored, err := repo.GetByID(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.FreeCredits)
}

func TestDailyGrantRollsOver(t *testing.T) {
	svc := NewCreditService(newFakeProfileRepo(), 1, 10)

	yesterday := time.Now().Add(-24 * time.Hour)
	profile := &models.Profile{ID: uuid.New(), FreeCredits: 0, LastGrantAt: yesterday}

	assert.True(t, svc.MaybeGrantDaily(profile, time.Now()))
	assert.Equal(t, 10, profile.FreeCredits)
}

func TestDailyGrantIdempotentWithinDay(t *testing.T) {
	svc := NewCreditService(newFakeProfileRepo(), 1, 10)

	now := time.Now()
	profile := &models.Profile{ID: uuid.New(), FreeCredits: 0, LastGrantAt: now.Add(-24 * time.Hour)}

	require.True(t, svc.MaybeGrantDaily(profile, now))
	profile.FreeCredits = 3 // spent some since the grant

	assert.False(t, svc.MaybeGrantDaily(profile, now))
	assert.Equal(t, 3, profile.FreeCredits, "a second grant on the same day must not reset the balance")
}

func TestDailyGrantSkipsSubscribed(t *testing.T) {
	svc := NewCreditService(newFakeProfileRepo(), 1, 10)

	profile := &models.Profile{ID: uuid.New(), Subscribed: true, LastGrantAt: time.Now().Add(-48 * time.Hour)}
	assert.False(t, svc.MaybeGrantDaily(profile, time.Now()))
	assert.Equal(t, 0, profile.FreeCredits)
}

func TestLoadProfileGrantsOnFirstAccess(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile, err := svc.LoadProfile(uuid.New(), "new@user.dev")
	require.NoError(t, err)
	assert.Equal(t, 10, profile.FreeCredits)
	assert.False(t, profile.LastGrantAt.IsZero())
}

func TestPurchaseAddsCoins(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewCreditService(repo, 1, 10)

	profile, err := repo.GetOrCreate(uuid.New(), "a@b.c", 0)
	require.NoError(t, err)

	require.NoError(t, svc.Purchase(profile, 20))
	assert.Equal(t, 20, profile.PurchasedCredits)

	assert.Error(t, svc.Purchase(profile, 0))
	assert.Error(t, svc.Purchase(profile, -5))
}
