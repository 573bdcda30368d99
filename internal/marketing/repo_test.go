package marketing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sunnatcollection/backoffice/pkg/db/models"
	"github.com/sunnatcollection/backoffice/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketing_test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Customer{}, &models.Sale{},
		&models.Campaign{}, &models.Trigger{}, &models.TriggerLog{},
	))
	return conn
}

func seedCustomer(t *testing.T, conn *gorm.DB, customer models.Customer) models.Customer {
	t.Helper()
	customer.Active = true
	require.NoError(t, conn.Create(&customer).Error)
	return customer
}

func TestResolveAudienceLoyaltyTier(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	now := time.Now().UTC()

	seedCustomer(t, conn, models.Customer{Name: "Bronze", Phone: "1", LoyaltyPoints: 100})
	gold := seedCustomer(t, conn, models.Customer{Name: "Gold", Phone: "2", LoyaltyPoints: 1500})
	seedCustomer(t, conn, models.Customer{Name: "Platinum", Phone: "3", LoyaltyPoints: 3000})

	audience, err := repo.ResolveAudience(context.Background(), enums.AudienceLoyaltyTier, []byte(`{"tier":"Gold"}`), now)
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, gold.ID, audience[0].ID)

	_, err = repo.ResolveAudience(context.Background(), enums.AudienceLoyaltyTier, []byte(`{"tier":"Diamond"}`), now)
	require.Error(t, err)
}

func TestResolveAudienceInactive(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	now := time.Now().UTC()

	recent := seedCustomer(t, conn, models.Customer{Name: "Recent", Phone: "1"})
	dormant := seedCustomer(t, conn, models.Customer{Name: "Dormant", Phone: "2"})
	never := seedCustomer(t, conn, models.Customer{Name: "Never", Phone: "3"})

	sale := func(customerID uint, at time.Time) {
		s := models.Sale{SaleNumber: "S", CustomerID: &customerID, Total: decimal.NewFromInt(100)}
		require.NoError(t, conn.Create(&s).Error)
		require.NoError(t, conn.Model(&models.Sale{}).Where("id = ?", s.ID).Update("created_at", at).Error)
	}
	sale(recent.ID, now.AddDate(0, 0, -5))
	sale(dormant.ID, now.AddDate(0, 0, -90))

	audience, err := repo.ResolveAudience(context.Background(), enums.AudienceInactive, []byte(`{"days":30}`), now)
	require.NoError(t, err)
	require.Len(t, audience, 2)
	assert.Equal(t, dormant.ID, audience[0].ID)
	assert.Equal(t, never.ID, audience[1].ID)
}

func TestResolveAudienceSkipsInactiveCustomers(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	seedCustomer(t, conn, models.Customer{Name: "Active", Phone: "1"})
	disabled := models.Customer{Name: "Disabled", Phone: "2", Active: false}
	require.NoError(t, conn.Create(&disabled).Error)

	audience, err := repo.ResolveAudience(context.Background(), enums.AudienceAll, nil, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, audience, 1)
	assert.Equal(t, "Active", audience[0].Name)
}

func TestTriggerCandidatesLoyaltyMilestone(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	seedCustomer(t, conn, models.Customer{Name: "Low", Phone: "1", LoyaltyPoints: 400})
	high := seedCustomer(t, conn, models.Customer{Name: "High", Phone: "2", LoyaltyPoints: 1100})

	trigger := models.Trigger{Type: enums.TriggerLoyaltyMilestone, Days: 1000}
	candidates, err := repo.TriggerCandidates(context.Background(), trigger, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, high.ID, candidates[0].ID)
}

func TestTriggerFiredOnIsPerDay(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	today := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateTriggerLog(ctx, &models.TriggerLog{
		TriggerID:   1,
		CustomerID:  10,
		TriggeredAt: today,
		MessageSent: true,
	}))

	fired, err := repo.TriggerFiredOn(ctx, 1, 10, today.Add(6*time.Hour))
	require.NoError(t, err)
	assert.True(t, fired)

	fired, err = repo.TriggerFiredOn(ctx, 1, 10, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, fired)

	fired, err = repo.TriggerFiredOn(ctx, 1, 99, today)
	require.NoError(t, err)
	assert.False(t, fired)

	fired, err = repo.TriggerFiredOn(ctx, 2, 10, today)
	require.NoError(t, err)
	assert.False(t, fired)
}
