package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/smithline/atelier/internal/clock"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	"github.com/smithline/atelier/internal/payout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&earningdomain.Earning{}, &catalogdomain.CreatorProfile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
	})

	return &fixture{svc: svc, db: db, genID: node}
}

func (f *fixture) addCreator(t *testing.T, name string) snowflake.ID {
	t.Helper()
	profile := catalogdomain.CreatorProfile{
		ID:          f.genID.Generate(),
		UserID:      f.genID.Generate(),
		DisplayName: name,
		Status:      catalogdomain.ProfileStatusActive,
	}
	require.NoError(t, f.db.Create(&profile).Error)
	return profile.ID
}

func (f *fixture) addEarning(t *testing.T, creatorID snowflake.ID, status earningdomain.EarningStatus, period, sale, commission string) snowflake.ID {
	t.Helper()
	saleAmount, err := decimal.NewFromString(sale)
	require.NoError(t, err)
	commissionAmount, err := decimal.NewFromString(commission)
	require.NoError(t, err)

	earning := earningdomain.Earning{
		ID:               f.genID.Generate(),
		CreatorProfileID: creatorID,
		OrderID:          "ord-" + f.genID.Generate().String(),
		SaleAmount:       saleAmount,
		CommissionAmount: commissionAmount,
		Status:           status,
		Period:           period,
	}
	require.NoError(t, f.db.Create(&earning).Error)
	return earning.ID
}

func TestProcessPayout_AggregatesUnpaidOnly(t *testing.T) {
	f := newFixture(t)

	aria := f.addCreator(t, "Aria Voss")
	joren := f.addCreator(t, "Joren Blake")

	id1 := f.addEarning(t, aria, earningdomain.StatusPending, "2026-02", "100.00", "15.00")
	id2 := f.addEarning(t, aria, earningdomain.StatusReadyToPay, "2026-03", "200.00", "30.00")
	id3 := f.addEarning(t, aria, earningdomain.StatusPending, "2026-03", "0.00", "-10.00")
	f.addEarning(t, aria, earningdomain.StatusPaid, "2026-01", "500.00", "75.00")
	f.addEarning(t, aria, earningdomain.StatusVoid, "2026-02", "80.00", "12.00")

	id4 := f.addEarning(t, joren, earningdomain.StatusPending, "2026-03", "400.00", "80.00")

	summary, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{})
	require.NoError(t, err)

	require.Len(t, summary.Creators, 2)
	assert.Equal(t, 4, summary.EarningCount)
	assert.Equal(t, "115.00", summary.GrandTotal.StringFixed(2))
	assert.Equal(t, "700.00", summary.GrandTotalSale.StringFixed(2))

	byCreator := map[string]domain.CreatorPayout{}
	for _, creator := range summary.Creators {
		byCreator[creator.CreatorProfileID] = creator
	}

	ariaPayout := byCreator[aria.String()]
	assert.Equal(t, "Aria Voss", ariaPayout.DisplayName)
	assert.Equal(t, "35.00", ariaPayout.TotalCommission.StringFixed(2))
	assert.Equal(t, "300.00", ariaPayout.TotalSaleAmount.StringFixed(2))
	assert.Equal(t, 2, ariaPayout.PendingCount)
	assert.Equal(t, 1, ariaPayout.ReadyToPayCount)
	assert.ElementsMatch(t, []string{id1.String(), id2.String(), id3.String()}, ariaPayout.EarningIDs)

	require.Len(t, ariaPayout.Periods, 2)
	assert.Equal(t, "2026-02", ariaPayout.Periods[0].Period)
	assert.Equal(t, "15.00", ariaPayout.Periods[0].CommissionAmount.StringFixed(2))
	assert.Equal(t, "2026-03", ariaPayout.Periods[1].Period)
	assert.Equal(t, "20.00", ariaPayout.Periods[1].CommissionAmount.StringFixed(2))
	assert.Equal(t, 2, ariaPayout.Periods[1].EarningCount)

	jorenPayout := byCreator[joren.String()]
	assert.Equal(t, "80.00", jorenPayout.TotalCommission.StringFixed(2))
	assert.Equal(t, []string{id4.String()}, jorenPayout.EarningIDs)
}

func TestProcessPayout_PeriodUpperBound(t *testing.T) {
	f := newFixture(t)

	aria := f.addCreator(t, "Aria Voss")
	early := f.addEarning(t, aria, earningdomain.StatusPending, "2026-01", "100.00", "15.00")
	f.addEarning(t, aria, earningdomain.StatusPending, "2026-03", "200.00", "30.00")

	summary, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{Period: "2026-02"})
	require.NoError(t, err)

	assert.Equal(t, "2026-02", summary.Period)
	require.Len(t, summary.Creators, 1)
	assert.Equal(t, []string{early.String()}, summary.Creators[0].EarningIDs)
	assert.Equal(t, "15.00", summary.GrandTotal.StringFixed(2))
}

func TestProcessPayout_Reproducible(t *testing.T) {
	f := newFixture(t)

	aria := f.addCreator(t, "Aria Voss")
	f.addEarning(t, aria, earningdomain.StatusPending, "2026-03", "100.00", "15.00")
	f.addEarning(t, aria, earningdomain.StatusReadyToPay, "2026-03", "50.00", "7.50")

	first, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{})
	require.NoError(t, err)
	second, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, first.GrandTotal.StringFixed(2), second.GrandTotal.StringFixed(2))
	assert.Equal(t, first.Creators, second.Creators)
}

func TestProcessPayout_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	for _, period := range []string{"2026-13", "202603", "2026-3", "march"} {
		_, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{Period: period})
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod, period)
	}
}

func TestProcessPayout_Empty(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.ProcessPayout(context.Background(), domain.ProcessPayoutRequest{})
	require.NoError(t, err)
	assert.Empty(t, summary.Creators)
	assert.Equal(t, 0, summary.EarningCount)
	assert.True(t, summary.GrandTotal.IsZero())
}
