package rates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/expense-engine/perdiem"
	"github.com/warp/expense-engine/rates"
)

func TestStaticCatalog_KnownLocality(t *testing.T) {
	catalog := rates.NewStaticCatalog()

	s, err := catalog.Schedule(context.Background(), "10001")
	require.NoError(t, err)
	assert.True(t, s.BaseDailyRate.Equal(perdiem.NewMoney(92)), "NYC carries the high-cost tier")
	assert.True(t, s.MealRates.Dinner.Equal(perdiem.NewMoney(39)))
}

func TestStaticCatalog_UnknownLocality_StandardRate(t *testing.T) {
	catalog := rates.NewStaticCatalog()

	s, err := catalog.Schedule(context.Background(), "59715")
	require.NoError(t, err)
	assert.True(t, s.BaseDailyRate.Equal(perdiem.NewMoney(74)), "unknown localities fall back to the standard rate")
	assert.True(t, s.MealRates.Breakfast.Equal(perdiem.NewMoney(18)))
}

// fakeStore returns a fixed override for one postal code.
type fakeStore struct {
	code     string
	schedule perdiem.DailyRateSchedule
}

func (f *fakeStore) GetRateSchedule(_ context.Context, postalCode string) (*perdiem.DailyRateSchedule, error) {
	if postalCode == f.code {
		s := f.schedule
		return &s, nil
	}
	return nil, nil
}

func TestStoreCatalog_OverrideWins(t *testing.T) {
	override := rates.NewSchedule(110, 28, 31, 46)
	catalog := rates.NewStoreCatalog(&fakeStore{code: "10001", schedule: override}, rates.NewStaticCatalog())

	s, err := catalog.Schedule(context.Background(), "10001")
	require.NoError(t, err)
	assert.True(t, s.BaseDailyRate.Equal(perdiem.NewMoney(110)), "persisted override should beat the static table")
}

func TestStoreCatalog_FallsBackWhenNoOverride(t *testing.T) {
	catalog := rates.NewStoreCatalog(&fakeStore{}, rates.NewStaticCatalog())

	s, err := catalog.Schedule(context.Background(), "60601")
	require.NoError(t, err)
	assert.True(t, s.BaseDailyRate.Equal(perdiem.NewMoney(86)))
}

func TestStoreCatalog_InvalidOverride_Rejected(t *testing.T) {
	// An override with an unset dinner rate is incomplete.
	broken := perdiem.DailyRateSchedule{
		BaseDailyRate: perdiem.NewMoney(90),
		MealRates: perdiem.MealRates{
			Breakfast: perdiem.NewMoney(20),
			Lunch:     perdiem.NewMoney(22),
		},
	}
	catalog := rates.NewStoreCatalog(&fakeStore{code: "10001", schedule: broken}, rates.NewStaticCatalog())

	_, err := catalog.Schedule(context.Background(), "10001")
	assert.ErrorIs(t, err, perdiem.ErrMissingSchedule)
}

func TestRequiresManualCalculation(t *testing.T) {
	assert.False(t, rates.RequiresManualCalculation(nil))
	assert.False(t, rates.RequiresManualCalculation([]string{"10001"}))
	assert.False(t, rates.RequiresManualCalculation([]string{"10001", "10001", ""}), "duplicates and blanks do not escalate")
	assert.True(t, rates.RequiresManualCalculation([]string{"10001", "94103"}))
}

func TestPrimaryPostalCode(t *testing.T) {
	assert.Equal(t, "", rates.PrimaryPostalCode(nil))
	assert.Equal(t, "10001", rates.PrimaryPostalCode([]string{"", "10001", "10001"}))
}
