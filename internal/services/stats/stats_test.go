package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) StatsByCategory(ctx context.Context, filter models.StatsFilter) ([]models.CategoryStat, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]models.CategoryStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) StatsAllTimeByCategory(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]models.CategoryTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) TotalTime(ctx context.Context, filter models.StatsFilter) (models.TotalTime, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.TotalTime), args.Error(1)
}

func (m *MockRepository) StatsByCategoryAndSubscription(ctx context.Context, filter models.StatsFilter) ([]models.CategorySubscriptionStat, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]models.CategorySubscriptionStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) StatsByDayOfWeek(ctx context.Context, filter models.StatsFilter) ([]models.WeekdayTotal, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]models.WeekdayTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) StatsBySubscriptionOverTime(ctx context.Context, filter models.StatsFilter) ([]models.SubscriptionMonthStat, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]models.SubscriptionMonthStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func march(t *testing.T) models.StatsFilter {
	t.Helper()
	from, err := models.ParseDate("2024-03-01")
	require.NoError(t, err)
	to, err := models.ParseDate("2024-03-31")
	require.NoError(t, err)
	userID := int64(1)
	return models.StatsFilter{UserID: &userID, DateFrom: from, DateTo: to}
}

func TestService_ByDayOfWeek(t *testing.T) {
	tests := []struct {
		name string
		rows []models.WeekdayTotal
		want []int64
	}{
		{
			name: "пустое окно даёт семь нулей",
			rows: []models.WeekdayTotal{},
			want: []int64{0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "разреженные дни дополняются нулями",
			rows: []models.WeekdayTotal{
				{Weekday: time.Saturday, TotalMinutes: 15},
				{Weekday: time.Sunday, TotalMinutes: 20},
				{Weekday: time.Tuesday, TotalMinutes: 45},
			},
			want: []int64{20, 0, 45, 0, 0, 0, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			filter := march(t)
			repo.On("StatsByDayOfWeek", mock.Anything, filter).Return(tt.rows, nil).Once()

			got, err := New(repo).ByDayOfWeek(context.Background(), filter)
			require.NoError(t, err)
			require.Len(t, got, 7)

			names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
			var sum, rowsSum int64
			for i, row := range got {
				assert.Equal(t, names[i], row.DayOfWeek)
				assert.Equal(t, tt.want[i], row.TotalMinutes)
				sum += row.TotalMinutes
			}
			for _, r := range tt.rows {
				rowsSum += r.TotalMinutes
			}
			assert.Equal(t, rowsSum, sum)
		})
	}
}

func TestService_PassThrough(t *testing.T) {
	repo := new(MockRepository)
	filter := march(t)

	byCategory := []models.CategoryStat{{CategoryID: 2, CategoryName: "Cardio", TotalMinutes: 50}}
	allTime := []models.CategoryTotal{{CategoryName: "Cardio", TotalMinutes: 80}}
	bySub := []models.CategorySubscriptionStat{{CategoryName: "Cardio", SubscriptionType: models.SubscriptionVIP, TotalMinutes: 50}}
	overTime := []models.SubscriptionMonthStat{{MonthYear: "2024-03", SubscriptionType: models.SubscriptionVIP, TotalMinutes: 50}}

	repo.On("StatsByCategory", mock.Anything, filter).Return(byCategory, nil).Once()
	repo.On("StatsAllTimeByCategory", mock.Anything, int64(1)).Return(allTime, nil).Once()
	repo.On("TotalTime", mock.Anything, filter).Return(models.TotalTime{TotalMinutes: 50}, nil).Once()
	repo.On("StatsByCategoryAndSubscription", mock.Anything, filter).Return(bySub, nil).Once()
	repo.On("StatsBySubscriptionOverTime", mock.Anything, filter).Return(overTime, nil).Once()

	svc := New(repo)
	ctx := context.Background()

	gotByCategory, err := svc.ByCategory(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, byCategory, gotByCategory)

	gotAllTime, err := svc.AllTimeByCategory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, allTime, gotAllTime)

	total, err := svc.TotalTime(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total.TotalMinutes)

	gotBySub, err := svc.ByCategoryAndSubscription(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, bySub, gotBySub)

	gotOverTime, err := svc.BySubscriptionOverTime(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, overTime, gotOverTime)

	repo.AssertExpectations(t)
}

func TestService_NoPartialResults(t *testing.T) {
	repo := new(MockRepository)
	filter := march(t)
	dbErr := apperr.Persistence("storage.StatsByDayOfWeek", errors.New("connection reset"))
	repo.On("StatsByDayOfWeek", mock.Anything, filter).Return(nil, dbErr).Once()
	repo.On("TotalTime", mock.Anything, filter).Return(models.TotalTime{}, dbErr).Once()

	week, err := New(repo).ByDayOfWeek(context.Background(), filter)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Nil(t, week)

	total, err := New(repo).TotalTime(context.Background(), filter)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Zero(t, total)
}
