package schedule_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
)

func TestService_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, date(2025, 1, 10))

	late, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 3, 1), 1, 5),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	early, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 1, 1), 1, 5),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	exhausted, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2024, 12, 1), 1, 1),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)
	require.Equal(t, schedule.StatusExhausted, exhausted.Status())

	upcoming, err := svc.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)

	assert.Equal(t, early.ID, upcoming[0].Series.ID)
	assert.Equal(t, date(2025, 1, 15), upcoming[0].Next)
	assert.Equal(t, late.ID, upcoming[1].Series.ID)
	assert.Equal(t, date(2025, 3, 1), upcoming[1].Next)
}

func TestService_Upcoming(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, date(2025, 1, 10))

	active, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 1, 1), 2, 3),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	up, ok, err := svc.Upcoming(ctx, active.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date(2025, 1, 15), up.Next)

	done, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 1, 1), 1, 1),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	_, ok, err = svc.Upcoming(ctx, done.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Upcoming(ctx, uuid.New())
	assert.ErrorIs(t, err, schedule.ErrNotFound)
}

func TestService_ListCompleted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, date(2025, 1, 20))

	weekly, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 1, 1), 1, 10),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	other, err := svc.Create(ctx, schedule.CreateParams{
		Rule:     weeklyRule(date(2025, 1, 3), 1, 1),
		Template: expenseTemplate(),
	})
	require.NoError(t, err)

	all, err := svc.ListCompleted(ctx, schedule.OccurrenceFilter{})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, 1, 15), date(2025, 1, 8), date(2025, 1, 3), date(2025, 1, 1),
	}, scheduledDates(all))

	one, err := svc.ListCompleted(ctx, schedule.OccurrenceFilter{SeriesID: &weekly.ID})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2025, 1, 15), date(2025, 1, 8), date(2025, 1, 1)}, scheduledDates(one))

	for _, o := range one {
		assert.NotEqual(t, other.ID, o.SeriesID)
	}

	missing := uuid.New()

	_, err = svc.ListCompleted(ctx, schedule.OccurrenceFilter{SeriesID: &missing})
	assert.ErrorIs(t, err, schedule.ErrNotFound)
}

func TestService_ListUpcomingRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := schedule.NewMockRepository(ctrl)
	repo.EXPECT().ListSeries(gomock.Any(), schedule.SeriesFilter{}).Return(nil, errors.New("db down"))

	svc := schedule.NewService(repo, schedule.NewMockLocker(ctrl))

	_, err := svc.ListUpcoming(context.Background())
	assert.Error(t, err)
}
