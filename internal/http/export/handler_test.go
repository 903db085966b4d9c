package export_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finny-schedules/internal/export"
	exportHandler "github.com/MrJamesThe3rd/finny-schedules/internal/http/export"
	"github.com/MrJamesThe3rd/finny-schedules/internal/recurrence"
	"github.com/MrJamesThe3rd/finny-schedules/internal/schedule"
	"github.com/MrJamesThe3rd/finny-schedules/internal/transaction"
)

func newRouter(t *testing.T, series []*schedule.Series, listErr error) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := schedule.NewMockRepository(ctrl)
	repo.EXPECT().
		ListSeries(gomock.Any(), schedule.SeriesFilter{}).
		DoAndReturn(func(context.Context, schedule.SeriesFilter) ([]*schedule.Series, error) {
			return series, listErr
		}).
		AnyTimes()

	h := exportHandler.NewHandler(export.NewService(schedule.NewService(repo, nil)))

	r := chi.NewRouter()
	r.Route("/export", h.Routes)

	return r
}

func rentSeries() []*schedule.Series {
	return []*schedule.Series{{
		ID: uuid.New(),
		Rule: recurrence.Rule{
			Frequency:  recurrence.FrequencyMonthly,
			Interval:   1,
			EndType:    recurrence.EndNever,
			AnchorDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Template: transaction.Details{Type: transaction.TypeExpense, Amount: 85000, Description: "Rent"},
	}}
}

func TestHandler_Calendar(t *testing.T) {
	r := newRouter(t, rentSeries(), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/calendar.ics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".ics")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Rent -850.00 €")
	assert.Contains(t, rec.Body.String(), "FREQ=MONTHLY")
}

func TestHandler_Summary(t *testing.T) {
	r := newRouter(t, rentSeries(), nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "* 2025-03-01 | Rent -850.00 € | MONTHLY\n", rec.Body.String())
}

func TestHandler_ExportError(t *testing.T) {
	r := newRouter(t, nil, assert.AnError)

	for _, path := range []string{"/export/calendar.ics", "/export/summary"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
	}
}
