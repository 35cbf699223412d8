package timeloghandler

import (
	"bytes"
	"testing"
	"time"
	"travel-order-backend/lib/utils/clock"
	testdb "travel-order-backend/lib/utils/test-db"
	"travel-order-backend/models"
	timelogapimodels "travel-order-backend/models/api/time-log"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	rows int
}

func (s *stubRenderer) TimeLogsXLS(list []dbmodels.TimeLog) (*bytes.Buffer, string, error) {
	s.rows = len(list)
	return bytes.NewBufferString("xlsx"), "TIME_LOGS.xlsx", nil
}

func TestTimeLogHandler(t *testing.T) {
	conn := testdb.Open(t)
	renderer := &stubRenderer{}
	handler := NewInstance(conn, renderer, clock.NewManual(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)))
	p := testdb.CreatePersonnel(t, conn, "juan")
	d := testdb.CreateDirector(t, conn, "ana")

	var openID string
	t.Run("create open log", func(t *testing.T) {
		view, err := handler.Create(timelogapimodels.TimeLogData{PersonnelID: p.ID, LogDate: "2026-02-01", TimeIn: "08:00"})
		require.Nil(t, err)
		require.True(t, view.IsOpen)
		require.Equal(t, "personnel", view.AccountType)
		require.Equal(t, "juan Tester", view.AccountName)
		openID = view.ID
	})
	t.Run("create closed director log", func(t *testing.T) {
		view, err := handler.Create(timelogapimodels.TimeLogData{DirectorID: d.ID, LogDate: "2026-01-30", TimeIn: "08:00", TimeOut: "17:00"})
		require.Nil(t, err)
		require.False(t, view.IsOpen)
		require.Equal(t, "director", view.AccountType)
	})
	t.Run("exactly one account", func(t *testing.T) {
		_, err := handler.Create(timelogapimodels.TimeLogData{PersonnelID: p.ID, DirectorID: d.ID, LogDate: "2026-02-01", TimeIn: "08:00"})
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "personnel_id")
	})
	t.Run("unknown account", func(t *testing.T) {
		_, err := handler.Create(timelogapimodels.TimeLogData{DirectorID: p.ID, LogDate: "2026-02-01", TimeIn: "08:00"})
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "director_id")
	})
	t.Run("time out before time in", func(t *testing.T) {
		_, err := handler.Create(timelogapimodels.TimeLogData{PersonnelID: p.ID, LogDate: "2026-02-01", TimeIn: "08:00", TimeOut: "07:59"})
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "time_out")
	})
	t.Run("list with stats", func(t *testing.T) {
		list, rowCount, stats, err := handler.List(timelogapimodels.TimeLogFilter{Status: timelogapimodels.TimeLogOpen})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Equal(t, openID, list[0].ID)
		require.Equal(t, timelogapimodels.TimeLogStats{Total: 2, Open: 1, Closed: 1, Today: 1}, stats)

		_, rowCount, _, err = handler.List(timelogapimodels.TimeLogFilter{DateFrom: "2026-01-29", DateTo: "2026-01-31"})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
	})
	t.Run("close the log", func(t *testing.T) {
		view, err := handler.Update(openID, timelogapimodels.TimeLogData{PersonnelID: p.ID, LogDate: "2026-02-01", TimeIn: "08:00", TimeOut: "12:00"})
		require.Nil(t, err)
		require.False(t, view.IsOpen)
		require.Equal(t, "12:00", view.TimeOut)
	})
	t.Run("export ignores pagination", func(t *testing.T) {
		filter := timelogapimodels.TimeLogFilter{}
		filter.Limit = 1
		_, fileName, err := handler.Export(filter)
		require.Nil(t, err)
		require.Equal(t, "TIME_LOGS.xlsx", fileName)
		require.Equal(t, 2, renderer.rows)
	})
	t.Run("delete", func(t *testing.T) {
		require.Nil(t, handler.Delete(openID))
		_, err := handler.Get(openID)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
}
