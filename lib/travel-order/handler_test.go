package travelorderhandler

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
	"travel-order-backend/lib/access"
	filestorage "travel-order-backend/lib/file-storage"
	"travel-order-backend/lib/utils/clock"
	testdb "travel-order-backend/lib/utils/test-db"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRenderer struct {
	includeCtt bool
}

func (s *stubRenderer) TravelOrderPDF(_ context.Context, order dbmodels.TravelOrder, includeCtt bool) ([]byte, string, error) {
	s.includeCtt = includeCtt
	return []byte("%PDF-" + order.ID), "TO.pdf", nil
}

func (s *stubRenderer) TravelOrderXLS(_ context.Context, order dbmodels.TravelOrder, includeCtt bool) (*bytes.Buffer, string, error) {
	s.includeCtt = includeCtt
	return bytes.NewBufferString(order.ID), "TO.xlsx", nil
}

func (s *stubRenderer) TimeLogsXLS(_ []dbmodels.TimeLog) (*bytes.Buffer, string, error) {
	return &bytes.Buffer{}, "TIME_LOGS.xlsx", nil
}

type fixture struct {
	conn      *gorm.DB
	storage   *filestorage.MemoryStorage
	renderer  *stubRenderer
	handler   Provider
	personnel models.Session
	other     models.Session
	director  models.Session
	admin     models.Session
	directors []dbmodels.Director
}

func newFixture(t *testing.T) fixture {
	conn := testdb.Open(t)
	storage := filestorage.NewMemoryInstance()
	renderer := &stubRenderer{}
	clk := clock.NewManual(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	p := testdb.CreatePersonnel(t, conn, "juan")
	o := testdb.CreatePersonnel(t, conn, "maria")
	d1 := testdb.CreateDirector(t, conn, "recommender")
	d2 := testdb.CreateDirector(t, conn, "approver")
	return fixture{
		conn:      conn,
		storage:   storage,
		renderer:  renderer,
		handler:   NewInstance(conn, storage, access.NewInstance(conn), renderer, clk),
		personnel: models.Session{UserID: p.ID, Role: models.PersonnelRole},
		other:     models.Session{UserID: o.ID, Role: models.PersonnelRole},
		director:  models.Session{UserID: d1.ID, Role: models.DirectorRole},
		admin:     models.Session{UserID: "admin", Role: models.IctAdminRole},
		directors: []dbmodels.Director{d1, d2},
	}
}

func orderData() travelorderapimodels.TravelOrderData {
	amount := 800.0
	return travelorderapimodels.TravelOrderData{
		TravelPurpose:    "Field inspection",
		Destination:      "Davao City",
		OfficialStation:  "Manila",
		StartDate:        "2026-04-01",
		EndDate:          "2026-04-03",
		Objectives:       "Inspect the project site",
		PerDiemsExpenses: &amount,
	}
}

func upload(name string, attachmentType models.AttachmentType) travelorderapimodels.AttachmentUpload {
	return travelorderapimodels.AttachmentUpload{
		Upload: apimodels.Upload{
			FileName:    name,
			ContentType: "application/pdf",
			Body:        []byte("%PDF-1.4 " + name),
		},
		Type: attachmentType,
	}
}

func (f fixture) setPending(t *testing.T, id string) {
	err := f.conn.Model(&dbmodels.TravelOrder{}).
		Where("id = ?", id).
		Update("status", models.TOStatusPending).
		Error
	require.Nil(t, err)
}

func TestCreate(t *testing.T) {
	t.Run("draft with attachments", func(t *testing.T) {
		f := newFixture(t)
		files := []travelorderapimodels.AttachmentUpload{
			upload("itinerary.pdf", models.AttachmentItinerary),
			upload("memo.pdf", "unknown"),
		}
		view, err := f.handler.Create(context.TODO(), f.personnel, orderData(), files)
		require.Nil(t, err)
		require.Equal(t, models.TOStatusDraft, view.Status)
		require.Equal(t, "2026-04-01", view.StartDate)
		require.Len(t, view.Attachments, 2)
		require.Equal(t, models.AttachmentItinerary, view.Attachments[0].Type)
		require.Equal(t, models.AttachmentOther, view.Attachments[1].Type)
		require.Equal(t, 2, f.storage.Count())
	})
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		data := orderData()
		data.EndDate = "2026-03-01"
		_, err := f.handler.Create(context.TODO(), f.personnel, data, nil)
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "end_date")
		require.Equal(t, 0, f.storage.Count())
	})
	t.Run("oversized attachment", func(t *testing.T) {
		f := newFixture(t)
		big := upload("big.pdf", models.AttachmentOther)
		big.Body = make([]byte, models.MaxAttachmentSize+1)
		_, err := f.handler.Create(context.TODO(), f.personnel, orderData(), []travelorderapimodels.AttachmentUpload{big})
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "attachments.0")
	})
	t.Run("director cannot create", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Create(context.TODO(), f.director, orderData(), nil)
		forbidden := &models.ForbiddenError{}
		require.ErrorAs(t, err, &forbidden)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("replace attachments", func(t *testing.T) {
		f := newFixture(t)
		view, err := f.handler.Create(context.TODO(), f.personnel, orderData(),
			[]travelorderapimodels.AttachmentUpload{upload("old.pdf", models.AttachmentMemorandum)})
		require.Nil(t, err)

		data := travelorderapimodels.TravelOrderUpdate{
			TravelOrderData:     orderData(),
			DeleteAttachmentIDs: []string{view.Attachments[0].ID},
		}
		data.Destination = "Iloilo City"
		updated, err := f.handler.Update(context.TODO(), f.personnel, view.ID, data,
			[]travelorderapimodels.AttachmentUpload{upload("new.pdf", models.AttachmentInvitation)})
		require.Nil(t, err)
		require.Equal(t, "Iloilo City", updated.Destination)
		require.Len(t, updated.Attachments, 1)
		require.Equal(t, "new.pdf", updated.Attachments[0].FileName)
		require.Equal(t, 1, f.storage.Count())
	})
	t.Run("pending order is read only", func(t *testing.T) {
		f := newFixture(t)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		f.setPending(t, draft.ID)
		_, err := f.handler.Update(context.TODO(), f.personnel, draft.ID,
			travelorderapimodels.TravelOrderUpdate{TravelOrderData: orderData()}, nil)
		transition := &models.InvalidTransitionError{}
		require.ErrorAs(t, err, &transition)
	})
	t.Run("foreign order is not visible", func(t *testing.T) {
		f := newFixture(t)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		_, err := f.handler.Update(context.TODO(), f.other, draft.ID,
			travelorderapimodels.TravelOrderUpdate{TravelOrderData: orderData()}, nil)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
}

func TestDelete(t *testing.T) {
	t.Run("owner deletes draft and files", func(t *testing.T) {
		f := newFixture(t)
		view, err := f.handler.Create(context.TODO(), f.personnel, orderData(),
			[]travelorderapimodels.AttachmentUpload{upload("memo.pdf", models.AttachmentMemorandum)})
		require.Nil(t, err)
		require.Nil(t, f.handler.Delete(context.TODO(), f.personnel, view.ID))
		require.Equal(t, 0, f.storage.Count())
		_, err = f.handler.Get(f.personnel, view.ID)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("non draft fails for owner and admin", func(t *testing.T) {
		f := newFixture(t)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		f.setPending(t, draft.ID)
		for _, session := range []models.Session{f.personnel, f.admin} {
			err := f.handler.Delete(context.TODO(), session, draft.ID)
			transition := &models.InvalidTransitionError{}
			require.ErrorAs(t, err, &transition)
		}
	})
	t.Run("admin may not delete a draft", func(t *testing.T) {
		f := newFixture(t)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		err := f.handler.Delete(context.TODO(), f.admin, draft.ID)
		forbidden := &models.ForbiddenError{}
		require.ErrorAs(t, err, &forbidden)
	})
	t.Run("stranger gets not found", func(t *testing.T) {
		f := newFixture(t)
		draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		err := f.handler.Delete(context.TODO(), f.other, draft.ID)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
}

func TestList(t *testing.T) {
	f := newFixture(t)
	testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	pending := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
	f.setPending(t, pending.ID)
	testdb.CreateDraft(t, f.conn, f.other.UserID)

	t.Run("personnel sees own", func(t *testing.T) {
		list, rowCount, err := f.handler.List(f.personnel, travelorderapimodels.ListFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(2), rowCount)
		require.Len(t, list, 2)
	})
	t.Run("status filter", func(t *testing.T) {
		list, _, err := f.handler.List(f.personnel, travelorderapimodels.ListFilter{Status: models.TOStatusPending})
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, pending.ID, list[0].ID)
	})
	t.Run("admin sees all", func(t *testing.T) {
		_, rowCount, err := f.handler.List(f.admin, travelorderapimodels.ListFilter{})
		require.Nil(t, err)
		require.Equal(t, int64(3), rowCount)
	})
	t.Run("admin filters by personnel", func(t *testing.T) {
		_, rowCount, err := f.handler.List(f.admin, travelorderapimodels.ListFilter{PersonnelID: f.other.UserID})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
	})
	t.Run("director forbidden", func(t *testing.T) {
		_, _, err := f.handler.List(f.director, travelorderapimodels.ListFilter{})
		forbidden := &models.ForbiddenError{}
		require.ErrorAs(t, err, &forbidden)
	})
	t.Run("invalid status", func(t *testing.T) {
		_, _, err := f.handler.List(f.personnel, travelorderapimodels.ListFilter{Status: "archived"})
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
	})
}

func TestAttachments(t *testing.T) {
	f := newFixture(t)
	draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)

	view, err := f.handler.AddAttachments(context.TODO(), f.personnel, draft.ID,
		[]travelorderapimodels.AttachmentUpload{upload("invite.pdf", models.AttachmentInvitation)})
	require.Nil(t, err)
	require.Len(t, view.Attachments, 1)
	attachmentID := view.Attachments[0].ID

	t.Run("download by admin", func(t *testing.T) {
		body, attachment, err := f.handler.GetAttachment(context.TODO(), f.admin, draft.ID, attachmentID)
		require.Nil(t, err)
		require.Equal(t, "invite.pdf", attachment.FileName)
		require.Equal(t, "%PDF-1.4 invite.pdf", string(body))
	})
	t.Run("stranger cannot download", func(t *testing.T) {
		_, _, err := f.handler.GetAttachment(context.TODO(), f.other, draft.ID, attachmentID)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("empty upload", func(t *testing.T) {
		_, err := f.handler.AddAttachments(context.TODO(), f.personnel, draft.ID, nil)
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
	})
	t.Run("delete", func(t *testing.T) {
		require.Nil(t, f.handler.DeleteAttachment(context.TODO(), f.personnel, draft.ID, attachmentID))
		require.Equal(t, 0, f.storage.Count())
		err := f.handler.DeleteAttachment(context.TODO(), f.personnel, draft.ID, attachmentID)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("order submitted after the draft check", func(t *testing.T) {
		order := testdb.CreateDraft(t, f.conn, f.personnel.UserID)
		view, err := f.handler.AddAttachments(context.TODO(), f.personnel, order.ID,
			[]travelorderapimodels.AttachmentUpload{upload("memo.pdf", models.AttachmentInvitation)})
		require.Nil(t, err)
		kept := view.Attachments[0].ID

		var once sync.Once
		err = f.conn.Callback().Query().After("gorm:query").Register("test:competing_submit", func(tx *gorm.DB) {
			if tx.Statement.Table != "travel_orders" {
				return
			}
			once.Do(func() {
				err := tx.Session(&gorm.Session{NewDB: true}).
					Model(&dbmodels.TravelOrder{}).
					Where("id = ?", order.ID).
					Update("status", models.TOStatusPending).
					Error
				require.Nil(t, err)
			})
		})
		require.Nil(t, err)
		defer func() {
			require.Nil(t, f.conn.Callback().Query().Remove("test:competing_submit"))
		}()

		err = f.handler.DeleteAttachment(context.TODO(), f.personnel, order.ID, kept)
		transition := &models.InvalidTransitionError{}
		require.ErrorAs(t, err, &transition)
		require.Equal(t, 1, f.storage.Count())
		_, attachment, err := f.handler.GetAttachment(context.TODO(), f.personnel, order.ID, kept)
		require.Nil(t, err)
		require.Equal(t, "memo.pdf", attachment.FileName)

		_, err = f.handler.AddAttachments(context.TODO(), f.personnel, order.ID,
			[]travelorderapimodels.AttachmentUpload{upload("late.pdf", models.AttachmentInvitation)})
		require.ErrorAs(t, err, &transition)
		require.Equal(t, 1, f.storage.Count())
	})
}

func TestAvailableDirectors(t *testing.T) {
	f := newFixture(t)
	testdb.DeactivateDirector(t, f.conn, f.directors[1].ID)
	list, err := f.handler.AvailableDirectors()
	require.Nil(t, err)
	require.Len(t, list, 1)
	require.Equal(t, f.directors[0].ID, list[0].ID)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	draft := testdb.CreateDraft(t, f.conn, f.personnel.UserID)

	body, fileName, err := f.handler.ExportPDF(context.TODO(), f.personnel, draft.ID, travelorderapimodels.ExportOptions{IncludeCtt: true})
	require.Nil(t, err)
	require.Equal(t, "TO.pdf", fileName)
	require.Equal(t, "%PDF-"+draft.ID, string(body))
	require.True(t, f.renderer.includeCtt)

	buf, _, err := f.handler.ExportXLS(context.TODO(), f.admin, draft.ID, travelorderapimodels.ExportOptions{})
	require.Nil(t, err)
	require.Equal(t, draft.ID, buf.String())
	require.False(t, f.renderer.includeCtt)

	_, _, err = f.handler.ExportPDF(context.TODO(), f.director, draft.ID, travelorderapimodels.ExportOptions{})
	notVisible := &models.NotVisibleError{}
	require.ErrorAs(t, err, &notVisible)
}
