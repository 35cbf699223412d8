package personnelhandler

import (
	"context"
	"testing"
	"time"
	filestorage "travel-order-backend/lib/file-storage"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/lib/utils/clock"
	testdb "travel-order-backend/lib/utils/test-db"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	accountapimodels "travel-order-backend/models/api/account"
	dbmodels "travel-order-backend/models/db"

	"github.com/stretchr/testify/require"
)

func personnelData(username string) accountapimodels.PersonnelData {
	return accountapimodels.PersonnelData{
		AccountData: accountapimodels.AccountData{
			Username:  username,
			Password:  "password123",
			Email:     username + "@example.com",
			FirstName: "Juan",
			LastName:  "Dela Cruz",
			Position:  "Engineer II",
		},
	}
}

func avatarUpload() *apimodels.Upload {
	return &apimodels.Upload{FileName: "me.png", ContentType: "image/png", Body: []byte("\x89PNG avatar")}
}

func TestPersonnelHandler(t *testing.T) {
	conn := testdb.Open(t)
	storage := filestorage.NewMemoryInstance()
	handler := NewInstance(conn, storage, clock.NewManual(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)))
	testdb.CreateDirector(t, conn, "taken")

	var id string
	t.Run("create with avatar", func(t *testing.T) {
		view, err := handler.Create(context.TODO(), personnelData("juan"), avatarUpload())
		require.Nil(t, err)
		require.Equal(t, "Juan Dela Cruz", view.FullName)
		require.True(t, view.IsActive)
		require.True(t, view.HasAvatar)
		id = view.ID

		rec := dbmodels.Personnel{}
		require.Nil(t, conn.Where("id = ?", id).First(&rec).Error)
		require.True(t, authutils.CheckPassword(rec.Password, "password123"))
	})
	t.Run("username unique across roles", func(t *testing.T) {
		_, err := handler.Create(context.TODO(), personnelData("taken"), nil)
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "username")
	})
	t.Run("avatar type", func(t *testing.T) {
		avatar := avatarUpload()
		avatar.FileName = "me.pdf"
		_, err := handler.Create(context.TODO(), personnelData("pedro"), avatar)
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "avatar")
	})
	t.Run("deactivate requires reason", func(t *testing.T) {
		data := personnelData("juan")
		inactive := false
		data.IsActive = &inactive
		data.Password = ""
		_, err := handler.Update(context.TODO(), id, data, nil)
		verr := &models.ValidationError{}
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "reason_for_deactivation")

		data.ReasonForDeactivation = "Resigned"
		view, err := handler.Update(context.TODO(), id, data, nil)
		require.Nil(t, err)
		require.False(t, view.IsActive)
		require.Equal(t, "Resigned", view.ReasonForDeactivation)
	})
	t.Run("update without is_active keeps the account inactive", func(t *testing.T) {
		data := personnelData("juan")
		data.Password = ""
		data.Email = "juan.delacruz@example.com"
		view, err := handler.Update(context.TODO(), id, data, nil)
		require.Nil(t, err)
		require.False(t, view.IsActive)
		require.Equal(t, "Resigned", view.ReasonForDeactivation)
		require.Equal(t, "juan.delacruz@example.com", view.Email)
	})
	t.Run("replace avatar", func(t *testing.T) {
		data := personnelData("juan")
		data.Password = ""
		_, err := handler.Update(context.TODO(), id, data, avatarUpload())
		require.Nil(t, err)
		require.Equal(t, 1, storage.Count())
		body, contentType, err := handler.Avatar(context.TODO(), id)
		require.Nil(t, err)
		require.Equal(t, "\x89PNG avatar", string(body))
		require.Equal(t, "image/png", contentType)
	})
	t.Run("list and stats", func(t *testing.T) {
		testdb.CreatePersonnel(t, conn, "maria")
		list, rowCount, stats, err := handler.List(accountapimodels.AccountFilter{Status: models.AccountActive})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
		require.Equal(t, "maria", list[0].Username)
		require.Equal(t, accountapimodels.AccountStats{Total: 2, Active: 1, Inactive: 1}, stats)

		_, rowCount, _, err = handler.List(accountapimodels.AccountFilter{Search: "DELA"})
		require.Nil(t, err)
		require.Equal(t, int64(1), rowCount)
	})
	t.Run("reactivate clears the reason", func(t *testing.T) {
		data := personnelData("juan")
		data.Password = ""
		active := true
		data.IsActive = &active
		view, err := handler.Update(context.TODO(), id, data, nil)
		require.Nil(t, err)
		require.True(t, view.IsActive)
		require.Empty(t, view.ReasonForDeactivation)
	})
	t.Run("remove avatar", func(t *testing.T) {
		data := personnelData("juan")
		data.Password = ""
		data.RemoveAvatar = true
		view, err := handler.Update(context.TODO(), id, data, nil)
		require.Nil(t, err)
		require.False(t, view.HasAvatar)
		require.True(t, view.IsActive)
		require.Equal(t, 0, storage.Count())
		_, _, err = handler.Avatar(context.TODO(), id)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
	t.Run("profile", func(t *testing.T) {
		view, err := handler.Profile(models.Session{UserID: id, Role: models.PersonnelRole})
		require.Nil(t, err)
		require.Equal(t, id, view.ID)
		_, err = handler.Profile(models.Session{UserID: id, Role: models.DirectorRole})
		forbidden := &models.ForbiddenError{}
		require.ErrorAs(t, err, &forbidden)
	})
	t.Run("delete refused with travel orders", func(t *testing.T) {
		owner := testdb.CreatePersonnel(t, conn, "owner")
		testdb.CreateDraft(t, conn, owner.ID)
		err := handler.Delete(context.TODO(), owner.ID)
		transition := &models.InvalidTransitionError{}
		require.ErrorAs(t, err, &transition)
	})
	t.Run("delete", func(t *testing.T) {
		require.Nil(t, handler.Delete(context.TODO(), id))
		require.Equal(t, 0, storage.Count())
		_, err := handler.Get(id)
		notVisible := &models.NotVisibleError{}
		require.ErrorAs(t, err, &notVisible)
	})
}
