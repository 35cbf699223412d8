package personnelhandler

import (
	"context"
	"travel-order-backend/db"
	filestorage "travel-order-backend/lib/file-storage"
	personnelstore "travel-order-backend/lib/personnel/store"
	travelorderstore "travel-order-backend/lib/travel-order/store"
	accountquery "travel-order-backend/lib/utils/account-query"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/lib/utils/clock"
	"travel-order-backend/lib/utils/helpers"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	accountapimodels "travel-order-backend/models/api/account"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgNotFound = "Personnel not found."

type Provider interface {
	Create(ctx context.Context, data accountapimodels.PersonnelData, avatar *apimodels.Upload) (accountapimodels.PersonnelView, error)
	Get(id string) (accountapimodels.PersonnelView, error)
	Update(ctx context.Context, id string, data accountapimodels.PersonnelData, avatar *apimodels.Upload) (accountapimodels.PersonnelView, error)
	Delete(ctx context.Context, id string) error
	List(filter accountapimodels.AccountFilter) (list []accountapimodels.PersonnelView, rowCount int64, stats accountapimodels.AccountStats, err error)
	Avatar(ctx context.Context, id string) (body []byte, contentType string, err error)
	Profile(session models.Session) (accountapimodels.PersonnelView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, filestorage.Instance, clock.Real())
}

func NewInstance(conn *gorm.DB, storage filestorage.Provider, clk clock.Clock) Provider {
	return &impl{
		db:         conn,
		storage:    storage,
		clock:      clk,
		store:      personnelstore.NewInstance(conn),
		orderStore: travelorderstore.NewInstance(conn),
	}
}

type impl struct {
	db         *gorm.DB
	storage    filestorage.Provider
	clock      clock.Clock
	store      personnelstore.Provider
	orderStore travelorderstore.Provider
}

func (i impl) Create(ctx context.Context, data accountapimodels.PersonnelData, avatar *apimodels.Upload) (accountapimodels.PersonnelView, error) {
	if err := i.validate(data, avatar, "", true); err != nil {
		return accountapimodels.PersonnelView{}, err
	}
	hash, err := authutils.HashPassword(data.Password)
	if err != nil {
		return accountapimodels.PersonnelView{}, err
	}
	rec := dbmodels.Personnel{}
	accountquery.Fill(&rec.Account, data.AccountData, hash)
	id, err := i.store.Create(rec)
	if err != nil {
		return accountapimodels.PersonnelView{}, errors.Wrap(err, "failed to create personnel")
	}
	if avatar != nil {
		if err = i.replaceAvatar(ctx, id, "", *avatar); err != nil {
			return accountapimodels.PersonnelView{}, err
		}
	}
	log.WithField("personnel_id", id).Info("personnel account created")
	return i.Get(id)
}

func (i impl) Get(id string) (accountapimodels.PersonnelView, error) {
	rec, err := i.get(id)
	if err != nil {
		return accountapimodels.PersonnelView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) Update(ctx context.Context, id string, data accountapimodels.PersonnelData, avatar *apimodels.Upload) (accountapimodels.PersonnelView, error) {
	rec, err := i.get(id)
	if err != nil {
		return accountapimodels.PersonnelView{}, err
	}
	if err = i.validate(data, avatar, id, false); err != nil {
		return accountapimodels.PersonnelView{}, err
	}
	updMap := accountquery.Values(data.AccountData)
	if data.Password != "" {
		hash, err := authutils.HashPassword(data.Password)
		if err != nil {
			return accountapimodels.PersonnelView{}, err
		}
		updMap["password"] = hash
	}
	if err = i.store.Update(id, updMap); err != nil {
		return accountapimodels.PersonnelView{}, errors.Wrap(err, "failed to update personnel")
	}
	switch {
	case avatar != nil:
		if err = i.replaceAvatar(ctx, id, rec.AvatarPath, *avatar); err != nil {
			return accountapimodels.PersonnelView{}, err
		}
	case data.RemoveAvatar && rec.AvatarPath != "":
		if err = i.store.Update(id, map[string]interface{}{"avatar_path": ""}); err != nil {
			return accountapimodels.PersonnelView{}, errors.Wrap(err, "failed to remove avatar")
		}
		i.removeFile(ctx, rec.AvatarPath)
	}
	return i.Get(id)
}

func (i impl) Delete(ctx context.Context, id string) error {
	rec, err := i.get(id)
	if err != nil {
		return err
	}
	count, err := i.orderStore.CountByPersonnel(id)
	if err != nil {
		return errors.Wrap(err, "failed to count travel orders")
	}
	if count != 0 {
		return models.NewInvalidTransitionError("Personnel with travel orders cannot be deleted. Deactivate the account instead.")
	}
	if err = i.store.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete personnel")
	}
	i.removeFile(ctx, rec.AvatarPath)
	log.WithField("personnel_id", id).Info("personnel account deleted")
	return nil
}

func (i impl) List(filter accountapimodels.AccountFilter) ([]accountapimodels.PersonnelView, int64, accountapimodels.AccountStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, accountapimodels.AccountStats{}, err
	}
	list, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, accountapimodels.AccountStats{}, errors.Wrap(err, "failed to get personnel list")
	}
	stats, err := i.store.Stats()
	if err != nil {
		return nil, 0, accountapimodels.AccountStats{}, errors.Wrap(err, "failed to get personnel stats")
	}
	result := make([]accountapimodels.PersonnelView, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, rowCount, stats, nil
}

func (i impl) Avatar(ctx context.Context, id string) ([]byte, string, error) {
	rec, err := i.get(id)
	if err != nil {
		return nil, "", err
	}
	if rec.AvatarPath == "" {
		return nil, "", models.NewNotVisibleError("Avatar not found.")
	}
	body, err := i.storage.Read(ctx, rec.AvatarPath)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, "", models.NewNotVisibleError("Avatar not found.")
		}
		return nil, "", errors.Wrap(err, "failed to read avatar")
	}
	return body, helpers.DetectContentType(rec.AvatarPath, body), nil
}

func (i impl) Profile(session models.Session) (accountapimodels.PersonnelView, error) {
	if !session.IsPersonnel() {
		return accountapimodels.PersonnelView{}, models.NewForbiddenError("")
	}
	return i.Get(session.UserID)
}

func (i impl) get(id string) (*dbmodels.Personnel, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get personnel")
	}
	if rec == nil {
		return nil, models.NewNotVisibleError(msgNotFound)
	}
	return rec, nil
}

func (i impl) validate(data accountapimodels.PersonnelData, avatar *apimodels.Upload, id string, isCreate bool) error {
	if err := data.Validate(isCreate); err != nil {
		return err
	}
	if avatar != nil {
		if err := avatar.ValidateImage("avatar"); err != nil {
			return err
		}
	}
	taken, err := accountquery.UsernameTaken(i.db, data.Username, id)
	if err != nil {
		return errors.Wrap(err, "failed to check username")
	}
	if taken {
		return models.NewFieldError("username", "The username has already been taken.")
	}
	return nil
}

func (i impl) replaceAvatar(ctx context.Context, id, oldPath string, avatar apimodels.Upload) error {
	fileName := helpers.GetStoredFileName("avatar_"+id, avatar.FileName, i.clock.Now())
	path, err := i.storage.Store(ctx, models.AvatarFolder, fileName, avatar.Body, avatar.ContentType)
	if err != nil {
		return errors.Wrap(err, "failed to store avatar")
	}
	if err = i.store.Update(id, map[string]interface{}{"avatar_path": path}); err != nil {
		i.removeFile(ctx, path)
		return errors.Wrap(err, "failed to update avatar")
	}
	i.removeFile(ctx, oldPath)
	return nil
}

func (i impl) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := i.storage.Delete(ctx, path); err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to delete stored file")
	}
}
