package directorhandler

import (
	"context"
	"travel-order-backend/db"
	directorstore "travel-order-backend/lib/director/store"
	filestorage "travel-order-backend/lib/file-storage"
	approvalstore "travel-order-backend/lib/travel-order/approval-store"
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

const msgNotFound = "Director not found."

type Provider interface {
	Create(ctx context.Context, data accountapimodels.DirectorData, avatar, signature *apimodels.Upload) (accountapimodels.DirectorView, error)
	Get(id string) (accountapimodels.DirectorView, error)
	Update(ctx context.Context, id string, data accountapimodels.DirectorData, avatar, signature *apimodels.Upload) (accountapimodels.DirectorView, error)
	Delete(ctx context.Context, id string) error
	List(filter accountapimodels.AccountFilter) (list []accountapimodels.DirectorView, rowCount int64, stats accountapimodels.AccountStats, err error)
	Avatar(ctx context.Context, id string) (body []byte, contentType string, err error)
	Signature(ctx context.Context, id string) (body []byte, contentType string, err error)
	Profile(session models.Session) (accountapimodels.DirectorView, error)
	UploadSignature(ctx context.Context, session models.Session, signature apimodels.Upload) (accountapimodels.DirectorView, error)
	DeleteSignature(ctx context.Context, session models.Session) (accountapimodels.DirectorView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, filestorage.Instance, clock.Real())
}

func NewInstance(conn *gorm.DB, storage filestorage.Provider, clk clock.Clock) Provider {
	return &impl{
		db:            conn,
		storage:       storage,
		clock:         clk,
		store:         directorstore.NewInstance(conn),
		approvalStore: approvalstore.NewInstance(conn),
	}
}

type impl struct {
	db            *gorm.DB
	storage       filestorage.Provider
	clock         clock.Clock
	store         directorstore.Provider
	approvalStore approvalstore.Provider
}

func (i impl) Create(ctx context.Context, data accountapimodels.DirectorData, avatar, signature *apimodels.Upload) (accountapimodels.DirectorView, error) {
	if err := i.validate(data, avatar, signature, "", true); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	hash, err := authutils.HashPassword(data.Password)
	if err != nil {
		return accountapimodels.DirectorView{}, err
	}
	rec := dbmodels.Director{DirectorLevel: data.DirectorLevel}
	accountquery.Fill(&rec.Account, data.AccountData, hash)
	id, err := i.store.Create(rec)
	if err != nil {
		return accountapimodels.DirectorView{}, errors.Wrap(err, "failed to create director")
	}
	if err = i.storeImages(ctx, id, dbmodels.Director{}, avatar, signature); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	log.WithField("director_id", id).Info("director account created")
	return i.Get(id)
}

func (i impl) Get(id string) (accountapimodels.DirectorView, error) {
	rec, err := i.get(id)
	if err != nil {
		return accountapimodels.DirectorView{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) Update(ctx context.Context, id string, data accountapimodels.DirectorData, avatar, signature *apimodels.Upload) (accountapimodels.DirectorView, error) {
	rec, err := i.get(id)
	if err != nil {
		return accountapimodels.DirectorView{}, err
	}
	if err = i.validate(data, avatar, signature, id, false); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	updMap := accountquery.Values(data.AccountData)
	updMap["director_level"] = data.DirectorLevel
	if data.Password != "" {
		hash, err := authutils.HashPassword(data.Password)
		if err != nil {
			return accountapimodels.DirectorView{}, err
		}
		updMap["password"] = hash
	}
	if err = i.store.Update(id, updMap); err != nil {
		return accountapimodels.DirectorView{}, errors.Wrap(err, "failed to update director")
	}
	if err = i.storeImages(ctx, id, *rec, avatar, signature); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	if avatar == nil && data.RemoveAvatar && rec.AvatarPath != "" {
		if err = i.store.Update(id, map[string]interface{}{"avatar_path": ""}); err != nil {
			return accountapimodels.DirectorView{}, errors.Wrap(err, "failed to remove avatar")
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
	count, err := i.approvalStore.CountByDirector(id)
	if err != nil {
		return errors.Wrap(err, "failed to count approvals")
	}
	if count != 0 {
		return models.NewInvalidTransitionError("Directors assigned to travel orders cannot be deleted. Deactivate the account instead.")
	}
	if err = i.store.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete director")
	}
	i.removeFile(ctx, rec.AvatarPath)
	i.removeFile(ctx, rec.SignaturePath)
	log.WithField("director_id", id).Info("director account deleted")
	return nil
}

func (i impl) List(filter accountapimodels.AccountFilter) ([]accountapimodels.DirectorView, int64, accountapimodels.AccountStats, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, accountapimodels.AccountStats{}, err
	}
	list, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, accountapimodels.AccountStats{}, errors.Wrap(err, "failed to get director list")
	}
	stats, err := i.store.Stats()
	if err != nil {
		return nil, 0, accountapimodels.AccountStats{}, errors.Wrap(err, "failed to get director stats")
	}
	result := make([]accountapimodels.DirectorView, 0, len(list))
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
	return i.read(ctx, rec.AvatarPath, "Avatar not found.")
}

func (i impl) Signature(ctx context.Context, id string) ([]byte, string, error) {
	rec, err := i.get(id)
	if err != nil {
		return nil, "", err
	}
	return i.read(ctx, rec.SignaturePath, "Signature not found.")
}

func (i impl) Profile(session models.Session) (accountapimodels.DirectorView, error) {
	if !session.IsDirector() {
		return accountapimodels.DirectorView{}, models.NewForbiddenError("")
	}
	return i.Get(session.UserID)
}

func (i impl) UploadSignature(ctx context.Context, session models.Session, signature apimodels.Upload) (accountapimodels.DirectorView, error) {
	if !session.IsDirector() {
		return accountapimodels.DirectorView{}, models.NewForbiddenError("")
	}
	rec, err := i.get(session.UserID)
	if err != nil {
		return accountapimodels.DirectorView{}, err
	}
	if err = signature.ValidateImage("signature"); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	if err = i.storeImages(ctx, rec.ID, *rec, nil, &signature); err != nil {
		return accountapimodels.DirectorView{}, err
	}
	return i.Get(rec.ID)
}

func (i impl) DeleteSignature(ctx context.Context, session models.Session) (accountapimodels.DirectorView, error) {
	if !session.IsDirector() {
		return accountapimodels.DirectorView{}, models.NewForbiddenError("")
	}
	rec, err := i.get(session.UserID)
	if err != nil {
		return accountapimodels.DirectorView{}, err
	}
	if rec.SignaturePath != "" {
		if err = i.store.Update(rec.ID, map[string]interface{}{"signature_path": ""}); err != nil {
			return accountapimodels.DirectorView{}, errors.Wrap(err, "failed to remove signature")
		}
		i.removeFile(ctx, rec.SignaturePath)
	}
	return i.Get(rec.ID)
}

func (i impl) get(id string) (*dbmodels.Director, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get director")
	}
	if rec == nil {
		return nil, models.NewNotVisibleError(msgNotFound)
	}
	return rec, nil
}

func (i impl) validate(data accountapimodels.DirectorData, avatar, signature *apimodels.Upload, id string, isCreate bool) error {
	if err := data.Validate(isCreate); err != nil {
		return err
	}
	if avatar != nil {
		if err := avatar.ValidateImage("avatar"); err != nil {
			return err
		}
	}
	if signature != nil {
		if err := signature.ValidateImage("signature"); err != nil {
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

// storeImages uploads the given images and swaps the stored paths; replaced objects are removed afterwards.
func (i impl) storeImages(ctx context.Context, id string, current dbmodels.Director, avatar, signature *apimodels.Upload) error {
	updMap := map[string]interface{}{}
	var stored, replaced []string
	if avatar != nil {
		fileName := helpers.GetStoredFileName("avatar_"+id, avatar.FileName, i.clock.Now())
		path, err := i.storage.Store(ctx, models.AvatarFolder, fileName, avatar.Body, avatar.ContentType)
		if err != nil {
			return errors.Wrap(err, "failed to store avatar")
		}
		updMap["avatar_path"] = path
		stored = append(stored, path)
		replaced = append(replaced, current.AvatarPath)
	}
	if signature != nil {
		fileName := helpers.GetStoredFileName("signature_"+id, signature.FileName, i.clock.Now())
		path, err := i.storage.Store(ctx, models.SignatureFolder, fileName, signature.Body, signature.ContentType)
		if err != nil {
			for _, p := range stored {
				i.removeFile(ctx, p)
			}
			return errors.Wrap(err, "failed to store signature")
		}
		updMap["signature_path"] = path
		stored = append(stored, path)
		replaced = append(replaced, current.SignaturePath)
	}
	if len(updMap) == 0 {
		return nil
	}
	if err := i.store.Update(id, updMap); err != nil {
		for _, p := range stored {
			i.removeFile(ctx, p)
		}
		return errors.Wrap(err, "failed to update images")
	}
	for _, p := range replaced {
		i.removeFile(ctx, p)
	}
	return nil
}

func (i impl) read(ctx context.Context, path, notFound string) ([]byte, string, error) {
	if path == "" {
		return nil, "", models.NewNotVisibleError(notFound)
	}
	body, err := i.storage.Read(ctx, path)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, "", models.NewNotVisibleError(notFound)
		}
		return nil, "", errors.Wrap(err, "failed to read file")
	}
	return body, helpers.DetectContentType(path, body), nil
}

func (i impl) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := i.storage.Delete(ctx, path); err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to delete stored file")
	}
}
