package settingshandler

import (
	"context"
	"travel-order-backend/db"
	directorstore "travel-order-backend/lib/director/store"
	filestorage "travel-order-backend/lib/file-storage"
	ictadminstore "travel-order-backend/lib/ict-admin/store"
	personnelstore "travel-order-backend/lib/personnel/store"
	settingsstore "travel-order-backend/lib/settings/store"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/lib/utils/clock"
	"travel-order-backend/lib/utils/helpers"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	settingsapimodels "travel-order-backend/models/api/settings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const LogoURL = "/api/v1/branding/logo"

type Provider interface {
	GetBranding() (settingsapimodels.Branding, error)
	UpdateBranding(ctx context.Context, data settingsapimodels.BrandingUpdate, logo *apimodels.Upload) (settingsapimodels.Branding, error)
	Logo(ctx context.Context) (body []byte, contentType string, err error)
	ChangePassword(session models.Session, data settingsapimodels.ChangePassword) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB, filestorage.Instance, clock.Real())
}

func NewInstance(conn *gorm.DB, storage filestorage.Provider, clk clock.Clock) Provider {
	return &impl{
		store:          settingsstore.NewInstance(conn),
		adminStore:     ictadminstore.NewInstance(conn),
		personnelStore: personnelstore.NewInstance(conn),
		directorStore:  directorstore.NewInstance(conn),
		storage:        storage,
		clock:          clk,
	}
}

type impl struct {
	store          settingsstore.Provider
	adminStore     ictadminstore.Provider
	personnelStore personnelstore.Provider
	directorStore  directorstore.Provider
	storage        filestorage.Provider
	clock          clock.Clock
}

func (i impl) GetBranding() (settingsapimodels.Branding, error) {
	text, err := i.store.GetValue(models.BrandingLogoTextSetting, models.DefaultBrandingLogoText)
	if err != nil {
		return settingsapimodels.Branding{}, errors.Wrap(err, "failed to get logo text")
	}
	path, err := i.store.GetValue(models.BrandingLogoPathSetting, "")
	if err != nil {
		return settingsapimodels.Branding{}, errors.Wrap(err, "failed to get logo path")
	}
	if text == "" {
		text = models.DefaultBrandingLogoText
	}
	result := settingsapimodels.Branding{LogoText: text}
	if path != "" {
		result.LogoURL = LogoURL
	}
	return result, nil
}

func (i impl) UpdateBranding(ctx context.Context, data settingsapimodels.BrandingUpdate, logo *apimodels.Upload) (settingsapimodels.Branding, error) {
	if err := data.Validate(); err != nil {
		return settingsapimodels.Branding{}, err
	}
	if logo != nil {
		if err := logo.ValidateImage("logo"); err != nil {
			return settingsapimodels.Branding{}, err
		}
	}
	oldPath, err := i.store.GetValue(models.BrandingLogoPathSetting, "")
	if err != nil {
		return settingsapimodels.Branding{}, errors.Wrap(err, "failed to get logo path")
	}
	if err = i.store.Set(models.BrandingLogoTextSetting, data.LogoText); err != nil {
		return settingsapimodels.Branding{}, errors.Wrap(err, "failed to update logo text")
	}
	switch {
	case logo != nil:
		fileName := helpers.GetStoredFileName("logo", logo.FileName, i.clock.Now())
		path, err := i.storage.Store(ctx, models.BrandingFolder, fileName, logo.Body, logo.ContentType)
		if err != nil {
			return settingsapimodels.Branding{}, errors.Wrap(err, "failed to store logo")
		}
		if err = i.store.Set(models.BrandingLogoPathSetting, path); err != nil {
			i.removeFile(ctx, path)
			return settingsapimodels.Branding{}, errors.Wrap(err, "failed to update logo path")
		}
		i.removeFile(ctx, oldPath)
	case data.RemoveLogo:
		if err = i.store.Set(models.BrandingLogoPathSetting, ""); err != nil {
			return settingsapimodels.Branding{}, errors.Wrap(err, "failed to update logo path")
		}
		i.removeFile(ctx, oldPath)
	}
	return i.GetBranding()
}

func (i impl) Logo(ctx context.Context) ([]byte, string, error) {
	path, err := i.store.GetValue(models.BrandingLogoPathSetting, "")
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get logo path")
	}
	if path == "" {
		return nil, "", models.NewNotVisibleError("Logo not found.")
	}
	body, err := i.storage.Read(ctx, path)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, "", models.NewNotVisibleError("Logo not found.")
		}
		return nil, "", errors.Wrap(err, "failed to read logo")
	}
	return body, helpers.DetectContentType(path, body), nil
}

func (i impl) ChangePassword(session models.Session, data settingsapimodels.ChangePassword) error {
	if err := data.Validate(); err != nil {
		return err
	}
	var (
		hash   string
		update func(id string, updMap map[string]interface{}) error
	)
	switch session.Role {
	case models.IctAdminRole:
		rec, err := i.adminStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return accountError(err)
		}
		hash, update = rec.Password, i.adminStore.Update
	case models.PersonnelRole:
		rec, err := i.personnelStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return accountError(err)
		}
		hash, update = rec.Password, i.personnelStore.Update
	case models.DirectorRole:
		rec, err := i.directorStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return accountError(err)
		}
		hash, update = rec.Password, i.directorStore.Update
	default:
		return models.NewForbiddenError("")
	}
	if !authutils.CheckPassword(hash, data.CurrentPassword) {
		return models.NewFieldError("current_password", "The current password is incorrect.")
	}
	newHash, err := authutils.HashPassword(data.NewPassword)
	if err != nil {
		return err
	}
	if err = update(session.UserID, map[string]interface{}{"password": newHash}); err != nil {
		return errors.Wrap(err, "failed to update password")
	}
	log.WithField("user_id", session.UserID).WithField("role", session.Role).Info("password changed")
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

func accountError(err error) error {
	if err != nil {
		return errors.Wrap(err, "failed to get account")
	}
	return &models.UnauthorizedError{Message: "Account not found."}
}
