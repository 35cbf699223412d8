package authhandler

import (
	"strings"
	"time"
	"travel-order-backend/config"
	"travel-order-backend/db"
	revokedstore "travel-order-backend/lib/auth/revoked-store"
	directorstore "travel-order-backend/lib/director/store"
	ictadminstore "travel-order-backend/lib/ict-admin/store"
	personnelstore "travel-order-backend/lib/personnel/store"
	"travel-order-backend/lib/rbac"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/lib/utils/clock"
	initchecker "travel-order-backend/lib/utils/init-checker"
	"travel-order-backend/models"
	authapimodels "travel-order-backend/models/api/auth"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgInvalidCredentials = "Invalid credentials"

type Provider interface {
	Login(data authapimodels.LoginRequest) (authapimodels.LoginResponse, error)
	Logout(tokenID string, expiresAt time.Time) error
	// LogoutAll invalidates every token issued to the caller so far.
	LogoutAll(session models.Session) error
	Me(session models.Session) (authapimodels.MeResponse, error)
	IsRevoked(tokenID string) (bool, error)
	// IsTokenActive reports whether a verified token is neither revoked nor outdated by LogoutAll.
	IsTokenActive(session models.Session, tokenID string) (bool, error)
	PurgeExpired() error
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"rbac", rbac.Instance,
	)
	Instance = NewInstance(
		db.DB,
		rbac.Instance,
		clock.Real(),
		config.Conf.Auth.JWTSecret,
		time.Second*time.Duration(config.Conf.Auth.JWTExpireInSec),
	)
}

func NewInstance(conn *gorm.DB, permissions rbac.Provider, clk clock.Clock, secret string, ttl time.Duration) Provider {
	return &impl{
		adminStore:     ictadminstore.NewInstance(conn),
		personnelStore: personnelstore.NewInstance(conn),
		directorStore:  directorstore.NewInstance(conn),
		revokedStore:   revokedstore.NewInstance(conn),
		permissions:    permissions,
		clock:          clk,
		secret:         secret,
		ttl:            ttl,
	}
}

type impl struct {
	adminStore     ictadminstore.Provider
	personnelStore personnelstore.Provider
	directorStore  directorstore.Provider
	revokedStore   revokedstore.Provider
	permissions    rbac.Provider
	clock          clock.Clock
	secret         string
	ttl            time.Duration
}

// account is a login candidate resolved from one of the account tables.
type account struct {
	dbmodels.Account
	role   models.UserRole
	view   interface{}
	update func(id string, updMap map[string]interface{}) error
}

func (i impl) Login(data authapimodels.LoginRequest) (authapimodels.LoginResponse, error) {
	if err := data.Validate(); err != nil {
		return authapimodels.LoginResponse{}, err
	}
	rec, err := i.findByUsername(strings.TrimSpace(data.Username))
	if err != nil {
		return authapimodels.LoginResponse{}, err
	}
	if rec == nil || !authutils.CheckPassword(rec.Password, data.Password) {
		return authapimodels.LoginResponse{}, &models.UnauthorizedError{Message: msgInvalidCredentials}
	}
	if !rec.IsActive {
		return authapimodels.LoginResponse{}, &models.AccountInactiveError{Reason: rec.ReasonForDeactivation}
	}
	now := i.clock.Now()
	token, err := authutils.IssueToken(rec.ID, rec.GetFullName(), rec.role, rec.TokenVersion, now, i.secret, i.ttl)
	if err != nil {
		return authapimodels.LoginResponse{}, errors.Wrap(err, "failed to issue token")
	}
	if err = rec.update(rec.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		log.WithError(err).WithField("user_id", rec.ID).Warn("failed to update last login")
	}
	log.WithField("user_id", rec.ID).WithField("role", rec.role).Info("user logged in")
	return authapimodels.LoginResponse{
		Token:     token.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(i.ttl.Seconds()),
		Role:      string(rec.role),
		User:      rec.view,
	}, nil
}

func (i impl) Logout(tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if err := i.revokedStore.Revoke(tokenID, expiresAt); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}
	if err := i.PurgeExpired(); err != nil {
		log.WithError(err).Warn("failed to purge revoked tokens")
	}
	return nil
}

func (i impl) LogoutAll(session models.Session) error {
	rec, err := i.findByID(session)
	if err != nil {
		return err
	}
	if rec == nil {
		return &models.UnauthorizedError{Message: "Unauthenticated."}
	}
	if err = rec.update(rec.ID, map[string]interface{}{"token_version": gorm.Expr("token_version + ?", 1)}); err != nil {
		return errors.Wrap(err, "failed to bump token version")
	}
	log.WithField("user_id", rec.ID).WithField("role", rec.role).Info("user logged out from all devices")
	return nil
}

// PurgeExpired drops revocations of tokens that can no longer be presented.
func (i impl) PurgeExpired() error {
	return errors.Wrap(i.revokedStore.DeleteExpired(i.clock.Now()), "failed to delete expired revoked tokens")
}

func (i impl) Me(session models.Session) (authapimodels.MeResponse, error) {
	rec, err := i.findByID(session)
	if err != nil {
		return authapimodels.MeResponse{}, err
	}
	if rec == nil {
		return authapimodels.MeResponse{}, &models.UnauthorizedError{Message: "Unauthenticated."}
	}
	if !rec.IsActive {
		return authapimodels.MeResponse{}, &models.AccountInactiveError{Reason: rec.ReasonForDeactivation}
	}
	return authapimodels.MeResponse{
		Role:        string(session.Role),
		User:        rec.view,
		Permissions: i.permissions.GetPermissions(session.Role),
	}, nil
}

func (i impl) IsRevoked(tokenID string) (bool, error) {
	return i.revokedStore.IsRevoked(tokenID)
}

func (i impl) IsTokenActive(session models.Session, tokenID string) (bool, error) {
	revoked, err := i.IsRevoked(tokenID)
	if err != nil || revoked {
		return false, err
	}
	rec, err := i.findByID(session)
	if err != nil || rec == nil {
		return false, err
	}
	return rec.TokenVersion == session.TokenVersion, nil
}

// findByUsername searches admins, then personnel, then directors.
func (i impl) findByUsername(username string) (*account, error) {
	admin, err := i.adminStore.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get admin")
	}
	if admin != nil {
		return i.adminAccount(*admin), nil
	}
	personnel, err := i.personnelStore.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get personnel")
	}
	if personnel != nil {
		return i.personnelAccount(*personnel), nil
	}
	director, err := i.directorStore.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get director")
	}
	if director != nil {
		return i.directorAccount(*director), nil
	}
	return nil, nil
}

func (i impl) findByID(session models.Session) (*account, error) {
	switch session.Role {
	case models.IctAdminRole:
		rec, err := i.adminStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return nil, errors.Wrap(err, "failed to get admin")
		}
		return i.adminAccount(*rec), nil
	case models.PersonnelRole:
		rec, err := i.personnelStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return nil, errors.Wrap(err, "failed to get personnel")
		}
		return i.personnelAccount(*rec), nil
	case models.DirectorRole:
		rec, err := i.directorStore.GetByID(session.UserID)
		if err != nil || rec == nil {
			return nil, errors.Wrap(err, "failed to get director")
		}
		return i.directorAccount(*rec), nil
	}
	return nil, nil
}

func (i impl) adminAccount(rec dbmodels.IctAdmin) *account {
	return &account{Account: rec.Account, role: models.IctAdminRole, view: rec.ToModel(), update: i.adminStore.Update}
}

func (i impl) personnelAccount(rec dbmodels.Personnel) *account {
	return &account{Account: rec.Account, role: models.PersonnelRole, view: rec.ToModel(), update: i.personnelStore.Update}
}

func (i impl) directorAccount(rec dbmodels.Director) *account {
	return &account{Account: rec.Account, role: models.DirectorRole, view: rec.ToModel(), update: i.directorStore.Update}
}
