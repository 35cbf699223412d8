package travelorderhandler

import (
	"bytes"
	"context"
	"travel-order-backend/db"
	"travel-order-backend/lib/access"
	directorstore "travel-order-backend/lib/director/store"
	"travel-order-backend/lib/export"
	filestorage "travel-order-backend/lib/file-storage"
	attachmentstore "travel-order-backend/lib/travel-order/attachment-store"
	travelorderstore "travel-order-backend/lib/travel-order/store"
	"travel-order-backend/lib/utils/clock"
	"travel-order-backend/lib/utils/helpers"
	initchecker "travel-order-backend/lib/utils/init-checker"
	"travel-order-backend/models"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgDraftOnly = "Only draft travel orders can be modified."

type Provider interface {
	Create(ctx context.Context, session models.Session, data travelorderapimodels.TravelOrderData, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error)
	Update(ctx context.Context, session models.Session, id string, data travelorderapimodels.TravelOrderUpdate, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error)
	Delete(ctx context.Context, session models.Session, id string) error
	Get(session models.Session, id string) (travelorderapimodels.TravelOrderView, error)
	List(session models.Session, filter travelorderapimodels.ListFilter) (list []travelorderapimodels.TravelOrderView, rowCount int64, err error)
	AddAttachments(ctx context.Context, session models.Session, id string, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error)
	GetAttachment(ctx context.Context, session models.Session, id, attachmentID string) (body []byte, attachment *dbmodels.TravelOrderAttachment, err error)
	DeleteAttachment(ctx context.Context, session models.Session, id, attachmentID string) error
	AvailableDirectors() ([]travelorderapimodels.AccountShort, error)
	ExportPDF(ctx context.Context, session models.Session, id string, options travelorderapimodels.ExportOptions) (body []byte, fileName string, err error)
	ExportXLS(ctx context.Context, session models.Session, id string, options travelorderapimodels.ExportOptions) (body *bytes.Buffer, fileName string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"db", db.DB,
		"filestorage", filestorage.Instance,
		"access", access.Instance,
		"export", export.Instance,
	)
	Instance = NewInstance(db.DB, filestorage.Instance, access.Instance, export.Instance, clock.Real())
}

func NewInstance(conn *gorm.DB, storage filestorage.Provider, visibility access.Provider, renderer export.Provider, clk clock.Clock) Provider {
	return &impl{
		db:              conn,
		storage:         storage,
		access:          visibility,
		renderer:        renderer,
		clock:           clk,
		orderStore:      travelorderstore.NewInstance(conn),
		attachmentStore: attachmentstore.NewInstance(conn),
		directorStore:   directorstore.NewInstance(conn),
	}
}

type impl struct {
	db              *gorm.DB
	storage         filestorage.Provider
	access          access.Provider
	renderer        export.Provider
	clock           clock.Clock
	orderStore      travelorderstore.Provider
	attachmentStore attachmentstore.Provider
	directorStore   directorstore.Provider
}

func (i impl) Create(ctx context.Context, session models.Session, data travelorderapimodels.TravelOrderData, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error) {
	if !session.IsPersonnel() {
		return travelorderapimodels.TravelOrderView{}, models.NewForbiddenError("Only personnel can create travel orders.")
	}
	if err := validate(data, files); err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}
	rec := dbmodels.TravelOrder{
		PersonnelID: session.UserID,
		Status:      models.TOStatusDraft,
	}
	fillOrder(&rec, data)

	var stored []string
	err := i.db.Transaction(func(tx *gorm.DB) error {
		id, err := travelorderstore.NewInstance(tx).Create(rec)
		if err != nil {
			return errors.Wrap(err, "failed to create travel order")
		}
		rec.ID = id
		stored, err = i.storeAttachments(ctx, tx, id, files)
		return err
	})
	if err != nil {
		i.removeFiles(ctx, stored)
		return travelorderapimodels.TravelOrderView{}, err
	}
	log.
		WithField("travel_order_id", rec.ID).
		WithField("personnel_id", session.UserID).
		Info("travel order draft created")
	return i.view(rec.ID)
}

func (i impl) Update(ctx context.Context, session models.Session, id string, data travelorderapimodels.TravelOrderUpdate, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error) {
	if !session.IsPersonnel() {
		return travelorderapimodels.TravelOrderView{}, models.NewForbiddenError("Only personnel can edit travel orders.")
	}
	if _, err := i.ownDraft(session, id); err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}
	if err := validate(data.TravelOrderData, files); err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}

	var stored, removed []string
	err := i.db.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.TravelOrder{}
		fillOrder(&rec, data.TravelOrderData)
		updated, err := travelorderstore.NewInstance(tx).UpdateDraft(id, updateMap(rec))
		if err != nil {
			return errors.Wrap(err, "failed to update travel order")
		}
		if !updated {
			return models.NewInvalidTransitionError(msgDraftOnly)
		}
		attachmentStore := attachmentstore.NewInstance(tx)
		toDelete, err := attachmentStore.ListByIDs(id, data.DeleteAttachmentIDs)
		if err != nil {
			return errors.Wrap(err, "failed to get attachments")
		}
		for _, attachment := range toDelete {
			if err = attachmentStore.Delete(id, attachment.ID); err != nil {
				return errors.Wrap(err, "failed to delete attachment")
			}
			removed = append(removed, attachment.FilePath)
		}
		stored, err = i.storeAttachments(ctx, tx, id, files)
		return err
	})
	if err != nil {
		i.removeFiles(ctx, stored)
		return travelorderapimodels.TravelOrderView{}, err
	}
	i.removeFiles(ctx, removed)
	return i.view(id)
}

func (i impl) Delete(ctx context.Context, session models.Session, id string) error {
	order, err := i.access.GetVisible(session, id)
	if err != nil {
		return err
	}
	if order.Status != models.TOStatusDraft {
		return models.NewInvalidTransitionError("Only draft travel orders can be deleted.")
	}
	if !session.IsPersonnel() || order.PersonnelID != session.UserID {
		return models.NewForbiddenError("Only the owner can delete a draft travel order.")
	}
	var removed []string
	err = i.db.Transaction(func(tx *gorm.DB) error {
		attachmentStore := attachmentstore.NewInstance(tx)
		attachments, err := attachmentStore.List(id)
		if err != nil {
			return errors.Wrap(err, "failed to get attachments")
		}
		if err = attachmentStore.DeleteByOrder(id); err != nil {
			return errors.Wrap(err, "failed to delete attachments")
		}
		deleted, err := travelorderstore.NewInstance(tx).DeleteDraft(id)
		if err != nil {
			return errors.Wrap(err, "failed to delete travel order")
		}
		if !deleted {
			return models.NewInvalidTransitionError("Only draft travel orders can be deleted.")
		}
		for _, attachment := range attachments {
			removed = append(removed, attachment.FilePath)
		}
		return nil
	})
	if err != nil {
		return err
	}
	i.removeFiles(ctx, removed)
	log.WithField("travel_order_id", id).Info("travel order draft deleted")
	return nil
}

func (i impl) Get(session models.Session, id string) (travelorderapimodels.TravelOrderView, error) {
	order, err := i.access.GetVisible(session, id)
	if err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}
	return order.ToModel(), nil
}

func (i impl) List(session models.Session, filter travelorderapimodels.ListFilter) ([]travelorderapimodels.TravelOrderView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	storeFilter := travelorderstore.ListFilter{
		Pagination: filter.Pagination,
		Status:     filter.Status,
	}
	switch {
	case session.IsPersonnel():
		storeFilter.PersonnelID = session.UserID
	case session.IsAdmin():
		storeFilter.PersonnelID = filter.PersonnelID
	default:
		return nil, 0, models.NewForbiddenError("Directors use the pending and history lists.")
	}
	list, rowCount, err := i.orderStore.List(storeFilter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get travel orders")
	}
	result := make([]travelorderapimodels.TravelOrderView, 0, len(list))
	for _, order := range list {
		result = append(result, order.ToModel())
	}
	return result, rowCount, nil
}

func (i impl) AddAttachments(ctx context.Context, session models.Session, id string, files []travelorderapimodels.AttachmentUpload) (travelorderapimodels.TravelOrderView, error) {
	if _, err := i.ownDraft(session, id); err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}
	if len(files) == 0 {
		return travelorderapimodels.TravelOrderView{}, models.NewFieldError("attachments", "The attachments field is required.")
	}
	if err := travelorderapimodels.ValidateAttachments(files); err != nil {
		return travelorderapimodels.TravelOrderView{}, err
	}
	var stored []string
	err := i.db.Transaction(func(tx *gorm.DB) (err error) {
		if err = i.holdDraft(tx, id); err != nil {
			return err
		}
		stored, err = i.storeAttachments(ctx, tx, id, files)
		return err
	})
	if err != nil {
		i.removeFiles(ctx, stored)
		return travelorderapimodels.TravelOrderView{}, err
	}
	return i.view(id)
}

func (i impl) GetAttachment(ctx context.Context, session models.Session, id, attachmentID string) ([]byte, *dbmodels.TravelOrderAttachment, error) {
	if _, err := i.access.GetVisible(session, id); err != nil {
		return nil, nil, err
	}
	attachment, err := i.attachmentStore.GetByID(id, attachmentID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get attachment")
	}
	if attachment == nil {
		return nil, nil, models.NewNotVisibleError("Attachment not found.")
	}
	body, err := i.storage.Read(ctx, attachment.FilePath)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			return nil, nil, models.NewNotVisibleError("Attachment file not found.")
		}
		return nil, nil, errors.Wrap(err, "failed to read attachment")
	}
	return body, attachment, nil
}

func (i impl) DeleteAttachment(ctx context.Context, session models.Session, id, attachmentID string) error {
	if _, err := i.ownDraft(session, id); err != nil {
		return err
	}
	var removed string
	err := i.db.Transaction(func(tx *gorm.DB) error {
		if err := i.holdDraft(tx, id); err != nil {
			return err
		}
		attachmentStore := attachmentstore.NewInstance(tx)
		attachment, err := attachmentStore.GetByID(id, attachmentID)
		if err != nil {
			return errors.Wrap(err, "failed to get attachment")
		}
		if attachment == nil {
			return models.NewNotVisibleError("Attachment not found.")
		}
		if err = attachmentStore.Delete(id, attachmentID); err != nil {
			return errors.Wrap(err, "failed to delete attachment")
		}
		removed = attachment.FilePath
		return nil
	})
	if err != nil {
		return err
	}
	i.removeFiles(ctx, []string{removed})
	return nil
}

func (i impl) AvailableDirectors() ([]travelorderapimodels.AccountShort, error) {
	list, err := i.directorStore.ListActive()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get directors")
	}
	result := make([]travelorderapimodels.AccountShort, 0, len(list))
	for _, director := range list {
		result = append(result, *director.ToShort())
	}
	return result, nil
}

func (i impl) ExportPDF(ctx context.Context, session models.Session, id string, options travelorderapimodels.ExportOptions) ([]byte, string, error) {
	order, err := i.access.GetVisible(session, id)
	if err != nil {
		return nil, "", err
	}
	return i.renderer.TravelOrderPDF(ctx, *order, options.IncludeCtt)
}

func (i impl) ExportXLS(ctx context.Context, session models.Session, id string, options travelorderapimodels.ExportOptions) (*bytes.Buffer, string, error) {
	order, err := i.access.GetVisible(session, id)
	if err != nil {
		return nil, "", err
	}
	return i.renderer.TravelOrderXLS(ctx, *order, options.IncludeCtt)
}

// ownDraft loads an order the personnel session owns and may still edit.
func (i impl) ownDraft(session models.Session, id string) (*dbmodels.TravelOrder, error) {
	if !session.IsPersonnel() {
		return nil, models.NewForbiddenError("Only personnel can edit travel orders.")
	}
	order, err := i.access.GetVisible(session, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.TOStatusDraft {
		return nil, models.NewInvalidTransitionError(msgDraftOnly)
	}
	return order, nil
}

// storeAttachments uploads the files and inserts their rows; paths of uploaded objects are returned even on error.
// holdDraft touches the order only while it is still a draft, which locks the row against a concurrent submit until tx ends.
func (i impl) holdDraft(tx *gorm.DB, id string) error {
	held, err := travelorderstore.NewInstance(tx).UpdateDraft(id, map[string]interface{}{"updated_at": i.clock.Now()})
	if err != nil {
		return errors.Wrap(err, "failed to lock travel order")
	}
	if !held {
		return models.NewInvalidTransitionError(msgDraftOnly)
	}
	return nil
}

func (i impl) storeAttachments(ctx context.Context, tx *gorm.DB, orderID string, files []travelorderapimodels.AttachmentUpload) ([]string, error) {
	attachmentStore := attachmentstore.NewInstance(tx)
	stored := make([]string, 0, len(files))
	for _, file := range files {
		fileName := helpers.GetStoredFileName("to_"+orderID, file.FileName, i.clock.Now())
		contentType := file.ContentType
		if contentType == "" {
			contentType = helpers.DetectContentType(file.FileName, file.Body)
		}
		path, err := i.storage.Store(ctx, models.AttachmentFolder, fileName, file.Body, contentType)
		if err != nil {
			return stored, errors.Wrap(err, "failed to store attachment")
		}
		stored = append(stored, path)
		_, err = attachmentStore.Create(dbmodels.TravelOrderAttachment{
			TravelOrderID: orderID,
			FilePath:      path,
			FileName:      file.FileName,
			ContentType:   contentType,
			Type:          models.NormalizeAttachmentType(string(file.Type)),
		})
		if err != nil {
			return stored, errors.Wrap(err, "failed to create attachment")
		}
	}
	return stored, nil
}

func (i impl) removeFiles(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := i.storage.Delete(ctx, path); err != nil {
			log.WithError(err).WithField("path", path).Warn("failed to delete stored file")
		}
	}
}

func (i impl) view(id string) (travelorderapimodels.TravelOrderView, error) {
	order, err := i.orderStore.GetByID(id)
	if err != nil {
		return travelorderapimodels.TravelOrderView{}, errors.Wrap(err, "failed to get travel order")
	}
	if order == nil {
		return travelorderapimodels.TravelOrderView{}, models.NewNotVisibleError("")
	}
	return order.ToModel(), nil
}

func validate(data travelorderapimodels.TravelOrderData, files []travelorderapimodels.AttachmentUpload) error {
	if err := data.Validate(); err != nil {
		return err
	}
	return travelorderapimodels.ValidateAttachments(files)
}

func fillOrder(rec *dbmodels.TravelOrder, data travelorderapimodels.TravelOrderData) {
	rec.TravelPurpose = data.TravelPurpose
	rec.Destination = data.Destination
	rec.OfficialStation = data.OfficialStation
	rec.StartDate = data.GetStartDate()
	rec.EndDate = data.GetEndDate()
	rec.Objectives = data.Objectives
	rec.PerDiemsExpenses = data.PerDiemsExpenses
	rec.PerDiemsNote = data.PerDiemsNote
	rec.AssistantOrLaborersAllowed = data.AssistantOrLaborersAllowed
	rec.Appropriation = data.Appropriation
	rec.Remarks = data.Remarks
}

func updateMap(rec dbmodels.TravelOrder) map[string]interface{} {
	return map[string]interface{}{
		"travel_purpose":                rec.TravelPurpose,
		"destination":                   rec.Destination,
		"official_station":              rec.OfficialStation,
		"start_date":                    rec.StartDate,
		"end_date":                      rec.EndDate,
		"objectives":                    rec.Objectives,
		"per_diems_expenses":            rec.PerDiemsExpenses,
		"per_diems_note":                rec.PerDiemsNote,
		"assistant_or_laborers_allowed": rec.AssistantOrLaborersAllowed,
		"appropriation":                 rec.Appropriation,
		"remarks":                       rec.Remarks,
	}
}
