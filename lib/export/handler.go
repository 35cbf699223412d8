package export

import (
	"bytes"
	"context"
	"fmt"
	"time"
	"travel-order-backend/config"
	"travel-order-backend/lib/export/imagecodec"
	"travel-order-backend/lib/export/layout"
	pdfexport "travel-order-backend/lib/export/pdf"
	xlsexport "travel-order-backend/lib/export/xls"
	filestorage "travel-order-backend/lib/file-storage"
	"travel-order-backend/lib/utils/clock"
	initchecker "travel-order-backend/lib/utils/init-checker"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	TravelOrderPDF(ctx context.Context, order dbmodels.TravelOrder, includeCtt bool) (body []byte, fileName string, err error)
	TravelOrderXLS(ctx context.Context, order dbmodels.TravelOrder, includeCtt bool) (body *bytes.Buffer, fileName string, err error)
	TimeLogsXLS(list []dbmodels.TimeLog) (body *bytes.Buffer, fileName string, err error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"filestorage", filestorage.Instance,
		"xlsexport", xlsexport.Instance,
	)
	var codec imagecodec.Codec
	if *config.Conf.Export.SignatureEnabled {
		codec = imagecodec.New()
	}
	Instance = NewInstance(
		filestorage.Instance,
		codec,
		xlsexport.Instance,
		clock.Real(),
		pdfexport.Options{FontDir: config.Conf.Export.FontDir},
	)
}

// NewInstance builds the renderer. A nil codec disables signature images and blank lines are printed.
func NewInstance(storage filestorage.Provider, codec imagecodec.Codec, xls xlsexport.Provider, clk clock.Clock, pdfOptions pdfexport.Options) Provider {
	return &impl{
		storage:    storage,
		codec:      codec,
		xls:        xls,
		clock:      clk,
		pdfOptions: pdfOptions,
	}
}

type impl struct {
	storage    filestorage.Provider
	codec      imagecodec.Codec
	xls        xlsexport.Provider
	clock      clock.Clock
	pdfOptions pdfexport.Options
}

// AssetMissingError is recovered inside the renderer and never returned to callers.
type AssetMissingError struct {
	Path string
	Err  error
}

func (e *AssetMissingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("asset %s is missing", e.Path)
	}
	return fmt.Sprintf("asset %s is unreadable: %v", e.Path, e.Err)
}

func (e *AssetMissingError) Unwrap() error {
	return e.Err
}

func (i impl) TravelOrderPDF(ctx context.Context, order dbmodels.TravelOrder, includeCtt bool) ([]byte, string, error) {
	now := i.clock.Now()
	doc := i.document(ctx, order, now, includeCtt)
	body, err := pdfexport.Render(doc, now, i.pdfOptions)
	if err != nil {
		return nil, "", err
	}
	return body, layout.PDFFileName(order.ID), nil
}

func (i impl) TravelOrderXLS(ctx context.Context, order dbmodels.TravelOrder, includeCtt bool) (*bytes.Buffer, string, error) {
	now := i.clock.Now()
	doc := i.document(ctx, order, now, includeCtt)
	body, err := i.xls.ExportTravelOrder(doc)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build travel order workbook")
	}
	return body, layout.XLSFileName(order.ID, now), nil
}

func (i impl) TimeLogsXLS(list []dbmodels.TimeLog) (*bytes.Buffer, string, error) {
	body, err := i.xls.ExportTimeLogs(list)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build time log workbook")
	}
	return body, fmt.Sprintf("TIME_LOGS_%s.xlsx", i.clock.Now().Format("20060102-150405")), nil
}

func (i impl) document(ctx context.Context, order dbmodels.TravelOrder, now time.Time, includeCtt bool) layout.TravelOrder {
	doc := layout.Build(order, now, includeCtt)
	logger := log.WithField("travel_order_id", order.ID)
	for _, block := range []*layout.SignatureBlock{&doc.Recommending, &doc.Approving} {
		if !block.ShowSignature {
			continue
		}
		img, err := i.signature(ctx, block.SignaturePath)
		if err != nil {
			logger.WithError(err).Warn("signature not embedded")
			continue
		}
		block.Image = img
	}
	return doc
}

func (i impl) signature(ctx context.Context, path string) ([]byte, error) {
	if i.codec == nil || i.storage == nil {
		return nil, nil
	}
	exists, err := i.storage.Exists(ctx, path)
	if err != nil {
		return nil, &AssetMissingError{Path: path, Err: err}
	}
	if !exists {
		return nil, &AssetMissingError{Path: path}
	}
	body, err := i.storage.Read(ctx, path)
	if err != nil {
		return nil, &AssetMissingError{Path: path, Err: err}
	}
	img, err := i.codec.ToPNG(body)
	if err != nil {
		return nil, &AssetMissingError{Path: path, Err: err}
	}
	return img, nil
}
