package xlsexport

import (
	"bytes"
	"os"
	"travel-order-backend/config"
	"travel-order-backend/lib/export/layout"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportTravelOrder(doc layout.TravelOrder) (*bytes.Buffer, error)
	ExportTimeLogs(list []dbmodels.TimeLog) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(config.Conf.Export.TemplatePath)
}

// NewInstance fills the workbook at templatePath when it exists, otherwise a blank workbook gets the same cells.
func NewInstance(templatePath string) Provider {
	return impl{templatePath: templatePath}
}

type impl struct {
	templatePath string
}

// TemplateSheet is filled when present in the template; otherwise the first sheet is used.
const TemplateSheet = "TO for REGULAR"

const (
	defaultSheet   = "Sheet1"
	travelSheet    = "Travel Order"
	timeLogSheet   = "Time Logs"
	firstValueRow  = 7
	signatureRow   = 15
	certificateRow = 19
)

func (i impl) ExportTravelOrder(doc layout.TravelOrder) (*bytes.Buffer, error) {
	f, sheet, fromTemplate, err := i.open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()
	if err = writeTravelOrder(f, sheet, doc); err != nil {
		return nil, errors.Wrap(err, "failed to fill travel order workbook")
	}
	if !fromTemplate {
		if err = styleGenerated(f, sheet); err != nil {
			return nil, errors.Wrap(err, "failed to style travel order workbook")
		}
		if err = f.SetSheetName(sheet, travelSheet); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func (i impl) open() (f *excelize.File, sheet string, fromTemplate bool, err error) {
	if i.templatePath != "" {
		if _, statErr := os.Stat(i.templatePath); statErr == nil {
			f, err = excelize.OpenFile(i.templatePath)
			if err != nil {
				return nil, "", false, errors.Wrap(err, "failed to open travel order template")
			}
			sheet = TemplateSheet
			if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
				sheet = f.GetSheetName(0)
			}
			return f, sheet, true, nil
		}
		log.WithField("template", i.templatePath).Warn("travel order template not found, generating workbook")
	}
	return excelize.NewFile(), defaultSheet, false, nil
}

func writeTravelOrder(f *excelize.File, sheet string, doc layout.TravelOrder) error {
	cells := map[string]interface{}{
		"A1": layout.Title,
		"A3": "Name:", "B3": doc.Name, "D3": "Date:", "E3": doc.Date,
		"A4": "Position/Designation:", "B4": doc.Position, "D4": "Official Station:", "E4": doc.OfficialStation,
		"A5": "Departure Date:", "B5": doc.DepartureDate, "D5": "Return Date:", "E5": doc.ReturnDate,
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	row := firstValueRow
	for _, item := range doc.Rows {
		if err := writeColumn(f, sheet, 1, row, item.Label); err != nil {
			return err
		}
		if err := writeColumn(f, sheet, 2, row, item.Value); err != nil {
			return err
		}
		row++
	}
	if err := writeSignature(f, sheet, 1, doc.Recommending); err != nil {
		return err
	}
	if err := writeSignature(f, sheet, 4, doc.Approving); err != nil {
		return err
	}
	if doc.Certification != nil {
		return writeCertification(f, sheet, *doc.Certification)
	}
	return nil
}

func writeSignature(f *excelize.File, sheet string, col int, block layout.SignatureBlock) error {
	if err := writeColumn(f, sheet, col, signatureRow, block.Caption); err != nil {
		return err
	}
	if block.ShowSignature && len(block.Image) != 0 {
		cell, err := excelize.CoordinatesToCellName(col, signatureRow+1)
		if err != nil {
			return err
		}
		err = f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
			Extension: ".png",
			File:      block.Image,
			Format: &excelize.GraphicOptions{
				AutoFit:         true,
				LockAspectRatio: true,
			},
		})
		if err != nil {
			// keep the blank line, same as the pdf
			log.WithError(err).Warn("signature image skipped in workbook")
		}
	} else if err := writeColumn(f, sheet, col, signatureRow+1, "________________________"); err != nil {
		return err
	}
	return writeColumn(f, sheet, col, signatureRow+2, block.DirectorName)
}

func writeCertification(f *excelize.File, sheet string, ctt layout.Certification) error {
	lines := []string{layout.CertificationTitle, ctt.Text(), ctt.Purpose}
	lines = append(lines, layout.CertificationClauses...)
	lines = append(lines, "Endorsed by: ________________________________", "Certified by: ________________________________")
	for idx, line := range lines {
		if err := writeColumn(f, sheet, 1, certificateRow+idx, line); err != nil {
			return err
		}
	}
	return nil
}

func styleGenerated(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Family: "Times New Roman",
			Size:   14,
		},
	})
	if err != nil {
		return err
	}
	if err = f.SetCellStyle(sheet, "A1", "A1", style); err != nil {
		return err
	}
	if err = applyDataCellStyle(f, sheet, 1, 3, 5, certificateRow+len(layout.CertificationClauses)+4); err != nil {
		return err
	}
	if err = f.SetColWidth(sheet, "A", "A", 45); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "E", 25)
}

var timeLogHeaders = []string{"Account", "Account Type", "Log Date", "Time In", "Time Out", "Status", "Remarks"}

func (i impl) ExportTimeLogs(list []dbmodels.TimeLog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close workbook")
		}
	}()
	sheet := defaultSheet
	row := 0
	row, err := writeHeader(f, sheet, row, timeLogHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write time log header")
	}
	if len(list) != 0 {
		row, err = writeTimeLogData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write time log rows")
		}
	}
	if err = f.SetSheetName(sheet, timeLogSheet); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func writeTimeLogData(f *excelize.File, sheet string, list []dbmodels.TimeLog, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(timeLogHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		view := item.ToModel()
		status := "Closed"
		if view.IsOpen {
			status = "Open"
		}
		values := []interface{}{view.AccountName, view.AccountType, view.LogDate, view.TimeIn, view.TimeOut, status, view.Remarks}
		for idx, value := range values {
			if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
