package helpers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GetFileContentType(file *multipart.FileHeader) string {
	if file == nil {
		return ""
	}
	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := contentTypeByExt(file.Filename); byExt != "" {
			return byExt
		}
	}
	return contentType
}

// DetectContentType sniffs the body and falls back to the file extension.
func DetectContentType(fileName string, body []byte) string {
	contentType := http.DetectContentType(body)
	if contentType == "application/octet-stream" || strings.HasPrefix(contentType, "text/plain") {
		if byExt := contentTypeByExt(fileName); byExt != "" {
			return byExt
		}
	}
	return contentType
}

var extContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func contentTypeByExt(fileName string) string {
	return extContentTypes[strings.ToLower(filepath.Ext(fileName))]
}

// GetStoredFileName builds a collision free object name: {prefix}_{unix}_{uuid}.{ext}
func GetStoredFileName(prefix, originalName string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	name := fmt.Sprintf("%s_%d_%s", prefix, now.Unix(), strings.ReplaceAll(uuid.NewString(), "-", "")[:13])
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func JoinPath(folder, name string) string {
	return strings.TrimSuffix(folder, "/") + "/" + name
}

// OrNA returns "N/A" for blank values.
const NotAvailable = "N/A"

func OrNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

func FormatLongDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format("January 02, 2006")
}

// ContentDisposition quotes a file name for the Content-Disposition header.
func ContentDisposition(disposition, fileName string) string {
	return fmt.Sprintf(`%s; filename="%s"`, disposition, strings.ReplaceAll(fileName, `"`, ""))
}
