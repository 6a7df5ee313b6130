package file

import (
	"strings"

	"github.com/tnqbao/gau-wiki-gateway/entity"
)

var (
	archiveMarkers  = []string{"zip", "rar", "7z", "tar"}
	codeMarkers     = []string{"javascript", "json", "xml", "typescript", "python", "java"}
	documentMarkers = []string{"pdf", "word", "document", "text", "spreadsheet", "presentation"}
)

// Categorize buckets a MIME type. Rules are checked in order and the first match wins,
// so text/javascript is code and so is any OOXML type (it mentions xml before document).
func Categorize(mimeType string) entity.FileCategory {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return entity.FileCategoryImage
	case strings.HasPrefix(mimeType, "video/"):
		return entity.FileCategoryVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return entity.FileCategoryAudio
	case containsAny(mimeType, archiveMarkers):
		return entity.FileCategoryArchive
	case containsAny(mimeType, codeMarkers):
		return entity.FileCategoryCode
	case containsAny(mimeType, documentMarkers):
		return entity.FileCategoryDocument
	default:
		return entity.FileCategoryOther
	}
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
