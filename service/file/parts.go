package file

import (
	"slices"
	"strings"

	"github.com/tnqbao/gau-wiki-gateway/entity"
)

// ObjectKey is files/<hash>.<ext>, or files/<hash> when the name has no extension.
func ObjectKey(hash, fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx >= 0 && idx < len(fileName)-1 {
		return "files/" + hash + "." + fileName[idx+1:]
	}
	return "files/" + hash
}

// NormalizeParts turns a part listing into the completion list: ascending part numbers,
// one entry per part, and only parts the store acknowledged with an ETag. A single part
// yields a one-element list.
func NormalizeParts(parts []entity.ObjectPart) []entity.ObjectPart {
	out := make([]entity.ObjectPart, 0, len(parts))
	for _, p := range parts {
		if p.PartNumber < 1 || p.PartNumber > MaxPartNumber || p.ETag == "" {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b entity.ObjectPart) int {
		return a.PartNumber - b.PartNumber
	})
	return slices.CompactFunc(out, func(a, b entity.ObjectPart) bool {
		return a.PartNumber == b.PartNumber
	})
}
