package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var knownImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// sanitizeExt keeps only characters safe for a storage key.
func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(ext) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ObjectKey builds a collision-resistant storage key from a timestamp and a
// unique suffix, carrying over the original file extension when it is one we
// recognize. Unrecognized extensions are replaced by sniffing the content,
// defaulting to .jpg.
func ObjectKey(originalName string, data []byte) string {
	ext := sanitizeExt(filepath.Ext(originalName))
	if !knownImageExts[ext] {
		ext = ".jpg"
		if mt := mimetype.Detect(data); knownImageExts[mt.Extension()] {
			ext = mt.Extension()
		}
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
