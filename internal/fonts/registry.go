// Package fonts resolves logical font names to TrueType files once at engine
// start. The registry is immutable after Load; renderers only read it.
package fonts

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Face is a logical font slot used by renderers.
type Face string

const (
	Body     Face = "body"
	BodyBold Face = "body-bold"
)

// FallbackFamily is the built-in PDF core font used when no TrueType file is
// available. It cannot render Arabic; renderers log a warning when they fall
// back to it.
const FallbackFamily = "Helvetica"

// Preferred file names per face, checked in order. Any other .ttf in the
// directory serves as a last resort for the regular face.
var preferred = map[Face][]string{
	Body:     {"body.ttf", "Amiri-Regular.ttf", "NotoNaskhArabic-Regular.ttf", "Cairo-Regular.ttf"},
	BodyBold: {"body-bold.ttf", "Amiri-Bold.ttf", "NotoNaskhArabic-Bold.ttf", "Cairo-Bold.ttf"},
}

// Registry maps logical faces to font file paths.
type Registry struct {
	files map[Face]string
}

// Load scans dir for the known font files. Missing faces are tolerated: the
// bold face falls back to the regular file, and a fully empty registry makes
// renderers use the core fallback family.
func Load(dir string, log *zap.Logger) *Registry {
	r := &Registry{files: make(map[Face]string)}
	if dir == "" {
		log.Warn("no fonts directory configured, using fallback font")
		return r
	}

	for face, names := range preferred {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if fileExists(p) {
				r.files[face] = p
				break
			}
		}
	}

	if _, ok := r.files[Body]; !ok {
		if p := anyTTF(dir); p != "" {
			r.files[Body] = p
		}
	}
	if _, ok := r.files[BodyBold]; !ok {
		if p, ok := r.files[Body]; ok {
			r.files[BodyBold] = p
		}
	}

	if p, ok := r.files[Body]; ok {
		log.Info("fonts loaded", zap.String("body", p), zap.String("body_bold", r.files[BodyBold]))
	} else {
		log.Warn("no TrueType fonts found, Arabic text will not render in PDFs",
			zap.String("dir", dir), zap.String("fallback", FallbackFamily))
	}
	return r
}

// Path returns the font file for a face, if one was found.
func (r *Registry) Path(face Face) (string, bool) {
	p, ok := r.files[face]
	return p, ok
}

// HasArabicFonts reports whether a real TrueType body font was resolved.
func (r *Registry) HasArabicFonts() bool {
	_, ok := r.files[Body]
	return ok
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func anyTTF(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".ttf") {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}
