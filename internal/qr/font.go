package qr

import (
	"os"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontResolver picks the face used to draw captions. Implementations must not
// fail; they degrade to a fixed-size face instead.
type FontResolver interface {
	Resolve(explicit *Resource, text string, sizePx int) font.Face
}

// CandidateFonts resolves an explicit font first, then the first loadable path
// of the CJK or Latin list, then the built-in Go font (Latin only), then
// basicfont.Face7x13.
type CandidateFonts struct {
	CJK   []string
	Latin []string
}

// DefaultCJKFonts are common locations of CJK-capable fonts on Linux hosts.
var DefaultCJKFonts = []string{
	"fonts/NotoSansSC-Regular.ttf",
	"fonts/SimHei.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
}

// DefaultLatinFonts are looked up before the built-in Go font.
var DefaultLatinFonts = []string{
	"fonts/times.ttf",
	"fonts/arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// DefaultFonts is used when the generator is built without a resolver.
var DefaultFonts = CandidateFonts{CJK: DefaultCJKFonts, Latin: DefaultLatinFonts}

func (c CandidateFonts) Resolve(explicit *Resource, text string, sizePx int) font.Face {
	if explicit != nil {
		if data, err := explicit.ReadAll(); err == nil {
			if face, err := parseFace(data, sizePx); err == nil {
				return face
			}
		}
	}
	cjk := containsCJK(text)
	paths := c.Latin
	if cjk {
		paths = c.CJK
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if face, err := parseFace(data, sizePx); err == nil {
			return face
		}
	}
	if !cjk {
		if face, err := parseFace(goregular.TTF, sizePx); err == nil {
			return face
		}
	}
	return basicfont.Face7x13
}

// parseFace loads a TrueType/OpenType font or the first font of a collection.
func parseFace(data []byte, sizePx int) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			return nil, errors.Wrapf(ErrAssetUnavailable, "parse font: %v", err)
		}
		if f, err = coll.Font(0); err != nil {
			return nil, errors.Wrapf(ErrAssetUnavailable, "parse font collection: %v", err)
		}
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrAssetUnavailable, "font face: %v", err)
	}
	return face, nil
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}
