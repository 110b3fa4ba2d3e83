package assets

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rotisserie/eris"
)

// Font is a loaded font asset: either a scalable TrueType/OpenType face
// source, or a BMFont bitmap font authored at a fixed size.
type Font struct {
	source *text.GoTextFaceSource
	bitmap *BitmapFont
}

// FontLoader decodes .ttf and .otf data into a scalable Font and .fnt text
// data into a bitmap Font.
var FontLoader = LoaderFunc(func(lc *LoadContext, data []byte) (any, error) {
	if strings.HasSuffix(strings.ToLower(lc.Path()), ".fnt") {
		bf, err := ParseBitmapFont(data)
		if err != nil {
			return nil, eris.Wrapf(err, "font %q", lc.Path())
		}
		return &Font{bitmap: bf}, nil
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "parse font %q", lc.Path())
	}
	return &Font{source: src}, nil
})

// Face returns an Ebitengine face at size, or nil for a bitmap font.
func (f *Font) Face(size float64) *text.GoTextFace {
	if f.source == nil {
		return nil
	}
	return &text.GoTextFace{Source: f.source, Size: size}
}

// Bitmap returns the bitmap font, or nil for a scalable font.
func (f *Font) Bitmap() *BitmapFont {
	return f.bitmap
}

// LineHeight returns the distance between baselines at size.
func (f *Font) LineHeight(size float64) float64 {
	if f.bitmap != nil {
		return f.bitmap.lineHeight * f.bitmap.scale(size)
	}
	m := f.Face(size).Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// Measure returns the size of s laid out at size, one line per '\n'.
func (f *Font) Measure(s string, size float64) (width, height float64) {
	if f.bitmap != nil {
		w, h := f.bitmap.measure(s)
		k := f.bitmap.scale(size)
		return w * k, h * k
	}
	return text.Measure(s, f.Face(size), f.LineHeight(size))
}

// --- BMFont ---

type glyph struct {
	x, y          int
	width, height int
	xOffset       int
	yOffset       int
	xAdvance      int
	page          int
}

// BitmapFont is a parsed BMFont text descriptor. Page images are referenced
// by file name and are not loaded.
type BitmapFont struct {
	Face  string
	Size  float64
	Pages []string

	lineHeight float64
	base       float64
	glyphs     map[rune]glyph
	kernings   map[[2]rune]int
}

// ParseBitmapFont parses BMFont .fnt text-format data.
func ParseBitmapFont(data []byte) (*BitmapFont, error) {
	f := &BitmapFont{
		glyphs:   make(map[rune]glyph),
		kernings: make(map[[2]rune]int),
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tag, rest, _ := strings.Cut(line, " ")
		fields := parseFields(rest)

		switch tag {
		case "info":
			f.Face = fields["face"]
			if size, err := strconv.ParseFloat(fields["size"], 64); err == nil {
				// Negative sizes mean "match char height" in BMFont.
				if size < 0 {
					size = -size
				}
				f.Size = size
			}
		case "common":
			f.lineHeight, _ = strconv.ParseFloat(fields["lineHeight"], 64)
			f.base, _ = strconv.ParseFloat(fields["base"], 64)
		case "page":
			id := atoi(fields["id"])
			for len(f.Pages) <= id {
				f.Pages = append(f.Pages, "")
			}
			f.Pages[id] = fields["file"]
		case "char":
			f.glyphs[rune(atoi(fields["id"]))] = glyph{
				x:        atoi(fields["x"]),
				y:        atoi(fields["y"]),
				width:    atoi(fields["width"]),
				height:   atoi(fields["height"]),
				xOffset:  atoi(fields["xoffset"]),
				yOffset:  atoi(fields["yoffset"]),
				xAdvance: atoi(fields["xadvance"]),
				page:     atoi(fields["page"]),
			}
		case "kerning":
			pair := [2]rune{rune(atoi(fields["first"])), rune(atoi(fields["second"]))}
			f.kernings[pair] = atoi(fields["amount"])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read .fnt data")
	}
	if f.lineHeight == 0 {
		return nil, eris.New(".fnt data missing common lineHeight")
	}
	if len(f.glyphs) == 0 {
		return nil, eris.New(".fnt data has no char definitions")
	}
	if f.Size == 0 {
		f.Size = f.lineHeight
	}
	return f, nil
}

// LineHeight returns the authored line height.
func (f *BitmapFont) LineHeight() float64 {
	return f.lineHeight
}

// HasGlyph reports whether r is defined.
func (f *BitmapFont) HasGlyph(r rune) bool {
	_, ok := f.glyphs[r]
	return ok
}

func (f *BitmapFont) scale(size float64) float64 {
	if size <= 0 {
		return 1
	}
	return size / f.Size
}

// measure returns the authored-size extent of s. Runes without a glyph are
// skipped and break kerning.
func (f *BitmapFont) measure(s string) (width, height float64) {
	var maxW, cursor int
	var prev rune
	hasPrev := false
	lines := 1

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			maxW = max(maxW, cursor)
			cursor = 0
			lines++
			hasPrev = false
			continue
		}
		g, ok := f.glyphs[r]
		if !ok {
			hasPrev = false
			continue
		}
		if hasPrev {
			cursor += f.kernings[[2]rune{prev, r}]
		}
		cursor += g.xAdvance
		prev = r
		hasPrev = true
	}
	return float64(max(maxW, cursor)), float64(lines) * f.lineHeight
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseFields parses `key=value key="quoted value"` pairs.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for len(s) > 0 {
		s = strings.TrimLeft(s, " \t")
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			break
		}
		key := s[:eq]
		s = s[eq+1:]
		var val string
		if strings.HasPrefix(s, `"`) {
			end := strings.IndexByte(s[1:], '"')
			if end < 0 {
				val, s = s[1:], ""
			} else {
				val, s = s[1:end+1], s[end+2:]
			}
		} else {
			val, s, _ = strings.Cut(s, " ")
		}
		fields[key] = val
	}
	return fields
}
