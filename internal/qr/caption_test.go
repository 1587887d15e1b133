package qr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLayoutCaption(t *testing.T) {
	tests := []struct {
		name                string
		border, top, bottom int
		padding             int
		wantTop, wantBottom int
	}{
		{name: "tall text grows", border: 60, top: 60, bottom: 60, padding: 20, wantTop: 40, wantBottom: 40},
		{name: "fits in quiet zone", border: 60, top: 20, bottom: 15, padding: 20, wantTop: 0, wantBottom: 0},
		{name: "exact fit", border: 53, top: 13, padding: 20, wantTop: 0},
		{name: "top only", border: 10, top: 13, bottom: 0, padding: 20, wantTop: 43, wantBottom: 0},
		{name: "no border", border: 0, top: 0, bottom: 13, padding: 0, wantTop: 0, wantBottom: 13},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := LayoutCaption(tc.border, tc.top, tc.bottom, tc.padding)
			assert.Equal(t, tc.border, l.BorderPx)
			assert.Equal(t, tc.wantTop, l.TopGrowth)
			assert.Equal(t, tc.wantBottom, l.BottomGrowth)
		})
	}
}

func TestMeasureFixedFace(t *testing.T) {
	box := measure(basicfont.Face7x13, "Hi", 0)
	assert.Equal(t, 13, box.h)
	assert.Equal(t, -11, box.minY)

	bold := measure(basicfont.Face7x13, "Hi", 1)
	assert.Equal(t, 15, bold.h)
	assert.Equal(t, box.w+2, bold.w)
}

func captionStyle(bold bool) CaptionStyle {
	return CaptionStyle{Face: basicfont.Face7x13, Color: black, Background: white, Bold: bold, PaddingPx: 20}
}

// inkIn reports whether any black pixel lies in [x0,x1)x[y0,y1).
func inkIn(img *image.RGBA, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if img.RGBAAt(x, y) == black {
				return true
			}
		}
	}
	return false
}

func TestCompositeCaptionGrowsCanvas(t *testing.T) {
	img := filled(100, 100, gray)

	out, err := CompositeCaption(img, "Hi", "", 10, captionStyle(false))
	require.NoError(t, err)
	// 13px text + 2*20 padding needs 53px, the quiet zone offers 10.
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 143, out.Bounds().Dy())
	assert.Equal(t, white, rgbaAt(out, 0, 0))
	assert.Equal(t, gray, rgbaAt(out, 0, 43), "original pasted below the band")
	assert.Equal(t, gray, rgbaAt(out, 99, 142))
	assert.True(t, inkIn(out, 0, 0, 100, 43), "top caption drawn")

	out, err = CompositeCaption(img, "Hi", "Bye", 10, captionStyle(true))
	require.NoError(t, err)
	assert.Equal(t, 100+45+45, out.Bounds().Dy())
	assert.True(t, inkIn(out, 0, 0, 100, 45))
	assert.True(t, inkIn(out, 0, 145, 100, 190), "bottom caption drawn")
}

func TestCompositeCaptionInsideQuietZone(t *testing.T) {
	img := filled(200, 200, white)
	out, err := CompositeCaption(img, "", "Bye", 60, captionStyle(false))
	require.NoError(t, err)
	assert.Equal(t, 200, out.Bounds().Dy())
	assert.False(t, inkIn(out, 0, 0, 200, 140))
	assert.True(t, inkIn(out, 0, 140, 200, 200))
}

func TestCompositeCaptionIsCentered(t *testing.T) {
	img := filled(201, 100, white)
	out, err := CompositeCaption(img, "IIII", "", 0, CaptionStyle{Face: basicfont.Face7x13, Color: black, Background: white})
	require.NoError(t, err)

	minX, maxX := out.Bounds().Dx(), -1
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			if rgbaAt(out, x, y) == black {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	if assert.GreaterOrEqual(t, maxX, 0) {
		left, right := minX, out.Bounds().Dx()-1-maxX
		assert.InDelta(t, left, right, 8)
	}
}

func TestCompositeCaptionRejectsOversizedCanvas(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, MaxImageSide-100))
	st := captionStyle(false)
	st.PaddingPx = maxCaptionPadding

	out, err := CompositeCaption(img, "Hi", "", 0, st)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, out)

	// Growth inside the limit is still allowed: 13 + 2*20 = 53px.
	st.PaddingPx = 20
	out, err = CompositeCaption(img, "Hi", "", 0, st)
	require.NoError(t, err)
	assert.Equal(t, MaxImageSide-47, out.Bounds().Dy())
}

func TestCandidateFontsFallback(t *testing.T) {
	none := CandidateFonts{}

	latin := none.Resolve(nil, "hello", 30)
	_, isBasic := latin.(*basicfont.Face)
	assert.False(t, isBasic, "latin text uses the built-in Go font")

	cjk := none.Resolve(nil, "你好", 30)
	assert.Equal(t, basicfont.Face7x13, cjk, "no CJK font installed")

	broken := none.Resolve(BytesResource("broken.ttf", []byte("nope")), "你好", 30)
	assert.Equal(t, basicfont.Face7x13, broken)

	explicit := none.Resolve(BytesResource("go.ttf", goregular.TTF), "你好", 30)
	_, isBasic = explicit.(*basicfont.Face)
	assert.False(t, isBasic, "explicit font wins")
	h := explicit.Metrics().Height.Ceil()
	assert.Greater(t, h, 20)
	assert.Less(t, h, 50)

	missing := CandidateFonts{Latin: []string{"/does/not/exist.ttf"}}
	_, isBasic = missing.Resolve(nil, "hello", 12).(*basicfont.Face)
	assert.False(t, isBasic)
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, containsCJK("扫码 scan"))
	assert.True(t, containsCJK("カタカナ"))
	assert.True(t, containsCJK("한국어"))
	assert.False(t, containsCJK("plain ascii é"))
}
