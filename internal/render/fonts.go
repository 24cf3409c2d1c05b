package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	gofontOnce      sync.Once
	gofontData      *opentype.Font
	gofontErr       error
	gofontMu        sync.Mutex
	gofontFaceCache = make(map[float64]font.Face)
)

// goFace 指定サイズのGo Regularフェイスを返す。パースに失敗した場合は
// basicfontにフォールバックする。
func goFace(size float64) font.Face {
	gofontOnce.Do(func() {
		gofontData, gofontErr = opentype.Parse(goregular.TTF)
	})
	if gofontErr != nil || gofontData == nil {
		return basicfont.Face7x13
	}

	gofontMu.Lock()
	defer gofontMu.Unlock()
	if face, ok := gofontFaceCache[size]; ok {
		return face
	}
	face, err := opentype.NewFace(gofontData, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	gofontFaceCache[size] = face
	return face
}
