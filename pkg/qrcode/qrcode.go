// Package qrcode renderiza el identificador de cliente como un código QR en PNG.
// La imagen se genera al vuelo y nunca se persiste.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/boombuler/barcode/qr"
)

const (
	// BoxSize píxeles por módulo del QR.
	BoxSize = 10
	// Border módulos de zona silenciosa alrededor del código.
	Border = 4
)

// ErrEmptyToken el contenido a codificar no puede ser vacío.
var ErrEmptyToken = errors.New("qrcode: token vacío")

var palette = color.Palette{color.White, color.Black}

// Render codifica token (texto literal, corrección de errores L) y lo rasteriza como PNG
// negro sobre blanco. Misma entrada, mismos bytes.
func Render(token string) ([]byte, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	code, err := qr.Encode(token, qr.L, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qrcode: codificar: %w", err)
	}

	modules := code.Bounds().Dx()
	side := (modules + 2*Border) * BoxSize
	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)
	// índice 0 = blanco: la imagen nace con fondo blanco.
	for y := 0; y < modules; y++ {
		for x := 0; x < modules; x++ {
			if !isDark(code.At(x, y)) {
				continue
			}
			x0 := (x + Border) * BoxSize
			y0 := (y + Border) * BoxSize
			for dy := 0; dy < BoxSize; dy++ {
				for dx := 0; dx < BoxSize; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("qrcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename nombre del adjunto para el QR de un cliente.
func Filename(token string) string {
	return "qr_" + token + ".png"
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < 0x8000
}
