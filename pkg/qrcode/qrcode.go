package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels used when size is not positive.
const DefaultSize = 256

var (
	ErrEmptyContent = errors.New("qrcode: empty content")
	ErrEncode       = errors.New("qrcode: failed to encode content")
)

// Generate returns a PNG image of content.
func Generate(content string, size int) ([]byte, error) {
	q, err := encode(content)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return png, nil
}

// GenerateBase64Image returns a data URI holding a PNG image of content.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with Unicode half blocks, two modules per
// character cell, dark modules drawn as spaces on a light background so the
// code scans on dark terminals.
func Terminal(content string) (string, error) {
	q, err := encode(content)
	if err != nil {
		return "", err
	}
	bitmap := q.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune(' ')
			case top:
				b.WriteRune('▄')
			case bottom:
				b.WriteRune('▀')
			default:
				b.WriteRune('█')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func encode(content string) (*goqrcode.QRCode, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	q, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return q, nil
}
