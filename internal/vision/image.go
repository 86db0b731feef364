package vision

import (
	"bytes"
	"encoding/base64"
	"net/http"

	"github.com/disintegration/imaging"
)

const pngMIME = "image/png"

// Prepare re-encodes an uploaded screenshot as PNG, applying EXIF orientation
// and fitting it inside maxDim×maxDim (maxDim <= 0 keeps the original size).
//
// Input that cannot be decoded is returned unchanged with a sniffed content
// type; the provider decides whether it can read it.
func Prepare(b []byte, maxDim int) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return b, http.DetectContentType(b)
	}

	if maxDim > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
			img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return b, http.DetectContentType(b)
	}
	return buf.Bytes(), pngMIME
}

// dataURL encodes b as an RFC 2397 data URL.
func dataURL(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}
