package playlist

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

// ShareLink is the public URL of playlist id under base.
func ShareLink(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + id
}

// ShareQR renders link as a QR code made of terminal block characters.
func ShareQR(link string) (string, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return qr.ToSmallString(false), nil
}

// ShareQRPNG encodes link as a PNG image of size x size pixels.
func ShareQRPNG(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}
