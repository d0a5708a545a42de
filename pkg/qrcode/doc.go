// Package qrcode renders QR codes as PNG images, base64 data URIs and
// terminal text.
//
//	png, err := qrcode.Generate("https://sstu-db.example/register?invite=AB12", 256)
//
//	text, err := qrcode.Terminal("AB12")
//	fmt.Print(text)
//
// All codes use medium error correction.
package qrcode
