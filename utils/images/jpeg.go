package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
)

type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

// ScreenDPI is density recorded in JPEG images prepared for the page.
const ScreenDPI = 96

var (
	markerSOI  = []byte{0xFF, 0xD8}
	markerAPP0 = []byte{0xFF, 0xE0}
	jfifHeader = []byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x02}
)

// EnsureJFIFAPP0 inserts JFIF APP0 segment right after SOI unless some APP0
// segment is already there. Returns true when data was changed.
func EnsureJFIFAPP0(data []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if len(data) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if !bytes.Equal(data[:2], markerSOI) {
		return nil, false, errors.New("not a jpeg")
	}
	if bytes.Equal(data[2:4], markerAPP0) {
		return data, false, nil
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(data)+18))
	buf.Write(markerSOI)
	buf.Write(markerAPP0)
	_ = binary.Write(buf, binary.BigEndian, uint16(16))
	buf.Write(jfifHeader)
	buf.WriteByte(byte(dpit))
	_ = binary.Write(buf, binary.BigEndian, uint16(xdensity))
	_ = binary.Write(buf, binary.BigEndian, uint16(ydensity))
	buf.Write([]byte{0, 0}) // no thumbnail
	buf.Write(data[2:])
	return buf.Bytes(), true, nil
}

// EncodeJPEG encodes image with given quality and records screen density in
// JFIF header.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), DpiPxPerInch, ScreenDPI, ScreenDPI)
	if err != nil {
		return nil, err
	}
	return out, nil
}
