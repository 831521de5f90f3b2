package config

//go:generate go tool go-enum --marshal --names

// ListNesting selects how bulleted paragraphs are grouped into lists.
// ENUM(flat, nested)
type ListNesting int

// ImageFormat is format of re-encoded images.
// ENUM(original, png, jpeg)
type ImageFormat int

// Ext returns file extension for re-encoded images, empty for original.
func (f ImageFormat) Ext() string {
	switch f {
	case ImageFormatPng:
		return "png"
	case ImageFormatJpeg:
		return "jpg"
	default:
		return ""
	}
}
