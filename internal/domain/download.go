package domain

import "strings"

type Quality string

const (
	QualityHD    Quality = "hd"
	QualitySD    Quality = "sd"
	QualityAudio Quality = "audio"
)

type Format string

const (
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatGIF  Format = "gif"
	FormatMP4  Format = "mp4"
	FormatMP3  Format = "mp3"
)

// IsImage reports whether f can be requested for a photo.
func (f Format) IsImage() bool {
	switch f {
	case FormatJPG, FormatPNG, FormatWebP, FormatGIF:
		return true
	}
	return false
}

// MimeType returns the MIME type served for f.
func (f Format) MimeType() string {
	switch Format(strings.ToLower(string(f))) {
	case FormatMP4:
		return "video/mp4"
	case FormatMP3:
		return "audio/mpeg"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatGIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// OutputType is what the downloaded file is presented as.
type OutputType string

const (
	OutputImage OutputType = "image"
	OutputVideo OutputType = "video"
	OutputAudio OutputType = "audio"
)

// DownloadInfo is handed to whatever streams the bytes to the user.
type DownloadInfo struct {
	Index      int        `json:"index"`
	URL        string     `json:"url"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mime_type"`
	Type       OutputType `json:"type"`
	Format     Format     `json:"format"`
	Quality    Quality    `json:"quality,omitempty"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Resolution string     `json:"resolution,omitempty"`
}
