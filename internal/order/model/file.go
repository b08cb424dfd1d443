package model

import "strings"

const (
	FileTypeImage = "IMAGE"
	FileTypeFile  = "FILE"
)

// UploadResult is the body returned by the upload endpoint.
type UploadResult struct {
	FileRef string `json:"fileRef"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
}

// OrderFile references an uploaded attachment inside an order creation request.
type OrderFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Ref  string `json:"ref"`
	URL  string `json:"url"`
}

func FileType(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return FileTypeImage
	}
	return FileTypeFile
}
