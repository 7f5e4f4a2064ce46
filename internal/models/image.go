package models

// UploadImageRequest carries a base64 image (bare or data URI) for a course
type UploadImageRequest struct {
	Image       string `json:"image" validate:"required"`
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
}

type UploadImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
}
