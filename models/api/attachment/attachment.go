package attachmentapimodels

import (
	"time"

	dbmodels "miniflow-backend/models/db"
)

type AttachmentView struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	UploaderID   string    `json:"uploader_id"`
	Uploader     string    `json:"uploader"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func AttachmentConvert(rec dbmodels.Attachment) AttachmentView {
	result := AttachmentView{
		ID:           rec.ID,
		RequestID:    rec.RequestID,
		UploaderID:   rec.UploaderID,
		OriginalName: rec.OriginalName,
		ContentType:  rec.ContentType,
		Size:         rec.Size,
		CreatedAt:    rec.CreatedAt,
	}
	if rec.Uploader != nil {
		result.Uploader = rec.Uploader.GetFullName()
	}
	return result
}

type FileData struct {
	Name        string
	ContentType string
	Body        []byte
}
