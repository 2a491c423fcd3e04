package request

import "restoredoc/internal/domain/entities"

// PhotoRequest carries one image; Data is standard base64 in JSON.
type PhotoRequest struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data" binding:"required"`
}

// AnalysisRequest is the JSON alternative to a multipart photo upload.
type AnalysisRequest struct {
	DamageType string         `json:"damage_type" binding:"required"`
	Photos     []PhotoRequest `json:"photos" binding:"required,dive"`
}

func (r AnalysisRequest) ToPhotos() []entities.Photo {
	out := make([]entities.Photo, 0, len(r.Photos))
	for _, p := range r.Photos {
		out = append(out, entities.Photo{Name: p.Name, MIMEType: p.MIMEType, Data: p.Data})
	}
	return out
}
