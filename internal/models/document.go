// internal/models/document.go
package models

import "time"

// Verification states assigned after OCR.
const (
	VerificationNeedsAction = "needs_action"
	VerificationLowTrust    = "low_trust"
	VerificationVerified    = "verified"
)

type Document struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Filename           string    `json:"filename"`
	MimeType           string    `json:"mimeType,omitempty"`
	OCRText            string    `json:"ocrText,omitempty"`
	OCRConfidence      *float64  `json:"ocrConfidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	VerificationStatus string    `json:"verificationStatus" validate:"omitempty,oneof=needs_action low_trust verified"`
	Provider           string    `json:"provider,omitempty"`
	ExtractedSkills    string    `json:"extractedSkills,omitempty"`
	UploadedAt         time.Time `json:"uploadedAt"`
}

func (d Document) IsVerified() bool {
	return d.VerificationStatus == VerificationVerified
}
