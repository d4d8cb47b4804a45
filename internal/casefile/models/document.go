package models

import (
	"strings"
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// DocumentType classifies a case document. Complaint slots are singular per
// case; everything else is unbounded.
type DocumentType string

const (
	DocumentTypeComplaintA       DocumentType = "complaint-a"
	DocumentTypeComplaintB       DocumentType = "complaint-b"
	DocumentTypeWitnessStatement DocumentType = "witness-statement"
	DocumentTypeEvidence         DocumentType = "evidence"
	DocumentTypePriorRecord      DocumentType = "prior-record"
	DocumentTypeCounselingRecord DocumentType = "counseling-record"
	DocumentTypeWarningDocument  DocumentType = "warning-document"
	DocumentTypeOther            DocumentType = "other"
)

var documentTypes = map[DocumentType]struct{}{
	DocumentTypeComplaintA:       {},
	DocumentTypeComplaintB:       {},
	DocumentTypeWitnessStatement: {},
	DocumentTypeEvidence:         {},
	DocumentTypePriorRecord:      {},
	DocumentTypeCounselingRecord: {},
	DocumentTypeWarningDocument:  {},
	DocumentTypeOther:            {},
}

// ParseDocumentType validates a document type string.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if _, ok := documentTypes[t]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown document type: %q", s)
	}
	return t, nil
}

// IsComplaint reports whether the type occupies one of the two complaint slots.
func (t DocumentType) IsComplaint() bool {
	return t == DocumentTypeComplaintA || t == DocumentTypeComplaintB
}

// Document is a piece of case evidence, owned exclusively by one case and
// optionally attributed to one involved person.
type Document struct {
	ID               id.DocumentID `json:"id"`
	Type             DocumentType  `json:"type"`
	PersonID         *id.PersonID  `json:"person_id,omitempty"`
	OriginalText     string        `json:"original_text"`
	TranslatedText   string        `json:"translated_text,omitempty"`
	CleanedText      string        `json:"cleaned_text,omitempty"`
	DetectedLanguage string        `json:"detected_language,omitempty"`
	ReviewedAt       *time.Time    `json:"reviewed_at,omitempty"`
	SignerID         string        `json:"signer_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Text returns the best available text for analysis: cleaned text when the
// intake pipeline produced one, the raw extraction otherwise.
func (d *Document) Text() string {
	if s := strings.TrimSpace(d.CleanedText); s != "" {
		return s
	}
	return strings.TrimSpace(d.OriginalText)
}

// HasText reports whether the document carries any usable text.
func (d *Document) HasText() bool {
	return d.Text() != ""
}

// NewDocument validates and constructs a document record.
func NewDocument(documentID id.DocumentID, docType DocumentType, personID *id.PersonID, originalText, translatedText, cleanedText, detectedLanguage string, now time.Time) (*Document, error) {
	if _, ok := documentTypes[docType]; !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown document type: %q", docType)
	}
	return &Document{
		ID:               documentID,
		Type:             docType,
		PersonID:         personID,
		OriginalText:     originalText,
		TranslatedText:   translatedText,
		CleanedText:      cleanedText,
		DetectedLanguage: detectedLanguage,
		CreatedAt:        now,
	}, nil
}
