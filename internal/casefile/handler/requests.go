package handler

import (
	"encoding/base64"
	"strings"
	"time"

	"caseflow/internal/casefile/models"
	"caseflow/internal/casefile/service"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// CreateCaseRequest is the intake form for a new case.
type CreateCaseRequest struct {
	Category     string    `json:"category"`
	IncidentDate time.Time `json:"incident_date"`
	Location     string    `json:"location"`
	Department   string    `json:"department"`
}

func (r CreateCaseRequest) ToInput() service.CreateCaseInput {
	return service.CreateCaseInput{
		Category:     r.Category,
		IncidentDate: r.IncidentDate,
		Location:     r.Location,
		Department:   r.Department,
	}
}

// AddPersonRequest registers an involved employee.
type AddPersonRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	FileNumber  string `json:"file_number"`
	Complainant bool   `json:"complainant"`
}

func (r AddPersonRequest) ToInput() service.PersonInput {
	return service.PersonInput{
		Name:        r.Name,
		Role:        r.Role,
		Department:  r.Department,
		FileNumber:  r.FileNumber,
		Complainant: r.Complainant,
	}
}

// AddDocumentRequest attaches a document with already-extracted text.
type AddDocumentRequest struct {
	Type             string  `json:"type"`
	PersonID         *string `json:"person_id,omitempty"`
	OriginalText     string  `json:"original_text"`
	TranslatedText   string  `json:"translated_text,omitempty"`
	CleanedText      string  `json:"cleaned_text,omitempty"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
}

func (r AddDocumentRequest) ToInput() (service.DocumentInput, error) {
	docType, err := models.ParseDocumentType(r.Type)
	if err != nil {
		return service.DocumentInput{}, err
	}
	personID, err := parseOptionalPersonID(r.PersonID)
	if err != nil {
		return service.DocumentInput{}, err
	}
	return service.DocumentInput{
		Type:             docType,
		PersonID:         personID,
		OriginalText:     r.OriginalText,
		TranslatedText:   r.TranslatedText,
		CleanedText:      r.CleanedText,
		DetectedLanguage: r.DetectedLanguage,
	}, nil
}

// IntakeDocumentRequest attaches a document from scanned page images.
// Images are base64-encoded.
type IntakeDocumentRequest struct {
	Type           string   `json:"type"`
	PersonID       *string  `json:"person_id,omitempty"`
	Images         []string `json:"images"`
	SourceLanguage string   `json:"source_language,omitempty"`
}

func (r IntakeDocumentRequest) ToInput() (service.IntakeInput, error) {
	docType, err := models.ParseDocumentType(r.Type)
	if err != nil {
		return service.IntakeInput{}, err
	}
	personID, err := parseOptionalPersonID(r.PersonID)
	if err != nil {
		return service.IntakeInput{}, err
	}
	images := make([][]byte, 0, len(r.Images))
	for i, encoded := range r.Images {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return service.IntakeInput{}, dErrors.Newf(dErrors.CodeInvalidInput, "image %d is not valid base64", i)
		}
		images = append(images, raw)
	}
	return service.IntakeInput{
		Type:           docType,
		PersonID:       personID,
		Images:         images,
		SourceLanguage: r.SourceLanguage,
	}, nil
}

func parseOptionalPersonID(raw *string) (*id.PersonID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	personID, err := id.ParsePersonID(*raw)
	if err != nil {
		return nil, err
	}
	return &personID, nil
}

// SelectRecommendationRequest picks one decision-support option.
type SelectRecommendationRequest struct {
	RecommendationID string `json:"recommendation_id"`
}

// ReviewCommentRequest attaches supervisor feedback to a section.
type ReviewCommentRequest struct {
	SectionID string `json:"section_id"`
	Text      string `json:"text"`
}

// ReviewEditRequest replaces a section body, recording the change in the
// edit ledger.
type ReviewEditRequest struct {
	SectionID string `json:"section_id"`
	NewText   string `json:"new_text"`
}

// ReviewRejectRequest rejects the generated document with a reason.
type ReviewRejectRequest struct {
	Reason string `json:"reason"`
}

// FinalizeRequest closes the case. Bypass skips the approved-document
// requirement and is restricted to supervisors.
type FinalizeRequest struct {
	Bypass bool `json:"bypass"`
}

// EscalateRequest hands the case to an external process.
type EscalateRequest struct {
	Reason string `json:"reason"`
}

// AnalysisStartedResponse acknowledges an asynchronous analysis run.
type AnalysisStartedResponse struct {
	AnalysisVersion uint64 `json:"analysis_version"`
	Status          string `json:"status"`
}
