package service

import (
	"context"
	"fmt"
	"time"

	"caseflow/internal/audit"
	"caseflow/internal/casefile/models"
	"caseflow/internal/workflow/ports"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
)

// Document integrity operations. Each one runs under the case lock, so the
// referential guarantee holds synchronously: no document references a missing
// person once an operation returns.

// PersonInput is the intake form for an involved employee.
type PersonInput struct {
	Name        string
	Role        string
	Department  string
	FileNumber  string
	Complainant bool
}

// AddPerson registers an involved employee on the case. The first two
// complainants (by insertion order) occupy the complaint-a and complaint-b
// slots; a third complainant is rejected.
func (s *Service) AddPerson(ctx context.Context, caseID id.CaseID, input PersonInput) (*models.Case, *models.Person, error) {
	now := requestcontext.Now(ctx)
	person, err := models.NewPerson(id.NewPersonID(), input.Name, input.Role, input.Department, input.FileNumber, input.Complainant, now)
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		return c.AttachPerson(*person, now)
	})
	if err != nil {
		return nil, nil, wrapCaseErr(err)
	}

	role := "witness"
	if person.Complainant {
		role = "complainant"
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionPersonAdded,
		Detail: fmt.Sprintf("%s %s added", role, person.Name),
	})
	return updated, person, nil
}

// RemovePerson deletes the person and cascades deletion of dependent
// documents: complaint-a for the first complainant, complaint-b for the
// second, witness statements for a witness.
func (s *Service) RemovePerson(ctx context.Context, caseID id.CaseID, personID id.PersonID) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	var removedDocs []id.DocumentID
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		var err error
		removedDocs, err = c.RemovePerson(personID, now)
		return err
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}

	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionPersonRemoved,
		Detail: fmt.Sprintf("person %s removed, %d dependent documents deleted", personID, len(removedDocs)),
	})
	return updated, nil
}

// DocumentInput attaches an already-extracted document to the case.
type DocumentInput struct {
	Type             models.DocumentType
	PersonID         *id.PersonID
	OriginalText     string
	TranslatedText   string
	CleanedText      string
	DetectedLanguage string
}

// AddDocument attaches a document, enforcing the singular complaint slots and
// the person-attribution eligibility rules at submission time.
func (s *Service) AddDocument(ctx context.Context, caseID id.CaseID, input DocumentInput) (*models.Case, *models.Document, error) {
	now := requestcontext.Now(ctx)
	doc, err := models.NewDocument(id.NewDocumentID(), input.Type, input.PersonID, input.OriginalText, input.TranslatedText, input.CleanedText, input.DetectedLanguage, now)
	if err != nil {
		return nil, nil, err
	}
	return s.attachDocument(ctx, caseID, doc, now)
}

// IntakeInput carries scanned images through the OCR collaborator before
// attachment.
type IntakeInput struct {
	Type           models.DocumentType
	PersonID       *id.PersonID
	Images         [][]byte
	SourceLanguage string
}

// IntakeDocument extracts text from scanned images via the OCR collaborator
// and attaches the resulting document. Extraction failures are propagated
// unchanged and leave the case untouched.
func (s *Service) IntakeDocument(ctx context.Context, caseID id.CaseID, input IntakeInput) (*models.Case, *models.Document, error) {
	if s.extractor == nil {
		return nil, nil, dErrors.New(dErrors.CodeInternal, "text extraction is not configured")
	}
	if len(input.Images) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "at least one scanned image is required")
	}

	extracted, err := s.extractor.ExtractDocumentText(ctx, extractionInput(input))
	if err != nil {
		return nil, nil, err
	}

	now := requestcontext.Now(ctx)
	doc, err := models.NewDocument(id.NewDocumentID(), input.Type, input.PersonID,
		extracted.OriginalText, extracted.TranslatedText, extracted.CleanedText, extracted.DetectedLanguage, now)
	if err != nil {
		return nil, nil, err
	}
	return s.attachDocument(ctx, caseID, doc, now)
}

func (s *Service) attachDocument(ctx context.Context, caseID id.CaseID, doc *models.Document, now time.Time) (*models.Case, *models.Document, error) {
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		return c.AttachDocument(*doc, now)
	})
	if err != nil {
		return nil, nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionDocumentAdded,
		Detail: fmt.Sprintf("%s document %s added", doc.Type, doc.ID),
	})
	return updated, doc, nil
}

func extractionInput(input IntakeInput) ports.ExtractionInput {
	return ports.ExtractionInput{
		Images:            input.Images,
		DocumentTypeLabel: string(input.Type),
		SourceLanguage:    input.SourceLanguage,
	}
}

// RemoveDocument deletes a single document from the case.
func (s *Service) RemoveDocument(ctx context.Context, caseID id.CaseID, documentID id.DocumentID) (*models.Case, error) {
	now := requestcontext.Now(ctx)
	updated, err := s.cases.Execute(ctx, caseID, func(c *models.Case) error {
		return c.RemoveDocument(documentID, now)
	})
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	s.emit(ctx, audit.Event{
		CaseID: caseID,
		Action: audit.ActionDocumentRemoved,
		Detail: fmt.Sprintf("document %s removed", documentID),
	})
	return updated, nil
}
