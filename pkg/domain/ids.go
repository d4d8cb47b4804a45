// Package domain defines typed identifiers shared across modules.
//
// Each ID is a distinct type over uuid.UUID so the compiler rejects
// cross-entity assignment. Parse helpers enforce the invariant that IDs
// crossing a trust boundary are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "caseflow/pkg/domain-errors"
)

// Typed identifiers for the caseflow aggregates.
type (
	CaseID           uuid.UUID
	PersonID         uuid.UUID
	DocumentID       uuid.UUID
	RecommendationID uuid.UUID
	ReviewID         uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must not be the nil UUID", kind)
	}
	return u, nil
}

// ParseCaseID validates and converts a string into a CaseID.
func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID("case", s)
	return CaseID(u), err
}

// ParsePersonID validates and converts a string into a PersonID.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID("person", s)
	return PersonID(u), err
}

// ParseDocumentID validates and converts a string into a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID("document", s)
	return DocumentID(u), err
}

// ParseRecommendationID validates and converts a string into a RecommendationID.
func ParseRecommendationID(s string) (RecommendationID, error) {
	u, err := parseUUID("recommendation", s)
	return RecommendationID(u), err
}

// ParseReviewID validates and converts a string into a ReviewID.
func ParseReviewID(s string) (ReviewID, error) {
	u, err := parseUUID("review", s)
	return ReviewID(u), err
}

func (id CaseID) String() string           { return uuid.UUID(id).String() }
func (id PersonID) String() string         { return uuid.UUID(id).String() }
func (id DocumentID) String() string       { return uuid.UUID(id).String() }
func (id RecommendationID) String() string { return uuid.UUID(id).String() }
func (id ReviewID) String() string         { return uuid.UUID(id).String() }

func (id CaseID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id PersonID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RecommendationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ReviewID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

// NewCaseID generates a fresh case identifier.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewPersonID generates a fresh person identifier.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewDocumentID generates a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewRecommendationID generates a fresh recommendation identifier.
func NewRecommendationID() RecommendationID { return RecommendationID(uuid.New()) }

// NewReviewID generates a fresh review identifier.
func NewReviewID() ReviewID { return ReviewID(uuid.New()) }

// MarshalText implementations keep typed IDs JSON-friendly as UUID strings.

func (id CaseID) MarshalText() ([]byte, error)           { return []byte(id.String()), nil }
func (id PersonID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id RecommendationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ReviewID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }

func (id *CaseID) UnmarshalText(b []byte) error {
	parsed, err := ParseCaseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PersonID) UnmarshalText(b []byte) error {
	parsed, err := ParsePersonID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RecommendationID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecommendationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReviewID) UnmarshalText(b []byte) error {
	parsed, err := ParseReviewID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
