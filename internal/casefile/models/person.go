package models

import (
	"strings"
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// Person is an involved employee, owned exclusively by one case.
//
// Invariants:
//   - Name is non-empty
//   - A case admits at most two complainants; ordinal (first vs second) is
//     determined by insertion order among complainants
//   - Witnesses (Complainant=false) are unbounded
type Person struct {
	ID          id.PersonID `json:"id"`
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	Department  string      `json:"department"`
	FileNumber  string      `json:"file_number"`
	Complainant bool        `json:"complainant"`
	AddedAt     time.Time   `json:"added_at"`
}

// NewPerson validates and constructs a person record.
func NewPerson(personID id.PersonID, name, role, department, fileNumber string, complainant bool, now time.Time) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "person name is required")
	}
	return &Person{
		ID:          personID,
		Name:        name,
		Role:        role,
		Department:  department,
		FileNumber:  fileNumber,
		Complainant: complainant,
		AddedAt:     now,
	}, nil
}
