package screening

import (
	"time"

	"github.com/google/uuid"
)

// Kind names the screening form a participant went through. Each kind has
// its own table.
type Kind string

const (
	KindPregnancy        Kind = "pregnancy"
	KindPriorParticipant Kind = "prior_participant"
)

func (k Kind) table() string {
	switch k {
	case KindPregnancy:
		return "screening_preg_women"
	case KindPriorParticipant:
		return "screening_prior_bhp_participants"
	}
	return ""
}

// Kinds is the order screenings are searched in.
var Kinds = []Kind{KindPregnancy, KindPriorParticipant}

type Screening struct {
	ID                  uuid.UUID `json:"id"`
	Kind                Kind      `json:"kind"`
	ScreeningIdentifier string    `json:"screening_identifier"`
	SubjectIdentifier   string    `json:"subject_identifier"`
	// StudyMaternalIdentifier links a prior participant to the earlier study.
	StudyMaternalIdentifier *string   `json:"study_maternal_identifier,omitempty"`
	ReportDatetime          time.Time `json:"report_datetime"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type ConsentVersion struct {
	ID                  uuid.UUID `json:"id"`
	ScreeningIdentifier string    `json:"screening_identifier"`
	Version             string    `json:"version"`
	ChildVersion        *string   `json:"child_version,omitempty"`
	ReportDatetime      time.Time `json:"report_datetime"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ScreeningRequest struct {
	ScreeningIdentifier     string     `json:"screening_identifier" validate:"omitempty,max=50"`
	SubjectIdentifier       string     `json:"subject_identifier" validate:"required,max=50"`
	StudyMaternalIdentifier string     `json:"study_maternal_identifier" validate:"omitempty,max=50"`
	ReportDatetime          *time.Time `json:"report_datetime" validate:"required,not_future"`
}

type ConsentVersionRequest struct {
	ScreeningIdentifier string     `json:"screening_identifier" validate:"required,max=50"`
	Version             string     `json:"version" validate:"required,max=10"`
	ChildVersion        string     `json:"child_version" validate:"omitempty,max=10"`
	ReportDatetime      *time.Time `json:"report_datetime" validate:"required,not_future"`
}
