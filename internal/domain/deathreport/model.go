package deathreport

import (
	"time"

	"github.com/google/uuid"
)

// UnknownDuration is entered when the length of the acute illness is unknown.
const UnknownDuration = -1

// DeathReport maps to the death_report table. One report exists per
// deceased participant.
type DeathReport struct {
	ID                      uuid.UUID
	SubjectIdentifier       string
	ReportDatetime          time.Time
	DeathDate               time.Time
	Cause                   Choice
	PerformAutopsy          Choice
	DeathCause              *string
	CauseCategory           Choice
	IllnessDuration         int
	MedicalResponsibility   Choice
	ParticipantHospitalized Choice
	ReasonHospitalized      Choice
	DaysHospitalized        int
	Comment                 *string
	// ConsentVersion is derived on every save and never taken from input.
	ConsentVersion string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
