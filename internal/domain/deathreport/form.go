package deathreport

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Form is the death report as entered, one JSON key per input. Declarative
// constraints live in the validate tags; the rules tying fields together are
// in formRules.
type Form struct {
	SubjectIdentifier       string     `json:"subject_identifier" validate:"required,max=50"`
	ReportDatetime          *time.Time `json:"report_datetime" validate:"required,not_before_study_open,not_future"`
	DeathDate               string     `json:"death_date" validate:"required,datetime=2006-01-02,date_not_future"`
	Cause                   string     `json:"cause" validate:"required,max=100,choice=source_of_death_info"`
	CauseOther              string     `json:"cause_other,omitempty" validate:"max=100"`
	PerformAutopsy          string     `json:"perform_autopsy" validate:"required,max=3,choice=yes_no"`
	DeathCause              string     `json:"death_cause,omitempty"`
	CauseCategory           string     `json:"cause_category" validate:"required,max=50,choice=cause_of_death_category"`
	CauseCategoryOther      string     `json:"cause_category_other,omitempty" validate:"max=100"`
	IllnessDuration         *int       `json:"illness_duration" validate:"required,min=-1"`
	MedicalResponsibility   string     `json:"medical_responsibility" validate:"required,max=50,choice=medical_responsibility"`
	ParticipantHospitalized string     `json:"participant_hospitalized" validate:"required,max=3,choice=yes_no"`
	ReasonHospitalized      string     `json:"reason_hospitalized,omitempty" validate:"omitempty,max=70,choice=hospitalization_reasons"`
	ReasonHospitalizedOther string     `json:"reason_hospitalized_other,omitempty" validate:"max=250"`
	DaysHospitalized        int        `json:"days_hospitalized" validate:"min=0"`
	Comment                 string     `json:"comment,omitempty" validate:"max=500"`
}

// Record converts a validated form into a DeathReport carrying id.
func (f *Form) Record(id uuid.UUID) (*DeathReport, error) {
	if f.ReportDatetime == nil || f.IllnessDuration == nil {
		return nil, fmt.Errorf("form not validated")
	}
	deathDate, err := time.Parse(dateLayout, f.DeathDate)
	if err != nil {
		return nil, fmt.Errorf("death_date: %w", err)
	}

	r := &DeathReport{
		ID:                id,
		SubjectIdentifier: f.SubjectIdentifier,
		ReportDatetime:    f.ReportDatetime.UTC(),
		DeathDate:         deathDate,
		IllnessDuration:   *f.IllnessDuration,
		DaysHospitalized:  f.DaysHospitalized,
		DeathCause:        optional(f.DeathCause),
		Comment:           optional(f.Comment),
	}

	parse := []struct {
		dst         *Choice
		list        *ChoiceList
		code, other string
	}{
		{&r.Cause, SourceOfDeathInfo, f.Cause, f.CauseOther},
		{&r.PerformAutopsy, YesNo, f.PerformAutopsy, ""},
		{&r.CauseCategory, CauseOfDeathCategory, f.CauseCategory, f.CauseCategoryOther},
		{&r.MedicalResponsibility, MedicalResponsibility, f.MedicalResponsibility, ""},
		{&r.ParticipantHospitalized, YesNo, f.ParticipantHospitalized, ""},
		{&r.ReasonHospitalized, HospitalizationReasons, f.ReasonHospitalized, f.ReasonHospitalizedOther},
	}
	for _, p := range parse {
		c, err := p.list.Parse(p.code, p.other)
		if err != nil {
			return nil, err
		}
		*p.dst = c
	}
	return r, nil
}

// FormOf renders a record back into its form representation.
func FormOf(r *DeathReport) Form {
	rd := r.ReportDatetime
	dur := r.IllnessDuration
	return Form{
		SubjectIdentifier:       r.SubjectIdentifier,
		ReportDatetime:          &rd,
		DeathDate:               r.DeathDate.Format(dateLayout),
		Cause:                   r.Cause.Code(),
		CauseOther:              r.Cause.OtherText(),
		PerformAutopsy:          r.PerformAutopsy.Code(),
		DeathCause:              deref(r.DeathCause),
		CauseCategory:           r.CauseCategory.Code(),
		CauseCategoryOther:      r.CauseCategory.OtherText(),
		IllnessDuration:         &dur,
		MedicalResponsibility:   r.MedicalResponsibility.Code(),
		ParticipantHospitalized: r.ParticipantHospitalized.Code(),
		ReasonHospitalized:      r.ReasonHospitalized.Code(),
		ReasonHospitalizedOther: r.ReasonHospitalized.OtherText(),
		DaysHospitalized:        r.DaysHospitalized,
		Comment:                 deref(r.Comment),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
