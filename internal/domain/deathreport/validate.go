package deathreport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rules carries the protocol facts the validators compare against. Now
// defaults to time.Now and Location to UTC.
type Rules struct {
	StudyOpen time.Time
	Now       func() time.Time
	Location  *time.Location
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Rules) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.UTC
}

// today is the current calendar date in the study's timezone, as a UTC
// midnight to compare with parsed dates.
func (r Rules) today() time.Time {
	y, m, d := r.now().In(r.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var messages = map[string]string{
	"required":              "This field is required.",
	"max":                   "Ensure this value has at most %s characters.",
	"min":                   "Ensure this value is greater than or equal to %s.",
	"datetime":              "Enter a valid date (YYYY-MM-DD).",
	"choice":                "Select a valid choice.",
	"not_future":            "Date and time cannot be in the future.",
	"date_not_future":       "Date cannot be in the future.",
	"not_before_study_open": "Date and time cannot be before the study opened.",
	"other_required":        "This field is required when other is selected.",
	"other_not_applicable":  "This field is only applicable when other is selected.",
	"required_if_yes":       "This field is required when the participant was hospitalised.",
	"not_applicable":        "This field is not applicable when the participant was not hospitalised.",
}

// Validator checks forms against the field constraints and the rules tying
// companion fields together.
type Validator struct {
	v     *validator.Validate
	rules Rules
}

func NewValidator(rules Rules) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	val := &Validator{v: v, rules: rules}
	mustRegister(v, "choice", validChoice)
	mustRegister(v, "not_future", val.notFuture)
	mustRegister(v, "date_not_future", val.dateNotFuture)
	mustRegister(v, "not_before_study_open", val.notBeforeStudyOpen)
	v.RegisterStructValidation(formRules, Form{})
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func (val *Validator) Rules() Rules { return val.rules }

// Validate returns nil or ValidationFailures listing every problem.
func (val *Validator) Validate(f *Form) error {
	err := val.v.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	failures := make(ValidationFailures, 0, len(verrs))
	for _, fe := range verrs {
		failures = append(failures, &ValidationFailure{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return failures
}

func messageFor(fe validator.FieldError) string {
	msg, ok := messages[fe.Tag()]
	if !ok {
		return "Enter a valid value."
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}

func validChoice(fl validator.FieldLevel) bool {
	list, ok := ChoiceLists[fl.Param()]
	if !ok {
		return false
	}
	return list.Has(fl.Field().String())
}

func timeOf(fl validator.FieldLevel) (time.Time, bool) {
	t, ok := fl.Field().Interface().(time.Time)
	return t, ok
}

func (val *Validator) notFuture(fl validator.FieldLevel) bool {
	t, ok := timeOf(fl)
	return ok && !t.After(val.rules.now())
}

func (val *Validator) notBeforeStudyOpen(fl validator.FieldLevel) bool {
	t, ok := timeOf(fl)
	return ok && !t.Before(val.rules.StudyOpen)
}

func (val *Validator) dateNotFuture(fl validator.FieldLevel) bool {
	d, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		// the datetime tag reports the format problem
		return true
	}
	return !d.After(val.rules.today())
}

// formRules enforces the pairing of companion fields:
//   - "*_other" text is required with, and only allowed with, an other sentinel
//   - the reason for hospitalisation is required when hospitalised, and
//     absent otherwise, as are hospitalised days
func formRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)

	checkOther(sl, SourceOfDeathInfo, f.Cause, f.CauseOther, "CauseOther", "cause_other")
	checkOther(sl, CauseOfDeathCategory, f.CauseCategory, f.CauseCategoryOther, "CauseCategoryOther", "cause_category_other")
	checkOther(sl, HospitalizationReasons, f.ReasonHospitalized, f.ReasonHospitalizedOther, "ReasonHospitalizedOther", "reason_hospitalized_other")

	switch f.ParticipantHospitalized {
	case Yes:
		if f.ReasonHospitalized == "" {
			sl.ReportError(f.ReasonHospitalized, "reason_hospitalized", "ReasonHospitalized", "required_if_yes", "")
		}
	case No:
		if f.ReasonHospitalized != "" {
			sl.ReportError(f.ReasonHospitalized, "reason_hospitalized", "ReasonHospitalized", "not_applicable", "")
		}
		if f.DaysHospitalized != 0 {
			sl.ReportError(f.DaysHospitalized, "days_hospitalized", "DaysHospitalized", "not_applicable", "")
		}
	}
}

func checkOther(sl validator.StructLevel, list *ChoiceList, code, other, field, jsonName string) {
	switch {
	case list.IsOther(code) && strings.TrimSpace(other) == "":
		sl.ReportError(other, jsonName, field, "other_required", "")
	case !list.IsOther(code) && other != "":
		sl.ReportError(other, jsonName, field, "other_not_applicable", "")
	}
}
