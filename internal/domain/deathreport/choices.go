package deathreport

import "fmt"

// Option is one entry of a fixed choice list.
type Option struct {
	Code    string `json:"code"`
	Display string `json:"display"`
	// Other marks a sentinel whose selection calls for free-text detail.
	Other bool `json:"other,omitempty"`
}

// ChoiceList is an ordered, immutable value list.
type ChoiceList struct {
	name    string
	options []Option
	index   map[string]int
}

func newChoiceList(name string, options ...Option) *ChoiceList {
	l := &ChoiceList{name: name, options: options, index: make(map[string]int, len(options))}
	for i, o := range options {
		if _, dup := l.index[o.Code]; dup {
			panic(fmt.Sprintf("choice list %s: duplicate code %q", name, o.Code))
		}
		l.index[o.Code] = i
	}
	return l
}

func (l *ChoiceList) Name() string { return l.name }

func (l *ChoiceList) Has(code string) bool {
	_, ok := l.index[code]
	return ok
}

// IsOther reports whether code is one of the list's "other" sentinels.
func (l *ChoiceList) IsOther(code string) bool {
	i, ok := l.index[code]
	return ok && l.options[i].Other
}

// AcceptsOther reports whether any option of the list takes free text.
func (l *ChoiceList) AcceptsOther() bool {
	for _, o := range l.options {
		if o.Other {
			return true
		}
	}
	return false
}

func (l *ChoiceList) Display(code string) string {
	if i, ok := l.index[code]; ok {
		return l.options[i].Display
	}
	return ""
}

func (l *ChoiceList) Options() []Option {
	return append([]Option(nil), l.options...)
}

const (
	Yes = "Yes"
	No  = "No"
)

var YesNo = newChoiceList("yes_no",
	Option{Code: Yes, Display: "Yes"},
	Option{Code: No, Display: "No"},
)

var SourceOfDeathInfo = newChoiceList("source_of_death_info",
	Option{Code: "autopsy", Display: "Autopsy"},
	Option{Code: "clinical_records", Display: "Clinical records"},
	Option{Code: "study_staff", Display: "Information from study care taker staff prior to death"},
	Option{Code: "health_care_provider", Display: "Contact with a physician/nurse/other health care provider"},
	Option{Code: "death_certificate", Display: "Death certificate"},
	Option{Code: "relatives_friends", Display: "Information from relatives or friends"},
	Option{Code: "other", Display: "Other", Other: true},
)

var CauseOfDeathCategory = newChoiceList("cause_of_death_category",
	Option{Code: "hiv_related", Display: "HIV infection or HIV related diseases"},
	Option{Code: "hiv_unrelated", Display: "Disease unrelated to HIV"},
	Option{Code: "study_drug", Display: "Toxicity from study drug"},
	Option{Code: "non_study_drug", Display: "Toxicity from non-study drug"},
	Option{Code: "trauma", Display: "Trauma/Accident"},
	Option{Code: "no_info", Display: "No information will ever be available"},
	Option{Code: "other", Display: "Other, specify", Other: true},
)

var MedicalResponsibility = newChoiceList("medical_responsibility",
	Option{Code: "doctor", Display: "Doctor"},
	Option{Code: "nurse", Display: "Nurse"},
	Option{Code: "traditional", Display: "Traditional healer"},
	Option{Code: "doctor_nurse", Display: "Both doctor and nurse"},
	Option{Code: "doctor_traditional", Display: "Both doctor and traditional healer"},
	Option{Code: "nurse_traditional", Display: "Both nurse and traditional healer"},
	Option{Code: "all", Display: "Doctor, nurse and traditional healer"},
	Option{Code: "none", Display: "No one"},
)

var HospitalizationReasons = newChoiceList("hospitalization_reasons",
	Option{Code: "respiratory_illness", Display: "Respiratory illness (unspecified)"},
	Option{Code: "cns_illness", Display: "CNS illness (unspecified)"},
	Option{Code: "respiratory_cns_illness", Display: "Respiratory and CNS illness (unspecified)"},
	Option{Code: "tb", Display: "Tuberculosis"},
	Option{Code: "pneumonia", Display: "Pneumonia"},
	Option{Code: "sepsis", Display: "Sepsis (unspecified)"},
	Option{Code: "meningitis", Display: "Meningitis"},
	Option{Code: "gastroenteritis", Display: "Gastroenteritis"},
	Option{Code: "hepatitis", Display: "Hepatitis"},
	Option{Code: "other_illness", Display: "Other illness or pathogen", Other: true},
	Option{Code: "non_infectious", Display: "Non-infectious reason", Other: true},
)

// ChoiceLists indexes every list by name.
var ChoiceLists = map[string]*ChoiceList{
	YesNo.Name():                  YesNo,
	SourceOfDeathInfo.Name():      SourceOfDeathInfo,
	CauseOfDeathCategory.Name():   CauseOfDeathCategory,
	MedicalResponsibility.Name():  MedicalResponsibility,
	HospitalizationReasons.Name(): HospitalizationReasons,
}
