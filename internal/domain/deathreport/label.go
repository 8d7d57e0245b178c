package deathreport

import (
	"time"

	"github.com/flourish/flourish-prn/internal/platform/datefmt"
)

// LabelFormat is the short-date display setting and the timezone the
// report time is shown in.
type LabelFormat struct {
	Layout   string
	Location *time.Location
}

// NewLabelFormat converts a PHP-style short date format such as "d/m/Y".
func NewLabelFormat(phpFormat string, loc *time.Location) LabelFormat {
	if phpFormat == "" {
		phpFormat = datefmt.DefaultShortDate
	}
	if loc == nil {
		loc = time.UTC
	}
	return LabelFormat{Layout: datefmt.ConvertPHPDateFormat(phpFormat), Location: loc}
}

// RenderLabel returns "<subject_identifier> <short date of report_datetime>".
func (r *DeathReport) RenderLabel(f LabelFormat) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return r.SubjectIdentifier + " " + r.ReportDatetime.In(loc).Format(f.Layout)
}
