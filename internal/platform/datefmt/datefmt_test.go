package datefmt

import (
	"testing"
	"time"
)

func TestConvertPHPDateFormat(t *testing.T) {
	tests := []struct {
		php  string
		want string
	}{
		{"d/m/Y", "02/01/2006"},
		{"Y-m-d", "2006-01-02"},
		{"j M Y", "2 Jan 2006"},
		{"D, d F y", "Mon, 02 January 06"},
		{"d/m/Y H:i", "02/01/2006 15:04"},
		{"g:i a", "3:04 pm"},
		{`d\/m`, "02/01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ConvertPHPDateFormat(tt.php); got != tt.want {
			t.Errorf("ConvertPHPDateFormat(%q) = %q, want %q", tt.php, got, tt.want)
		}
	}
}

func TestConvertPHPDateFormat_FormatsTime(t *testing.T) {
	ts := time.Date(2021, time.March, 7, 14, 5, 0, 0, time.UTC)
	if got := ts.Format(ConvertPHPDateFormat(DefaultShortDate)); got != "07/03/2021" {
		t.Errorf("expected 07/03/2021, got %s", got)
	}
}
