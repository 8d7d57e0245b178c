package deathreport

import "testing"

func TestChoiceList_Parse(t *testing.T) {
	tests := []struct {
		name    string
		list    *ChoiceList
		code    string
		other   string
		wantErr bool
	}{
		{"known code", SourceOfDeathInfo, "autopsy", "", false},
		{"other with text", SourceOfDeathInfo, "other", "neighbour", false},
		{"other without text", SourceOfDeathInfo, "other", "", true},
		{"text on known code", SourceOfDeathInfo, "autopsy", "extra", true},
		{"unknown code", SourceOfDeathInfo, "rumour", "", true},
		{"empty", HospitalizationReasons, "", "", false},
		{"text without code", HospitalizationReasons, "", "fever", true},
		{"second sentinel", HospitalizationReasons, "non_infectious", "fall", false},
		{"no sentinel list", MedicalResponsibility, "other", "x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.list.Parse(tt.code, tt.other)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse(%q, %q) error = %v, wantErr %v", tt.code, tt.other, err, tt.wantErr)
			}
		})
	}
}

func TestChoice_Accessors(t *testing.T) {
	c, err := CauseOfDeathCategory.Parse("other", "snake bite")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Code() != "other" || !c.Is("other") {
		t.Errorf("unexpected code %q", c.Code())
	}
	text, ok := c.Other()
	if !ok || text != "snake bite" {
		t.Errorf("Other() = %q, %v", text, ok)
	}
	if c.String() != "Other, specify: snake bite" {
		t.Errorf("unexpected String() %q", c.String())
	}

	known, err := YesNo.Parse(Yes, "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := known.Other(); ok {
		t.Error("known code reported as other")
	}
	if known.String() != "Yes" {
		t.Errorf("unexpected String() %q", known.String())
	}

	var zero Choice
	if !zero.IsZero() || zero.String() != "" {
		t.Error("zero choice should be empty")
	}
}

func TestChoiceLists(t *testing.T) {
	for name, l := range ChoiceLists {
		if l.Name() != name {
			t.Errorf("list %q indexed as %q", l.Name(), name)
		}
		if len(l.Options()) == 0 {
			t.Errorf("list %q is empty", name)
		}
	}
	if MedicalResponsibility.AcceptsOther() {
		t.Error("medical responsibility has no other option")
	}
	if !HospitalizationReasons.AcceptsOther() {
		t.Error("hospitalization reasons take free text")
	}
	if got := SourceOfDeathInfo.Display("autopsy"); got != "Autopsy" {
		t.Errorf("unexpected display %q", got)
	}
}
