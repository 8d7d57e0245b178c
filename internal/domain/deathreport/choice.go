package deathreport

import "fmt"

// Choice is a selection from a ChoiceList: either a known code, or an
// "other" sentinel carrying its free-text detail. The zero Choice means
// nothing was selected. A Choice can only be built through ChoiceList.Parse,
// so detail text never appears without its sentinel.
type Choice struct {
	list  *ChoiceList
	code  string
	other string
}

// Parse builds a Choice from the code and companion text as entered on the
// form. An empty code with empty text yields the zero Choice.
func (l *ChoiceList) Parse(code, other string) (Choice, error) {
	if code == "" {
		if other != "" {
			return Choice{}, fmt.Errorf("%s: detail given without a selection", l.name)
		}
		return Choice{}, nil
	}
	if !l.Has(code) {
		return Choice{}, fmt.Errorf("%s: %q is not a valid choice", l.name, code)
	}
	if l.IsOther(code) {
		if other == "" {
			return Choice{}, fmt.Errorf("%s: %q requires a specification", l.name, code)
		}
		return Choice{list: l, code: code, other: other}, nil
	}
	if other != "" {
		return Choice{}, fmt.Errorf("%s: specification only allowed for an other option", l.name)
	}
	return Choice{list: l, code: code}, nil
}

func (c Choice) IsZero() bool { return c.code == "" }

func (c Choice) Code() string { return c.code }

// Other returns the free-text detail and whether the choice is an "other"
// sentinel.
func (c Choice) Other() (string, bool) {
	return c.other, c.list != nil && c.list.IsOther(c.code)
}

// OtherText is the detail text, empty for known codes.
func (c Choice) OtherText() string { return c.other }

func (c Choice) Is(code string) bool { return c.code == code }

func (c Choice) String() string {
	if c.IsZero() {
		return ""
	}
	if c.other != "" {
		return c.list.Display(c.code) + ": " + c.other
	}
	return c.list.Display(c.code)
}

func (c Choice) ptrCode() *string {
	if c.IsZero() {
		return nil
	}
	s := c.code
	return &s
}

func (c Choice) ptrOther() *string {
	if c.other == "" {
		return nil
	}
	s := c.other
	return &s
}
