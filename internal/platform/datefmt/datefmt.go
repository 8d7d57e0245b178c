// Package datefmt converts PHP-style date format strings, as used by the
// SHORT_DATE_FORMAT setting, into Go time layouts.
package datefmt

import "strings"

// DefaultShortDate is the study's short date display format.
const DefaultShortDate = "d/m/Y"

var phpToGo = map[byte]string{
	'd': "02",
	'j': "2",
	'D': "Mon",
	'l': "Monday",
	'm': "01",
	'n': "1",
	'M': "Jan",
	'F': "January",
	'y': "06",
	'Y': "2006",
	'H': "15",
	'G': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
	'T': "MST",
	'O': "-0700",
	'P': "-07:00",
}

// ConvertPHPDateFormat maps each PHP format character to its Go layout
// equivalent. A backslash makes the next character literal. Characters with
// no mapping are copied unchanged.
func ConvertPHPDateFormat(php string) string {
	var b strings.Builder
	for i := 0; i < len(php); i++ {
		ch := php[i]
		if ch == '\\' && i+1 < len(php) {
			i++
			b.WriteByte(php[i])
			continue
		}
		if layout, ok := phpToGo[ch]; ok {
			b.WriteString(layout)
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}
