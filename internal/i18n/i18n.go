package i18n

import "strings"

type Language string

const (
	Romanian Language = "ro"
	English  Language = "en"
)

// Labels are the strings written into the spreadsheets.
type Labels struct {
	Yes    string
	No     string
	Totals string
	Banner string
}

// ParseLanguage maps a configured language code to a Language.
// Unknown codes fall back to English.
func ParseLanguage(code string) Language {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "ro":
		return Romanian
	default:
		return English
	}
}

// LabelsFor returns the label set for lang.
func LabelsFor(lang Language) Labels {
	if lang == Romanian {
		return Labels{
			Yes:    "Da",
			No:     "Nu",
			Totals: "Total",
			Banner: "ATENȚIE, NU EDITAȚI: ACEASTĂ FOAIE ESTE GENERATĂ AUTOMAT",
		}
	}
	return Labels{
		Yes:    "Yes",
		No:     "No",
		Totals: "Totals",
		Banner: "WARNING DO NOT EDIT: THIS IS AUTOMATICALLY GENERATED",
	}
}
