// Package i18n translates API message codes. German is the primary language,
// English the fallback for non-German clients.
package i18n

import "strings"

var messages = map[string]map[string]string{
	"de": {
		"required":               "Pflichtfeld",
		"must_be_positive":       "Muss größer als null sein",
		"out_of_range":           "Außerhalb des gültigen Bereichs",
		"invalid_value":          "Ungültiger Wert",
		"invalid_email":          "Ungültige E-Mail-Adresse",
		"invalid_date":           "Ungültiges Datum",
		"invalid_tax_rate":       "Ungültiger Steuersatz",
		"invalid_unit":           "Ungültige Einheit",
		"invalid_discount":       "Ungültiger Rabatt",
		"not_found":              "Nicht gefunden",
		"invalid_transition":     "Statuswechsel nicht zulässig",
		"customer_not_found":     "Kunde nicht gefunden",
		"layout_not_found":       "Layout nicht gefunden",
		"reminder_too_early":     "Mahnfrist noch nicht erreicht",
		"reminder_level_max":     "Höchste Mahnstufe erreicht",
		"company_not_configured": "Firmendaten nicht eingerichtet",
	},
	"en": {
		"required":               "Required",
		"must_be_positive":       "Must be greater than zero",
		"out_of_range":           "Out of range",
		"invalid_value":          "Invalid value",
		"invalid_email":          "Invalid email address",
		"invalid_date":           "Invalid date",
		"invalid_tax_rate":       "Invalid tax rate",
		"invalid_unit":           "Invalid unit",
		"invalid_discount":       "Invalid discount",
		"not_found":              "Not found",
		"invalid_transition":     "Status transition not allowed",
		"customer_not_found":     "Customer not found",
		"layout_not_found":       "Layout not found",
		"reminder_too_early":     "Reminder interval not yet reached",
		"reminder_level_max":     "Highest reminder level reached",
		"company_not_configured": "Company profile not configured",
	},
}

// T translates a message code. Unknown languages fall back to German, unknown
// codes fall back to the code itself so new codes degrade gracefully.
func T(lang, code string) string {
	m, ok := messages[lang]
	if !ok {
		m = messages["de"]
	}
	if msg, ok := m[code]; ok {
		return msg
	}
	if msg, ok := messages["de"][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage picks de or en from an Accept-Language header value.
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch {
		case strings.HasPrefix(tag, "de"):
			return "de"
		case strings.HasPrefix(tag, "en"):
			return "en"
		}
	}
	return "de"
}

// Translate maps every violation code in details to its message for lang.
func Translate(lang string, details map[string]string) map[string]string {
	out := make(map[string]string, len(details))
	for field, code := range details {
		out[field] = T(lang, code)
	}
	return out
}
