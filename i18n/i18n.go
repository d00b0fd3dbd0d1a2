// Package i18n holds the fr/en message catalog used for API error details
// and CLI labels.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "fr"

var messages = map[string]map[string]string{
	"fr": {
		"required":             "Requis",
		"invalid":              "Valeur invalide",
		"invalid_number":       "Nombre invalide",
		"invalid_json":         "Corps JSON invalide",
		"must_not_be_negative": "Ne doit pas être négatif",
		"out_of_range":         "Hors limites",
		"unknown_value":        "Valeur inconnue",
		"tax_mode_conflict":    "Taux de TVA global interdit en mode TVA par ligne",
		"not_found":            "Introuvable",
		"over_discount":        "Remise supérieure au sous-total",
		"undefined":            "non défini",
		"risk_low":             "Faible",
		"risk_medium":          "Moyen",
		"risk_high":            "Élevé",
		"risk_critical":        "Critique",
	},
	"en": {
		"required":             "Required",
		"invalid":              "Invalid value",
		"invalid_number":       "Invalid number",
		"invalid_json":         "Invalid JSON body",
		"must_not_be_negative": "Must not be negative",
		"out_of_range":         "Out of range",
		"unknown_value":        "Unknown value",
		"tax_mode_conflict":    "Document tax rate not allowed in per-item tax mode",
		"not_found":            "Not found",
		"over_discount":        "Discount exceeds subtotal",
		"undefined":            "undefined",
		"risk_low":             "Low",
		"risk_medium":          "Medium",
		"risk_high":            "High",
		"risk_critical":        "Critical",
	},
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, defaulting to fr.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[tag]; ok {
			return tag
		}
	}
	return DefaultLang
}

// T translates code. Unknown languages use fr; unknown codes are returned as is.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLang][code]; ok {
		return msg
	}
	return code
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored in ctx, or fr.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
