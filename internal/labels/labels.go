// Package labels derives chart axis labels from date sequences, with
// locale-aware short month names.
package labels

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// shortMonthNames holds the abbreviated month names per supported locale.
// The key set must stay in sync with supportedTags below.
var shortMonthNames = map[string][12]string{
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"ru": {"янв", "фев", "мар", "апр", "май", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"},
	"fi": {"tammi", "helmi", "maalis", "huhti", "touko", "kesä", "heinä", "elo", "syys", "loka", "marras", "joulu"},
	"de": {"Jan", "Feb", "März", "Apr", "Mai", "Juni", "Juli", "Aug", "Sept", "Okt", "Nov", "Dez"},
	"fr": {"janv", "févr", "mars", "avr", "mai", "juin", "juil", "août", "sept", "oct", "nov", "déc"},
	"es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	"it": {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	"pt": {"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
}

// supportedTags lists the locales with month-name tables, English first so
// it is the matcher's fallback.
var supportedTags = []language.Tag{
	language.English,
	language.Russian,
	language.Finnish,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Portuguese,
}

var matcher = language.NewMatcher(supportedTags)

// DefaultLocale is used when the caller passes an empty locale.
const DefaultLocale = "en"

// monthNames resolves the month-name table for a BCP 47 locale string,
// falling back to English for unknown or unsupported locales.
func monthNames(locale string) [12]string {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return shortMonthNames[DefaultLocale]
	}

	_, index, _ := matcher.Match(tag)
	base, _ := supportedTags[index].Base()
	if names, ok := shortMonthNames[base.String()]; ok {
		return names
	}
	return shortMonthNames[DefaultLocale]
}

// ShortMonth returns the locale's abbreviated name for the given month.
func ShortMonth(month time.Month, locale string) string {
	return monthNames(locale)[month-1]
}

// YearMonth returns one label per date: the short month name on the first
// day of each month, an empty string everywhere else. Used for sparse axis
// ticks.
func YearMonth(dates []time.Time, locale string) []string {
	names := monthNames(locale)

	result := make([]string, len(dates))
	for i, date := range dates {
		if date.Day() == 1 {
			result[i] = names[date.Month()-1]
		}
	}
	return result
}

// MonthDays returns one "day.shortMonth" label per date, used as full
// per-point labels and tooltips.
func MonthDays(dates []time.Time, locale string) []string {
	names := monthNames(locale)

	result := make([]string, len(dates))
	for i, date := range dates {
		result[i] = fmt.Sprintf("%d.%s", date.Day(), names[date.Month()-1])
	}
	return result
}
