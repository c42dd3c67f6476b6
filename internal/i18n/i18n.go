// Package i18n selects the message printer used for CLI output.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLang is the fallback language
var DefaultLang = language.English

// SupportedLangs are the languages we support
var SupportedLangs = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(SupportedLangs)

// MatchLanguage returns the best supported language for a locale such as
// "de_DE.UTF-8" or an Accept-Language style list.
func MatchLanguage(locale string) language.Tag {
	if i := strings.Index(locale, "."); i != -1 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, index, _ := matcher.Match(tags...)
	return SupportedLangs[index]
}

// NewCLIPrinter returns a printer for the system's locale (from env vars)
func NewCLIPrinter() *message.Printer {
	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return message.NewPrinter(DefaultLang)
	}
	return message.NewPrinter(MatchLanguage(lang))
}
