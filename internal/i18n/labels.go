// Package i18n provides the translated labels shown on widgets.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	UnifiedInbox = "Unified Inbox"
	Inbox        = "Inbox"
	Outbox       = "Outbox"
	Drafts       = "Drafts"
	Sent         = "Sent"
	Trash        = "Trash"
	Spam         = "Spam"
	Archive      = "Archive"
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		UnifiedInbox: "Gemeinsamer Posteingang",
		Inbox:        "Posteingang",
		Outbox:       "Postausgang",
		Drafts:       "Entwürfe",
		Sent:         "Gesendet",
		Trash:        "Papierkorb",
		Spam:         "Spam",
		Archive:      "Archiv",
	},
	language.French: {
		UnifiedInbox: "Boîte de réception unifiée",
		Inbox:        "Boîte de réception",
		Outbox:       "Boîte d'envoi",
		Drafts:       "Brouillons",
		Sent:         "Envoyés",
		Trash:        "Corbeille",
		Spam:         "Pourriel",
		Archive:      "Archives",
	},
}

// supported lists the catalog languages; the first entry is the fallback.
var supported = []language.Tag{language.English, language.German, language.French}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			// Keys contain no format verbs, so SetString cannot fail.
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Labels translates message keys into one language. The zero value is not
// usable; create one with New.
type Labels struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns labels for the supported language closest to locale, a BCP 47
// tag such as "de-AT". Unknown or malformed locales fall back to English.
func New(locale string) Labels {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return Labels{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Language returns the language the labels are rendered in.
func (l Labels) Language() language.Tag {
	return l.tag
}

// Get returns the translation of key. Keys without a translation are
// returned unchanged.
func (l Labels) Get(key string) string {
	return l.printer.Sprintf(key)
}
