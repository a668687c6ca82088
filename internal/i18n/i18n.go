// Package i18n carries the request locale and translates user-facing messages.
package i18n

import (
	"context"

	"github.com/tinggo/tinggo/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type contextKey struct{}

var (
	cat      = newCatalog()
	printers = map[domain.Language]*message.Printer{}
)

func init() {
	for _, l := range domain.Languages() {
		printers[l] = message.NewPrinter(Tag(l), message.Catalog(cat))
	}
}

// Tag maps a supported language onto its BCP 47 tag.
func Tag(l domain.Language) language.Tag {
	switch l {
	case domain.LanguageSpanish:
		return language.Spanish
	case domain.LanguageHaitian:
		return language.MustParse("ht")
	}
	return language.English
}

// WithLanguage returns a context carrying l.
func WithLanguage(ctx context.Context, l domain.Language) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the request language, English when none was set.
func FromContext(ctx context.Context) domain.Language {
	if l, ok := ctx.Value(contextKey{}).(domain.Language); ok && l.Valid() {
		return l
	}
	return domain.LanguageEnglish
}

// T translates key into the context language, formatting args the way fmt.Sprintf does.
// Keys without a translation are returned formatted as-is.
func T(ctx context.Context, key string, args ...any) string {
	return printers[FromContext(ctx)].Sprintf(key, args...)
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		_ = b.SetString(language.English, key, key)
		if tr.es != "" {
			_ = b.SetString(language.Spanish, key, tr.es)
		}
		if tr.ht != "" {
			_ = b.SetString(language.MustParse("ht"), key, tr.ht)
		}
	}
	return b
}
