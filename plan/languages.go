package plan

import (
	"github.com/ancientlore/chronicle/collection"
	"github.com/ancientlore/chronicle/document"
)

// Translations maps a language tag to the tag of its translation counterpart,
// for example {"en": "ru", "ru": "en"}.
type Translations map[string]string

// Counterpart returns the counterpart language of lang, if one is configured.
func (t Translations) Counterpart(lang string) (string, bool) {
	c, ok := t[lang]
	return c, ok && c != "" && c != lang
}

// Partition splits docs into one ordered slice per language, keyed by language tag
// in first-seen order. Documents without a language are in no partition.
func Partition(docs []*document.Document) *document.Groups {
	return collection.Group(docs, document.FieldLang)
}

// LinkTranslations returns copies of docs with Translation set to whether a document
// with the same URL exists in counterpart. A nil or empty counterpart means no
// document has a translation.
func LinkTranslations(docs, counterpart []*document.Document) []*document.Document {
	known := make(map[string]struct{}, len(counterpart))
	for _, d := range counterpart {
		known[d.URL] = struct{}{}
	}
	r := make([]*document.Document, len(docs))
	for i, d := range docs {
		_, ok := known[d.URL]
		c := d.Clone()
		c.Translation = ok
		r[i] = c
	}
	return r
}

// linkLanguage links the documents of lang against its configured counterpart partition.
func linkLanguage(partitions *document.Groups, lang string, tr Translations) []*document.Document {
	var counterpart []*document.Document
	if other, ok := tr.Counterpart(lang); ok {
		counterpart = partitions.Get(other)
	}
	return LinkTranslations(partitions.Get(lang), counterpart)
}
