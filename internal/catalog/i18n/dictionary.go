// Package i18n holds the catalog's label translations and applies them to markup.
package i18n

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Dictionary maps language code -> label key -> display string.
type Dictionary map[string]map[string]string

// Label keys used by the catalog markup.
const (
	KeyPageTitle         = "page.title"
	KeySearchPlaceholder = "search.placeholder"
	KeyCategories        = "nav.categories"
	KeyWeight            = "label.weight"
	KeyProtein100g       = "label.protein_100g"
	KeyProteinUnit       = "label.protein_unit"
	KeyPrice             = "label.price"
	KeyEmpty             = "list.empty"
	KeyLoading           = "list.loading"
	KeyScrollTop         = "scroll.top"
	KeyModalClose        = "modal.close"
	KeyContinued         = "list.continued"
	KeyLanguageName      = "language.name"
)

// Default is the built-in dictionary. German is the catalog's source language.
var Default = Dictionary{
	"de": {
		KeyPageTitle:         "Produktkatalog",
		KeySearchPlaceholder: "Produkt suchen…",
		KeyCategories:        "Kategorien",
		KeyWeight:            "Gewicht",
		KeyProtein100g:       "Eiweiß (pro 100g)",
		KeyProteinUnit:       "Eiweiß (pro Stück)",
		KeyPrice:             "Preis",
		KeyEmpty:             "Keine Produkte gefunden.",
		KeyLoading:           "Wird geladen…",
		KeyScrollTop:         "Nach oben",
		KeyModalClose:        "Schließen",
		KeyContinued:         "Fortsetzung",
		KeyLanguageName:      "Deutsch",
	},
	"ru": {
		KeyPageTitle:         "Каталог товаров",
		KeySearchPlaceholder: "Поиск товара…",
		KeyCategories:        "Категории",
		KeyWeight:            "Вес",
		KeyProtein100g:       "Белок (на 100 г)",
		KeyProteinUnit:       "Белок (за штуку)",
		KeyPrice:             "Цена",
		KeyEmpty:             "Товары не найдены.",
		KeyLoading:           "Загрузка…",
		KeyScrollTop:         "Наверх",
		KeyModalClose:        "Закрыть",
		KeyContinued:         "продолжение",
		KeyLanguageName:      "Русский",
	},
	"en": {
		KeyPageTitle:         "Product catalog",
		KeySearchPlaceholder: "Search products…",
		KeyCategories:        "Categories",
		KeyWeight:            "Weight",
		KeyProtein100g:       "Protein (per 100g)",
		KeyProteinUnit:       "Protein (per piece)",
		KeyPrice:             "Price",
		KeyEmpty:             "No products found.",
		KeyLoading:           "Loading…",
		KeyScrollTop:         "Back to top",
		KeyModalClose:        "Close",
		KeyContinued:         "continued",
		KeyLanguageName:      "English",
	},
}

// Merge returns a new dictionary with overlay entries applied on top of d.
// Language codes are normalized, so an overlay "DE" extends "de".
func (d Dictionary) Merge(overlay Dictionary) Dictionary {
	out := make(Dictionary, len(d)+len(overlay))
	for _, src := range []Dictionary{d, overlay} {
		langs := make([]string, 0, len(src))
		for lang := range src {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			// Invalid codes are kept as written and rejected by New.
			code, _ := NormalizeCode(lang)
			if out[code] == nil {
				out[code] = make(map[string]string, len(src[lang]))
			}
			for k, v := range src[lang] {
				out[code][k] = v
			}
		}
	}
	return out
}

// LoadOverlay reads a YAML document of the form `lang: {key: text}`.
func LoadOverlay(path string) (Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read overlay %s: %w", path, err)
	}
	var d Dictionary
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("i18n: parse overlay %s: %w", path, err)
	}
	return d, nil
}
