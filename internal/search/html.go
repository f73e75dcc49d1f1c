package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText remove a marcação de destaque (<b>) e decodifica entidades HTML
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
