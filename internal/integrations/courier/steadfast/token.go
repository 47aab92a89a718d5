package steadfast

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractToken достаёт CSRF-токен формы логина.
// Сначала скрытое поле _token, затем meta csrf-token.
func ExtractToken(html []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", false
	}
	if v, ok := doc.Find(`input[name="_token"]`).First().Attr("value"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := doc.Find(`meta[name="csrf-token"]`).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return "", false
}
