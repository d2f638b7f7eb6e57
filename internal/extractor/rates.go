package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const (
	SourceTableHeader = "table-header"
	SourceTableRow    = "table-row"
	SourceText        = "text"
)

var percentRe = regexp.MustCompile(`\d+\.?\d*\s*%`)

var (
	headerKeywords = []string{"duty", "tariff", "rate", "tax", "charge"}
	rowKeywords    = []string{"duty", "tariff", "rate", "tax", "import charge", "percentage"}
	dutyTerms      = []string{"duty", "tax", "tariff", "vat", "customs", "levy", "charge", "fee"}
)

// Первое текстовое дитя содержит одно из слов, в двух регистрах.
const textXPath = "//*[contains(text(), 'duty') or contains(text(), 'Duty') or " +
	"contains(text(), 'rate') or contains(text(), 'Rate') or " +
	"contains(text(), 'tariff') or contains(text(), 'Tariff') or " +
	"contains(text(), 'tax') or contains(text(), 'Tax')]"

// Rates - ставки пошлин, найденные на странице результата.
type Rates struct {
	Percentages []string `json:"percentages"`
	Rows        []string `json:"rows,omitempty"`
	Terms       []string `json:"terms,omitempty"`
	Source      string   `json:"source,omitempty"`
}

func (r *Rates) Found() bool {
	return r != nil && len(r.Percentages) > 0
}

func (r *Rates) Summary() string {
	if !r.Found() {
		return "no duty rates found"
	}
	return fmt.Sprintf("duty rates (%s): %s", r.Source, strings.Join(r.Percentages, ", "))
}

// ExtractRates ищет ставки сначала в таблицах, потом в тексте страницы.
func ExtractRates(markup string) (*Rates, error) {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора страницы: %w", err)
	}

	r := &Rates{Terms: termsIn(doc)}
	for _, table := range htmlquery.Find(doc, "//table") {
		r.scanTable(table)
	}
	if len(r.Rows) > 0 {
		return r, nil
	}

	for _, n := range htmlquery.Find(doc, textXPath) {
		if hiddenContainer(n) {
			continue
		}
		text := collapse(htmlquery.InnerText(n))
		found := percentRe.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		r.Source = SourceText
		r.Rows = append(r.Rows, text)
		r.addPercentages(found)
	}
	return r, nil
}

func (r *Rates) scanTable(table *html.Node) {
	var headers []string
	for _, th := range htmlquery.Find(table, ".//th") {
		headers = append(headers, collapse(htmlquery.InnerText(th)))
	}
	byHeader := containsAny(strings.ToLower(strings.Join(headers, " ")), headerKeywords)

	for _, tr := range htmlquery.Find(table, ".//tr") {
		cells := htmlquery.Find(tr, "./td")
		if len(cells) == 0 {
			continue
		}
		parts := make([]string, 0, len(cells))
		for _, td := range cells {
			parts = append(parts, collapse(htmlquery.InnerText(td)))
		}
		row := strings.Join(parts, " ")

		switch {
		case byHeader:
			r.Source = SourceTableHeader
		case containsAny(strings.ToLower(row), rowKeywords):
			if r.Source == "" {
				r.Source = SourceTableRow
			}
		default:
			continue
		}
		r.Rows = append(r.Rows, row)
		r.addPercentages(percentRe.FindAllString(row, -1))
	}
}

func (r *Rates) addPercentages(found []string) {
	for _, p := range found {
		p = collapse(p)
		seen := false
		for _, have := range r.Percentages {
			if have == p {
				seen = true
				break
			}
		}
		if !seen {
			r.Percentages = append(r.Percentages, p)
		}
	}
}

func termsIn(doc *html.Node) []string {
	body := htmlquery.FindOne(doc, "//body")
	if body == nil {
		return nil
	}
	text := strings.ToLower(htmlquery.InnerText(body))
	var out []string
	for _, term := range dutyTerms {
		if strings.Contains(text, term) {
			out = append(out, term)
		}
	}
	return out
}

func hiddenContainer(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.Data {
		case "script", "style", "head", "template", "noscript":
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
