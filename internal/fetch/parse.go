package fetch

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

const (
	resultPanelID = "pnlResultNormal"
	errorLabelID  = "lblErrorMsg"
	cellBodyClass = "mobile-list-body"
)

// parseHoldings extracts the participant table from a search result page.
// Rows are keyed by the table's header labels and limited to count. A page
// without a result panel holds no rows, unless the registry put an error
// message on it.
func parseHoldings(r io.Reader, count int) ([]domain.RawRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	panel := findByID(doc, resultPanelID)
	if panel == nil {
		if lbl := findByID(doc, errorLabelID); lbl != nil {
			if msg := collapse(textOf(lbl)); msg != "" {
				return nil, &RegistryError{StatusCode: 200, Message: msg}
			}
		}
		return nil, nil
	}

	table := findFirst(panel, isElement(atom.Table))
	if table == nil {
		return nil, nil
	}

	var headers []string
	if thead := findFirst(table, isElement(atom.Thead)); thead != nil {
		if tr := findFirst(thead, isElement(atom.Tr)); tr != nil {
			for _, th := range findAll(tr, isElement(atom.Th)) {
				headers = append(headers, textOf(th))
			}
		}
	}
	if len(headers) == 0 {
		return nil, &domain.SchemaMismatchError{Reason: "result table has no header"}
	}

	tbody := findFirst(table, isElement(atom.Tbody))
	if tbody == nil {
		return nil, nil
	}

	var rows []domain.RawRow
	for _, tr := range findAll(tbody, isElement(atom.Tr)) {
		if len(rows) == count {
			break
		}
		cells := findAll(tr, isElement(atom.Td))
		if len(cells) != len(headers) {
			return nil, &domain.SchemaMismatchError{
				Reason: fmt.Sprintf("row has %d cells, header has %d", len(cells), len(headers)),
			}
		}
		row := make(domain.RawRow, len(headers))
		for i, td := range cells {
			row[headers[i]] = cellText(td)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseStockList extracts (code, name) pairs from the stock list page.
func parseStockList(r io.Reader) ([]domain.Stock, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse stock list: %w", err)
	}

	stocks := []domain.Stock{}
	tbody := findFirst(doc, isElement(atom.Tbody))
	if tbody == nil {
		return stocks, nil
	}
	for _, tr := range findAll(tbody, isElement(atom.Tr)) {
		cells := findAll(tr, isElement(atom.Td))
		if len(cells) < 2 {
			continue
		}
		code := collapse(textOf(cells[0]))
		if code == "" {
			continue
		}
		stocks = append(stocks, domain.Stock{Code: code, Name: collapse(textOf(cells[1]))})
	}
	return stocks, nil
}

// formState collects the hidden inputs of an ASP.NET page (__VIEWSTATE and
// friends) that must be posted back with a search.
func formState(r io.Reader) (url.Values, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	form := url.Values{}
	for _, in := range findAll(doc, isElement(atom.Input)) {
		if !strings.EqualFold(attr(in, "type"), "hidden") {
			continue
		}
		if name := attr(in, "name"); name != "" {
			form.Set(name, attr(in, "value"))
		}
	}
	return form, nil
}

// cellText returns the value of a result cell. Cells carry a heading for
// the mobile layout next to the value; only the value is wanted.
func cellText(td *html.Node) string {
	if body := findFirst(td, hasClass(cellBodyClass)); body != nil {
		return strings.TrimSpace(textOf(body))
	}
	return strings.TrimSpace(textOf(td))
}

// textOf concatenates the text under n, rendering <br> as a newline and
// trimming each line.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func findByID(n *html.Node, id string) *html.Node {
	return findFirst(n, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
}

// findFirst returns the first descendant of n (depth first) that matches.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of n that matches, without descending
// into matches.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			out = append(out, c)
			continue
		}
		out = append(out, findAll(c, match)...)
	}
	return out
}
