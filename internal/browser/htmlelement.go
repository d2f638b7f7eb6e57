package browser

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// htmlElement - узел документа HTMLPage.
type htmlElement struct {
	page *HTMLPage
	node *html.Node
}

func (e *htmlElement) Tag() string {
	return e.node.Data
}

func (e *htmlElement) Attr(name string) (string, bool) {
	e.page.lock()
	defer e.page.mu.Unlock()
	return attrOK(e.node, strings.ToLower(name))
}

func (e *htmlElement) Text() string {
	return collapse(htmlquery.InnerText(e.node))
}

// Visible: элемент и его предки не скрыты атрибутом hidden или inline-стилем,
// и не лежат в служебных частях документа.
func (e *htmlElement) Visible() (bool, error) {
	e.page.lock()
	defer e.page.mu.Unlock()
	if _, err := e.page.live(e); err != nil {
		return false, err
	}
	if e.node.Data == "input" && inputType(e.node) == "hidden" {
		return false, nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "head", "script", "style", "title", "template", "noscript":
			return false, nil
		}
		if hasAttr(n, "hidden") {
			return false, nil
		}
		style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	return true, nil
}

func (e *htmlElement) Enabled() (bool, error) {
	e.page.lock()
	defer e.page.mu.Unlock()
	if _, err := e.page.live(e); err != nil {
		return false, err
	}
	return !hasAttr(e.node, "disabled"), nil
}

func (e *htmlElement) Checked() (bool, error) {
	e.page.lock()
	defer e.page.mu.Unlock()
	if _, err := e.page.live(e); err != nil {
		return false, err
	}
	return e.page.isChecked(e.node), nil
}

func (e *htmlElement) QueryAll(xpath string) ([]Element, error) {
	e.page.lock()
	defer e.page.mu.Unlock()
	if _, err := e.page.live(e); err != nil {
		return nil, err
	}
	nodes, err := htmlquery.QueryAll(e.node, xpath)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", xpath, err)
	}
	return e.page.wrap(nodes), nil
}

func attrOK(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, name string) string {
	v, _ := attrOK(n, name)
	return v
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attrOK(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func inputType(n *html.Node) string {
	return strings.ToLower(strings.TrimSpace(attr(n, "type")))
}

func optionValue(opt *html.Node) string {
	if v, ok := attrOK(opt, "value"); ok {
		return v
	}
	return collapse(htmlquery.InnerText(opt))
}

func formOf(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "form" {
			return p
		}
	}
	return nil
}

func rootOf(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// activatable ищет ближайший элемент, у которого клик имеет действие по умолчанию.
func activatable(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.Data {
		case "input", "button", "a":
			return p
		}
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
