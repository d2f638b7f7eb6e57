package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Submission - отправка формы, зафиксированная HTMLPage.
type Submission struct {
	URL    string
	Action string
	Fields url.Values
}

// HTMLPage - браузер без браузера: документы из памяти, XPath через htmlquery.
// Живые value/checked хранятся отдельно от атрибутов, как в настоящем DOM.
type HTMLPage struct {
	mu          sync.Mutex
	routes      map[string]string
	launched    bool
	url         string
	doc         *html.Node
	frames      []*html.Node
	active      *html.Node
	activeFrame int
	values      map[*html.Node]string
	checked     map[*html.Node]bool
	submissions []Submission
	pending     *pendingNavigation

	// MarkupDelay - пауза перед CurrentMarkup.
	MarkupDelay time.Duration
	// NavigationDelay откладывает переход после клика или отправки формы:
	// до его истечения страница показывает старый документ, как настоящий браузер.
	NavigationDelay time.Duration
}

type pendingNavigation struct {
	url   string
	frame int
	due   time.Time
}

func NewHTMLPage(routes map[string]string) *HTMLPage {
	p := &HTMLPage{
		routes:      make(map[string]string, len(routes)),
		activeFrame: -1,
	}
	for u, markup := range routes {
		p.routes[normalizeURL(u)] = markup
	}
	return p
}

func (p *HTMLPage) AddRoute(u, markup string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[normalizeURL(u)] = markup
}

func (p *HTMLPage) Launch(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.launched = true
	return nil
}

func (p *HTMLPage) Navigate(ctx context.Context, u string) error {
	p.lock()
	defer p.mu.Unlock()
	if !p.launched {
		return ErrNotLaunched
	}
	return p.load(u)
}

func (p *HTMLPage) CurrentMarkup(ctx context.Context) (string, error) {
	if p.MarkupDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.MarkupDelay):
		}
	}
	return p.Markup()
}

func (p *HTMLPage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.launched = false
	p.pending = nil
	p.doc = nil
	p.active = nil
	p.frames = nil
	p.activeFrame = -1
	return nil
}

func (p *HTMLPage) Shutdown() {
	_ = p.Close()
}

// Submissions возвращает копию всех отправок формы.
func (p *HTMLPage) Submissions() []Submission {
	p.lock()
	defer p.mu.Unlock()
	out := make([]Submission, len(p.submissions))
	copy(out, p.submissions)
	return out
}

// Value возвращает текущее значение поля.
func (p *HTMLPage) Value(el Element) string {
	p.lock()
	defer p.mu.Unlock()
	he, ok := el.(*htmlElement)
	if !ok {
		return ""
	}
	return p.valueOf(he.node)
}

func (p *HTMLPage) FindAll(xpath string) ([]Element, error) {
	p.lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil, ErrNotLaunched
	}
	nodes, err := htmlquery.QueryAll(p.active, xpath)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", xpath, err)
	}
	return p.wrap(nodes), nil
}

func (p *HTMLPage) URL() string {
	p.lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *HTMLPage) Markup() (string, error) {
	p.lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return "", ErrNotLaunched
	}
	return htmlquery.OutputHTML(p.active, true), nil
}

func (p *HTMLPage) ForceVisible(el Element) error {
	p.lock()
	defer p.mu.Unlock()
	n, err := p.live(el)
	if err != nil {
		return err
	}
	removeAttr(n, "hidden")
	setAttr(n, "style", "display: block")
	return nil
}

func (p *HTMLPage) ScrollIntoView(el Element) error {
	p.lock()
	defer p.mu.Unlock()
	_, err := p.live(el)
	return err
}

// Click повторяет el.click(): активируется ближайший input, button или ссылка.
func (p *HTMLPage) Click(el Element) error {
	p.lock()
	defer p.mu.Unlock()
	n, err := p.live(el)
	if err != nil {
		return err
	}

	target := activatable(n)
	if target == nil || hasAttr(target, "disabled") {
		return nil
	}

	switch target.Data {
	case "input":
		switch inputType(target) {
		case "checkbox":
			p.checked[target] = !p.isChecked(target)
		case "radio":
			p.selectRadio(target)
		case "submit", "image":
			if form := formOf(target); form != nil {
				return p.submit(form)
			}
		}
	case "button":
		t := inputType(target)
		if t == "" || t == "submit" {
			if form := formOf(target); form != nil {
				return p.submit(form)
			}
		}
	case "a":
		href := strings.TrimSpace(attr(target, "href"))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return nil
		}
		next := p.resolve(href)
		if _, ok := p.routes[normalizeURL(next)]; ok {
			return p.follow(next)
		}
	}
	return nil
}

func (p *HTMLPage) SetValue(el Element, value string) error {
	p.lock()
	defer p.mu.Unlock()
	n, err := p.live(el)
	if err != nil {
		return err
	}

	if n.Data != "select" {
		p.values[n] = value
		return nil
	}

	wanted := strings.ToLower(value)
	var fallback *html.Node
	for _, opt := range htmlquery.Find(n, ".//option") {
		v := optionValue(opt)
		if strings.ToLower(v) == wanted || strings.ToLower(collapse(htmlquery.InnerText(opt))) == wanted {
			p.values[n] = v
			return nil
		}
		if fallback == nil && v != "" {
			fallback = opt
		}
	}
	if fallback != nil {
		p.values[n] = optionValue(fallback)
	}
	return nil
}

// PressEnter внутри формы отправляет ее (неявная отправка).
func (p *HTMLPage) PressEnter(el Element) error {
	p.lock()
	defer p.mu.Unlock()
	n, err := p.live(el)
	if err != nil {
		return err
	}
	if form := formOf(n); form != nil {
		return p.submit(form)
	}
	return nil
}

func (p *HTMLPage) SubmitForm(form Element) error {
	p.lock()
	defer p.mu.Unlock()
	n, err := p.live(form)
	if err != nil {
		return err
	}
	if n.Data != "form" {
		return ErrNotAForm
	}
	return p.submit(n)
}

func (p *HTMLPage) WaitFor(ctx context.Context, xpath string, timeout time.Duration) (Element, error) {
	deadline := time.Now().Add(timeout)
	for {
		found, err := p.FindAll(xpath)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			return found[0], nil
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrWaitTimeout, xpath)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (p *HTMLPage) Same(a, b Element) bool {
	x, ok := a.(*htmlElement)
	if !ok {
		return false
	}
	y, ok := b.(*htmlElement)
	return ok && x.node == y.node
}

func (p *HTMLPage) Frames() ([]FrameRef, error) {
	p.lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return nil, ErrNotLaunched
	}
	iframes := htmlquery.Find(p.doc, "//iframe")
	refs := make([]FrameRef, 0, len(iframes))
	for i, f := range iframes {
		refs = append(refs, FrameRef{ID: attr(f, "id"), Index: i})
	}
	return refs, nil
}

func (p *HTMLPage) EnterFrame(f FrameRef) error {
	p.lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return ErrNotLaunched
	}
	if f.Index < 0 || f.Index >= len(p.frames) || p.frames[f.Index] == nil {
		return fmt.Errorf("%w: %s", ErrFrameUnavailable, f.Name())
	}
	p.active = p.frames[f.Index]
	p.activeFrame = f.Index
	return nil
}

func (p *HTMLPage) ExitFrame() error {
	p.lock()
	defer p.mu.Unlock()
	if p.doc == nil {
		return ErrNotLaunched
	}
	p.active = p.doc
	p.activeFrame = -1
	return nil
}

// load заменяет документ верхнего уровня. Вызывается под p.mu.
func (p *HTMLPage) load(u string) error {
	key := normalizeURL(u)
	markup, ok := p.routes[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, u)
	}
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("разбор %s: %w", u, err)
	}

	p.pending = nil
	p.url = key
	p.doc = doc
	p.active = doc
	p.activeFrame = -1
	p.values = make(map[*html.Node]string)
	p.checked = make(map[*html.Node]bool)
	p.frames = nil

	for _, iframe := range htmlquery.Find(doc, "//iframe") {
		p.frames = append(p.frames, p.loadFrame(iframe))
	}
	return nil
}

func (p *HTMLPage) loadFrame(iframe *html.Node) *html.Node {
	markup, ok := attrOK(iframe, "srcdoc")
	if !ok {
		src := attr(iframe, "src")
		if src == "" {
			return nil
		}
		markup, ok = p.routes[normalizeURL(p.resolve(src))]
		if !ok {
			return nil
		}
	}
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return doc
}

// submit фиксирует отправку и следует action, если такой маршрут есть.
func (p *HTMLPage) submit(form *html.Node) error {
	fields := url.Values{}
	for _, in := range htmlquery.Find(form, ".//input | .//textarea | .//select") {
		name := attr(in, "name")
		if name == "" || hasAttr(in, "disabled") {
			continue
		}
		switch inputType(in) {
		case "submit", "button", "reset", "image", "file":
			continue
		case "checkbox", "radio":
			if !p.isChecked(in) {
				continue
			}
		}
		fields.Add(name, p.valueOf(in))
	}

	target := p.resolve(attr(form, "action"))
	p.submissions = append(p.submissions, Submission{URL: p.url, Action: target, Fields: fields})

	if _, ok := p.routes[normalizeURL(target)]; !ok {
		return nil
	}
	return p.follow(target)
}

// lock берет мьютекс и применяет отложенный переход, если его время пришло.
func (p *HTMLPage) lock() {
	p.mu.Lock()
	if p.pending == nil || time.Now().Before(p.pending.due) {
		return
	}
	nav := p.pending
	p.pending = nil
	_ = p.commit(nav.url, nav.frame)
}

func (p *HTMLPage) follow(target string) error {
	if p.NavigationDelay <= 0 {
		return p.commit(target, p.activeFrame)
	}
	p.pending = &pendingNavigation{url: target, frame: p.activeFrame, due: time.Now().Add(p.NavigationDelay)}
	return nil
}

// commit выполняет переход в документе верхнего уровня или в iframe frame.
func (p *HTMLPage) commit(target string, frame int) error {
	if frame < 0 || frame >= len(p.frames) {
		return p.load(target)
	}
	doc, err := htmlquery.Parse(strings.NewReader(p.routes[normalizeURL(target)]))
	if err != nil {
		return err
	}
	p.frames[frame] = doc
	if p.activeFrame == frame {
		p.active = doc
	}
	return nil
}

func (p *HTMLPage) selectRadio(n *html.Node) {
	name := attr(n, "name")
	scope := formOf(n)
	if scope == nil {
		scope = rootOf(n)
	}
	if name != "" {
		for _, r := range htmlquery.Find(scope, ".//input") {
			if inputType(r) == "radio" && attr(r, "name") == name {
				p.checked[r] = false
			}
		}
	}
	p.checked[n] = true
}

func (p *HTMLPage) isChecked(n *html.Node) bool {
	if v, ok := p.checked[n]; ok {
		return v
	}
	return hasAttr(n, "checked")
}

func (p *HTMLPage) valueOf(n *html.Node) string {
	if v, ok := p.values[n]; ok {
		return v
	}
	switch n.Data {
	case "textarea":
		return htmlquery.InnerText(n)
	case "select":
		var first string
		for i, opt := range htmlquery.Find(n, ".//option") {
			if hasAttr(opt, "selected") {
				return optionValue(opt)
			}
			if i == 0 {
				first = optionValue(opt)
			}
		}
		return first
	}
	if v, ok := attrOK(n, "value"); ok {
		return v
	}
	if t := inputType(n); t == "checkbox" || t == "radio" {
		return "on"
	}
	return ""
}

func (p *HTMLPage) resolve(ref string) string {
	base, err := url.Parse(p.url)
	if err != nil {
		return ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	resolved := base.ResolveReference(r)
	resolved.Fragment = ""
	return resolved.String()
}

// live проверяет, что элемент принадлежит одному из текущих документов.
func (p *HTMLPage) live(el Element) (*html.Node, error) {
	he, ok := el.(*htmlElement)
	if !ok || he.node == nil {
		return nil, fmt.Errorf("элемент другого браузера: %T", el)
	}
	if p.doc == nil {
		return nil, ErrNotLaunched
	}
	root := rootOf(he.node)
	if root == p.doc {
		return he.node, nil
	}
	for _, f := range p.frames {
		if f != nil && root == f {
			return he.node, nil
		}
	}
	return nil, ErrStaleElement
}

func (p *HTMLPage) wrap(nodes []*html.Node) []Element {
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, &htmlElement{page: p, node: n})
		}
	}
	return out
}

func normalizeURL(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return u
	}
	parsed.Fragment = ""
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	return parsed.String()
}
