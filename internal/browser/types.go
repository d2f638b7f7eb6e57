package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

var (
	ErrNotLaunched      = errors.New("браузер не запущен")
	ErrStaleElement     = errors.New("элемент больше не привязан к документу")
	ErrNotAForm         = errors.New("элемент не является формой")
	ErrFrameUnavailable = errors.New("фрейм недоступен")
	ErrWaitTimeout      = errors.New("таймаут ожидания элемента")
	ErrRouteNotFound    = errors.New("страница не найдена")
)

// Element - живая ссылка на DOM-элемент в активном контексте.
type Element interface {
	Tag() string
	Attr(name string) (string, bool)
	Text() string
	Visible() (bool, error)
	Enabled() (bool, error)
	Checked() (bool, error)
	// QueryAll выполняет XPath относительно элемента.
	QueryAll(xpath string) ([]Element, error)
}

// Page - доступ к DOM текущего контекста просмотра (документ или iframe).
// Все выражения - XPath 1.0.
type Page interface {
	FindAll(xpath string) ([]Element, error)
	URL() string
	Markup() (string, error)
	ForceVisible(el Element) error
	ScrollIntoView(el Element) error
	Click(el Element) error
	SetValue(el Element, value string) error
	PressEnter(el Element) error
	SubmitForm(form Element) error
	WaitFor(ctx context.Context, xpath string, timeout time.Duration) (Element, error)
	Same(a, b Element) bool
	Frames() ([]FrameRef, error)
	EnterFrame(f FrameRef) error
	ExitFrame() error
}

// Browser - сессия браузера с явным жизненным циклом.
type Browser interface {
	Page
	Launch(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	// CurrentMarkup ждет немного и возвращает сериализованный документ.
	CurrentMarkup(ctx context.Context) (string, error)
	Close() error
	// Shutdown идемпотентен и глотает ошибки.
	Shutdown()
}

// FrameRef идентифицирует iframe основного документа по порядку и id.
type FrameRef struct {
	ID    string
	Index int
}

// Name возвращает отображаемое имя контекста.
func (f FrameRef) Name() string {
	id := f.ID
	if id == "" {
		id = "unnamed"
	}
	return "iframe '" + id + "'"
}

// Interactable - элемент видим и доступен. Ошибка чтения считается отказом.
func Interactable(el Element) bool {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false
	}
	enabled, err := el.Enabled()
	return err == nil && enabled
}

type PageSnapshot struct {
	URL      string
	Title    string
	Elements []ElementInfo
}

type ElementInfo struct {
	Tag      string `json:"tag"`
	Text     string `json:"text"`
	Selector string `json:"selector"`
	Role     string `json:"role,omitempty"`
	Label    string `json:"label,omitempty"`
}

type PlaywrightBrowser struct {
	mu            sync.RWMutex
	pw            *playwright.Playwright
	browser       playwright.Browser
	context       playwright.BrowserContext
	page          playwright.Page
	frame         playwright.Frame
	cfg           Config
	popupDetector PopupDetector
}

type Config struct {
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Display         string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
	MarkupDelay     time.Duration
}
