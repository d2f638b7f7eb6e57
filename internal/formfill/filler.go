package formfill

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"formAgent/internal/browser"
	"formAgent/internal/config"
	"formAgent/internal/logger"
)

const mainContext = "main page"

// Options - паузы и лимиты одного заполнения.
type Options struct {
	InitialWait   time.Duration
	SettleDelay   time.Duration
	FillPause     time.Duration
	ClickPause    time.Duration
	PreSubmit     time.Duration
	EntryTimeout  time.Duration
	ScriptRetries int
	LocateEntry   bool
	// Seed для синтетических данных, 0 - случайный.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		InitialWait:   2 * time.Second,
		SettleDelay:   3 * time.Second,
		FillPause:     500 * time.Millisecond,
		ClickPause:    2 * time.Second,
		PreSubmit:     2 * time.Second,
		EntryTimeout:  10 * time.Second,
		ScriptRetries: 2,
		LocateEntry:   true,
	}
}

func OptionsFromConfig(c config.Filler) Options {
	return Options{
		InitialWait:   c.InitialWait,
		SettleDelay:   c.SettleDelay,
		FillPause:     c.FillPause,
		ClickPause:    c.ClickPause,
		PreSubmit:     c.PreSubmit,
		EntryTimeout:  c.EntryTimeout,
		ScriptRetries: c.ScriptRetries,
		LocateEntry:   c.LocateEntry,
	}
}

// Filler находит формы во всех контекстах страницы, заполняет и отправляет их.
// Между вызовами FillEveryForm состояние не хранится.
type Filler struct {
	page browser.Page
	log  *logger.Zap
	opts Options
}

func New(page browser.Page, log *logger.Zap, opts Options) *Filler {
	if log == nil {
		log = logger.Nop()
	}
	return &Filler{page: page, log: log.Named("formfill"), opts: opts}
}

// browsingContext - основной документ (frame == nil) или один iframe.
type browsingContext struct {
	name  string
	frame *browser.FrameRef
}

// fillRun - состояние одного вызова FillEveryForm.
type fillRun struct {
	*Filler
	values     Values
	actions    *ActionLog
	oracle     *Oracle
	classifier *Classifier
	detected   int
	submitted  int
}

// FillEveryForm никогда не возвращает ошибку: неудачи попадают в журнал,
// а полный провал выглядит как FormsSubmitted == 0.
func (f *Filler) FillEveryForm(ctx context.Context, values Values) *Report {
	actions := NewActionLog(f.log)
	r := &fillRun{
		Filler:     f,
		values:     values,
		actions:    actions,
		oracle:     NewOracle(f.page, actions, f.opts.SettleDelay),
		classifier: NewClassifier(f.page, NewSynth(f.opts.Seed)),
	}

	started := time.Now()
	f.log.Info("заполнение форм", zap.String("url", f.page.URL()), zap.Int("values", len(values)))

	sleep(ctx, f.opts.InitialWait)

	// страница подтверждения засчитывается в processContext, кликать по ссылкам незачем
	if f.opts.LocateEntry && ctx.Err() == nil && !r.showsConfirmation() {
		r.locateEntryPoint(ctx)
	}

	for _, bc := range r.contexts() {
		if ctx.Err() != nil {
			break
		}
		r.processContext(ctx, bc)
		if r.submitted > 0 {
			break
		}
	}

	report := &Report{
		FormsDetected:  r.detected,
		FormsSubmitted: r.submitted,
		Log:            actions.Lines(),
	}
	f.log.Info("заполнение завершено",
		zap.Int("forms", report.FormsDetected),
		zap.Int("submitted", report.FormsSubmitted),
		zap.Duration("elapsed", time.Since(started)),
	)
	return report
}

func (r *fillRun) contexts() []browsingContext {
	out := []browsingContext{{name: mainContext}}
	frames, err := r.page.Frames()
	if err != nil {
		r.actions.Add("", "Error accessing iframe: %v", err)
		return out
	}
	for i := range frames {
		out = append(out, browsingContext{name: frames[i].Name(), frame: &frames[i]})
	}
	return out
}

func (r *fillRun) processContext(ctx context.Context, bc browsingContext) {
	if bc.frame != nil {
		if err := r.page.EnterFrame(*bc.frame); err != nil {
			r.actions.Add(bc.name, "Error switching to context: %v", err)
			return
		}
		defer func() {
			if err := r.page.ExitFrame(); err != nil {
				r.log.Warn("не удалось вернуться в основной документ", zap.String("context", bc.name), zap.Error(err))
			}
		}()
	}

	if r.showsConfirmation() {
		r.actions.Add(bc.name, "Detected 'Thank you' page; submission already successful.")
		r.submitted++
		return
	}

	forms, err := r.page.FindAll("//form")
	if err != nil {
		r.actions.Add(bc.name, "Error finding forms: %v", err)
		return
	}
	if len(forms) == 0 {
		forms, err = r.page.FindAll("//body")
		if err != nil || len(forms) == 0 {
			r.actions.Add(bc.name, "No form or body found.")
			return
		}
		forms = forms[:1]
	}

	for i, form := range forms {
		if ctx.Err() != nil {
			return
		}
		r.detected++
		if !r.processForm(ctx, bc, form, i) {
			continue
		}
		r.submitted++
		if r.showsConfirmation() {
			r.actions.Add(bc.name, "Confirmed 'Thank you' page after submission.")
		}
		return
	}
}

func (r *fillRun) processForm(ctx context.Context, bc browsingContext, form browser.Element, index int) bool {
	visitedRadios := make(map[string]struct{})
	prefilled := r.fillEmailFields(ctx, bc, form)
	r.fillFields(ctx, bc, form, prefilled, visitedRadios)

	sleep(ctx, r.opts.PreSubmit)

	a := &attempt{scope: bc.name, form: form, index: index}
	for _, try := range r.strategies() {
		if ctx.Err() != nil {
			return false
		}
		if try(ctx, a) {
			return true
		}
	}
	return false
}

func (r *fillRun) showsConfirmation() bool {
	markup, err := r.page.Markup()
	if err != nil {
		return false
	}
	return containsAny(strings.ToLower(markup), confirmationPhrases...)
}
