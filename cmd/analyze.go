package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"formAgent/internal/browser"
	"formAgent/internal/extractor"
	"formAgent/internal/formfill"
	"formAgent/internal/logger"
)

const localURL = "file:///local.html"

// analyze прогоняет движок заполнения по разметке без браузера и ищет ставки в итоговой странице.
func analyze(ctx context.Context, w io.Writer, markup string, values formfill.Values, log *logger.Zap, opts formfill.Options) error {
	page := browser.NewHTMLPage(map[string]string{localURL: markup})
	if err := page.Launch(ctx); err != nil {
		return err
	}
	defer page.Shutdown()
	if err := page.Navigate(ctx, localURL); err != nil {
		return err
	}

	report := formfill.New(page, log, opts).FillEveryForm(ctx, values)
	fmt.Fprintln(w, report.String())

	for _, s := range page.Submissions() {
		fmt.Fprintf(w, "submission %s: %s\n", s.Action, s.Fields.Encode())
	}

	after, err := page.CurrentMarkup(ctx)
	if err != nil {
		return err
	}
	rates, err := extractor.ExtractRates(after)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, rates.Summary())
	return nil
}

func parseFields(pairs []string) (formfill.Values, error) {
	values := formfill.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("ожидается key=value: %q", p)
		}
		values[k] = v
	}
	return values, nil
}
