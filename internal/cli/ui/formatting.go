package ui

import (
	"fmt"
	"io"
	"strings"
)

// FormatStatus возвращает иконку, цвет и текст для статуса задачи
func FormatStatus(status string) (icon, color, text string) {
	switch status {
	case "completed":
		return IconCheckmark, ColorGreen, "завершена"
	case "failed":
		return IconCross, ColorRed, "ошибка"
	case "running":
		return IconPlay, ColorCyan, "выполняется"
	case "pending":
		return IconClock, ColorYellow, "ожидает"
	default:
		return IconClock, ColorYellow, status
	}
}

// Error печатает строку ошибки.
func Error(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Paint(ColorRed, IconCross+" "+fmt.Sprintf(format, args...)))
}

// Success печатает строку об успехе.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Paint(ColorGreen, IconCheckmark+" "+fmt.Sprintf(format, args...)))
}

// ReportLine раскрашивает строку журнала заполнения по ее смыслу.
func ReportLine(line string) string {
	switch {
	case strings.Contains(line, "Submission detected"),
		strings.Contains(line, "Thank you"):
		return Paint(ColorGreen, line)
	case strings.Contains(line, "Error"),
		strings.Contains(line, "failed"):
		return Paint(ColorRed, line)
	case strings.HasPrefix(line, "Submission change detected"):
		return Paint(ColorCyan, line)
	default:
		return Paint(ColorGray, line)
	}
}

// Truncate обрезает строку до n рун.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// ClearScreen очищает терминал
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
