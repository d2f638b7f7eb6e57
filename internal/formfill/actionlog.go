package formfill

import (
	"fmt"

	"go.uber.org/zap"

	"formAgent/internal/logger"
)

// ActionLog - журнал действий одного заполнения. Строки только добавляются.
type ActionLog struct {
	lines []string
	log   *logger.Zap
}

func NewActionLog(log *logger.Zap) *ActionLog {
	if log == nil {
		log = logger.Nop()
	}
	return &ActionLog{log: log}
}

// Add добавляет строку с префиксом контекста "[scope]". Пустой scope - без префикса.
func (a *ActionLog) Add(scope, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if scope != "" {
		line = "[" + scope + "] " + line
	}
	a.lines = append(a.lines, line)
	a.log.Debug("действие", zap.String("context", scope), zap.String("line", line))
}

func (a *ActionLog) Lines() []string {
	out := make([]string, len(a.lines))
	copy(out, a.lines)
	return out
}
