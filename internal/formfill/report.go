package formfill

import (
	"fmt"
	"strings"
)

// Report - итог FillEveryForm. String() - формат, на который опираются вызывающие.
type Report struct {
	FormsDetected  int
	FormsSubmitted int
	Log            []string
}

func (r *Report) String() string {
	return fmt.Sprintf("Detected %d form(s) across contexts, submitted %d:\n", r.FormsDetected, r.FormsSubmitted) +
		strings.Join(r.Log, "\n")
}

// Succeeded - хотя бы одна форма отправлена.
func (r *Report) Succeeded() bool {
	return r.FormsSubmitted > 0
}
