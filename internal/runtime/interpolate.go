package runtime

import (
	"fmt"
	"regexp"

	"github.com/percursohq/percurso/pkg/domain"
)

// placeholder matches {{topic.field}} references in prompt templates.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+\.[A-Za-z0-9_]+)\s*\}\}`)

// Interpolate substitutes answer references into a prompt template.
// Lookups follow last-write-wins (whatever the record currently holds).
// An absent key leaves the placeholder untouched rather than failing:
// rendering must never be blocked by a missing upstream answer.
func Interpolate(template string, answers domain.Answers) string {
	if template == "" {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		path := placeholder.FindStringSubmatch(match)[1]
		v, ok := answers.Get(path)
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
}
