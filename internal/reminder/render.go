package reminder

import (
	"regexp"
	"strings"
)

// htmlTagPattern matches anything between angle brackets. The text variant
// of an HTML template is produced by deleting these matches wholesale; no
// entity decoding or structural parsing is attempted.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Rendered holds both body variants of a greeting after substitution.
type Rendered struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// Render substitutes the recipient's name into a resolution body and derives
// the body variants. Subjects are used verbatim. Tag and default templates
// are HTML: the text variant strips markup. The legacy template is plain
// text: the HTML variant turns newlines into <br>.
func Render(res Resolution, name string) Rendered {
	body := strings.ReplaceAll(res.Body, "{name}", name)

	if res.Tier == TierLegacy {
		return Rendered{
			Subject:  res.Subject,
			TextBody: body,
			HTMLBody: strings.ReplaceAll(body, "\n", "<br>"),
		}
	}

	return Rendered{
		Subject:  res.Subject,
		TextBody: htmlTagPattern.ReplaceAllString(body, ""),
		HTMLBody: body,
	}
}
