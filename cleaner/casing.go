package cleaner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type casingMode int

const (
	modeSnake casingMode = iota
	modeCamel
	modePascal
	modeKebab
	modeTitle
	modeUpper
)

// casingCommands map spoken phrases to rewrite modes. The governed span runs
// from the word after the phrase to the next sentence boundary or the end of
// the text; the boundary mark is consumed along with the phrase.
var casingCommands = []struct {
	re   *regexp.Regexp
	mode casingMode
}{
	{casingCmd("snake case"), modeSnake},
	{casingCmd("camel case"), modeCamel},
	{casingCmd("pascal case"), modePascal},
	{casingCmd("kebab case"), modeKebab},
	{casingCmd("title case"), modeTitle},
	{casingCmd("all caps"), modeUpper},
	{casingCmd("upper case"), modeUpper},
}

func casingCmd(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + phrase + `\s+(.+?)(\.|,|!|\?|$)`)
}

// TransformCasing rewrites the first casing command found in the text. Any
// later command in the same utterance is left as-is. Text without a command
// passes through unchanged.
func TransformCasing(text string) string {
	first := -1
	var loc []int
	var mode casingMode
	for _, cc := range casingCommands {
		m := cc.re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		if first == -1 || m[0] < first {
			first = m[0]
			loc = m
			mode = cc.mode
		}
	}
	if first == -1 {
		return text
	}

	span := strings.TrimSpace(text[loc[2]:loc[3]])
	return text[:loc[0]] + applyCasing(strings.Fields(span), mode) + text[loc[1]:]
}

func applyCasing(words []string, mode casingMode) string {
	if len(words) == 0 {
		return ""
	}
	out := make([]string, len(words))
	switch mode {
	case modeSnake:
		for i, w := range words {
			out[i] = strings.ToLower(w)
		}
		return strings.Join(out, "_")
	case modeKebab:
		for i, w := range words {
			out[i] = strings.ToLower(w)
		}
		return strings.Join(out, "-")
	case modeCamel:
		out[0] = strings.ToLower(words[0])
		for i, w := range words[1:] {
			out[i+1] = capitalize(w)
		}
		return strings.Join(out, "")
	case modePascal:
		for i, w := range words {
			out[i] = capitalize(w)
		}
		return strings.Join(out, "")
	case modeTitle:
		for i, w := range words {
			out[i] = capitalize(w)
		}
		return strings.Join(out, " ")
	case modeUpper:
		for i, w := range words {
			out[i] = strings.ToUpper(w)
		}
		return strings.Join(out, "_")
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	w = strings.ToLower(w)
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}
