// Package cleaner repairs raw speech-to-text output for developer dictation:
// filler words are stripped, spoken formatting commands become symbols, and
// known code keywords and tech terms get their conventional casing. Every
// rule is a pure function of the input and the whole pipeline is idempotent.
package cleaner

import (
	"regexp"
	"strings"
)

// Clean applies the full rewrite pipeline in a fixed order. Casing commands
// ("snake case my variable name") are a separate pass, see TransformCasing.
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = stripFillers(text)
	text = applyFormatCommands(text)
	text = applyWordTable(text, codeKeywords)
	text = applyWordTable(text, techTerms)
	text = normalizeWhitespace(text)
	return text
}

var singleFillers = map[string]bool{
	"um": true, "uh": true, "er": true, "ah": true, "hmm": true, "huh": true,
}

var pairFillers = map[string]bool{
	"you know": true,
	"i mean":   true,
}

// likeKeepers are verbs after which "like" is probably meant literally.
var likeKeepers = map[string]bool{
	"looks": true, "feels": true, "works": true, "sounds": true,
	"seems": true, "acts": true, "is": true, "was": true,
}

func bareWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".,!?;:"))
}

// stripFillers drops filler words. Splitting on a single space keeps
// newlines inside tokens, so text that already contains line breaks
// survives a second pass unchanged.
func stripFillers(text string) string {
	words := strings.Split(text, " ")
	result := make([]string, 0, len(words))
	for i, word := range words {
		bare := bareWord(word)
		if i+1 < len(words) && pairFillers[bare+" "+bareWord(words[i+1])] {
			continue
		}
		if i > 0 && pairFillers[bareWord(words[i-1])+" "+bare] {
			continue
		}
		if singleFillers[bare] {
			continue
		}
		if bare == "like" {
			prev := ""
			if i > 0 {
				prev = bareWord(words[i-1])
			}
			if !likeKeepers[prev] {
				continue
			}
		}
		result = append(result, word)
	}
	return strings.Join(result, " ")
}

// formatCommands are spoken symbol names. Ordered longest phrase first so
// "fat arrow" wins over "arrow" and "forward slash" is never split.
var formatCommands = []struct {
	re     *regexp.Regexp
	symbol string
}{
	{cmd("close bracket"), "]"},
	{cmd("forward slash"), "/"},
	{cmd("open bracket"), "["},
	{cmd("close brace"), "}"},
	{cmd("close paren"), ")"},
	{cmd("dollar sign"), "$"},
	{cmd("open brace"), "{"},
	{cmd("open paren"), "("},
	{cmd("fat arrow"), "=>"},
	{cmd("semicolon"), ";"},
	{cmd("ampersand"), "&"},
	{cmd("backslash"), "\\"},
	{cmd("new line"), "\n"},
	{cmd("newline"), "\n"},
	{cmd("at sign"), "@"},
	{cmd("period"), "."},
	{cmd("equals"), "="},
	{cmd("comma"), ","},
	{cmd("colon"), ":"},
	{cmd("arrow"), "->"},
	{cmd("hash"), "#"},
	{cmd("pipe"), "|"},
}

func cmd(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + phrase + `\b`)
}

func applyFormatCommands(text string) string {
	for _, fc := range formatCommands {
		text = fc.re.ReplaceAllLiteralString(text, fc.symbol)
	}
	return text
}

var codeKeywords = map[string]string{
	"none": "None", "true": "True", "false": "False",
	"def": "def", "class": "class", "import": "import",
	"return": "return", "self": "self", "async": "async",
	"await": "await", "yield": "yield", "lambda": "lambda",
	"const": "const", "let": "let", "var": "var",
	"function": "function", "null": "null", "undefined": "undefined",
}

var techTerms = map[string]string{
	"api": "API", "apis": "APIs", "json": "JSON", "rest": "REST",
	"http": "HTTP", "https": "HTTPS", "html": "HTML", "css": "CSS",
	"sql": "SQL", "url": "URL", "urls": "URLs", "cli": "CLI",
	"ssh": "SSH", "tcp": "TCP", "udp": "UDP", "dns": "DNS",
	"gpu": "GPU", "cpu": "CPU", "ram": "RAM", "ssd": "SSD",
	"oauth": "OAuth", "jwt": "JWT", "yaml": "YAML", "toml": "TOML",
	"npm": "npm", "pip": "pip", "git": "git", "docker": "Docker",
	"kubernetes": "Kubernetes", "redis": "Redis", "postgres": "Postgres",
	"python": "Python", "javascript": "JavaScript", "typescript": "TypeScript",
	"numpy": "NumPy", "pandas": "pandas", "pytorch": "PyTorch",
	"tensorflow": "TensorFlow", "fastapi": "FastAPI", "flask": "Flask",
	"django": "Django", "react": "React", "nextjs": "Next.js",
	"github": "GitHub", "gitlab": "GitLab", "vscode": "VS Code",
	"openai": "OpenAI", "anthropic": "Anthropic", "claude": "Claude",
	"whisper": "Whisper",
}

const wordTrim = ".,!?;:()[]{}\"'\n\t"

// applyWordTable fixes the casing of each known word, leaving surrounding
// punctuation in place. Splitting on a single space preserves newlines.
func applyWordTable(text string, table map[string]string) string {
	words := strings.Split(text, " ")
	for i, word := range words {
		stripped := strings.Trim(word, wordTrim)
		if correct, ok := table[strings.ToLower(stripped)]; ok && stripped != correct {
			words[i] = strings.Replace(word, stripped, correct, 1)
		}
	}
	return strings.Join(words, " ")
}

var (
	spaceBeforePunct = regexp.MustCompile(` +([.,!?;:])`)
	multiSpace       = regexp.MustCompile(` {2,}`)
)

func normalizeWhitespace(text string) string {
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multiSpace.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
