package lint

import "strings"

// knownLanguages is the fence vocabulary the downstream highlighter accepts.
// Common aliases are listed outright, so "sh", "shell", and "bash" all pass.
var knownLanguages = []string{
	"bash", "sh", "shell", "console", "zsh",
	"c", "cpp", "csharp", "css", "csv",
	"diff", "dockerfile", "go", "graphql", "groovy",
	"html", "http", "ini", "java", "javascript", "js",
	"json", "jsonc", "jsx", "kotlin", "lua",
	"makefile", "markdown", "md", "mermaid", "nginx",
	"objectivec", "perl", "php", "plaintext", "text", "txt",
	"powershell", "properties", "proto", "protobuf",
	"python", "py", "r", "ruby", "rb", "rust",
	"scala", "sql", "swift", "toml",
	"typescript", "ts", "tsx",
	"xml", "yaml", "yml",
}

// languageSet builds the lookup for fence checks, folding in any extra
// languages the site config declares.
func languageSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(knownLanguages)+len(extra))
	for _, lang := range knownLanguages {
		set[lang] = true
	}
	for _, lang := range extra {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != "" {
			set[lang] = true
		}
	}
	return set
}
