package code_analyzer

import (
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/meysamhadeli/depscope/code_analyzer/models"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarDialect selects which tree-sitter grammar family handles a file.
// The choice is made once per file from its extension.
type grammarDialect int

const (
	scriptDialect grammarDialect = iota // .js, .jsx, .mjs, .cjs
	typedDialect                        // .ts, .tsx, .mts, .cts
)

// Tree-sitter node types shared by the javascript and typescript grammars.
const (
	nodeImportStatement = "import_statement"
	nodeExportStatement = "export_statement"
	nodeNamespaceImport = "namespace_import"
	nodeCallExpression  = "call_expression"
	nodeIdentifier      = "identifier"
	nodeImportKeyword   = "import"
	nodeDefaultKeyword  = "default"
	nodeString          = "string"
	nodeArguments       = "arguments"
)

// Process-wide grammar tables. Grammar construction happens once, guarded by
// a flag so tests can reset it and exercise the initialization path.
var (
	parserInitMutex sync.Mutex
	parserReady     bool
	languageByExt   map[string]*sitter.Language
	dialectByExt    map[string]grammarDialect
)

// EnsureParserReady initializes the per-extension grammar tables. It is
// idempotent and safe to call before every parse.
func EnsureParserReady() {
	parserInitMutex.Lock()
	defer parserInitMutex.Unlock()

	if parserReady {
		return
	}

	jsLang := javascript.GetLanguage()
	tsLang := typescript.GetLanguage()
	tsxLang := tsx.GetLanguage()

	languageByExt = map[string]*sitter.Language{
		".js":  jsLang,
		".jsx": jsLang,
		".mjs": jsLang,
		".cjs": jsLang,
		".ts":  tsLang,
		".mts": tsLang,
		".cts": tsLang,
		".tsx": tsxLang,
	}

	dialectByExt = map[string]grammarDialect{
		".js":  scriptDialect,
		".jsx": scriptDialect,
		".mjs": scriptDialect,
		".cjs": scriptDialect,
		".ts":  typedDialect,
		".mts": typedDialect,
		".cts": typedDialect,
		".tsx": typedDialect,
	}

	parserReady = true
}

// resetParserState clears the grammar tables so tests can re-run initialization.
func resetParserState() {
	parserInitMutex.Lock()
	defer parserInitMutex.Unlock()
	parserReady = false
	languageByExt = nil
	dialectByExt = nil
}

// ParseModule extracts the import/export summary from one file's content.
// It never fails: structural parse errors degrade to pattern-based scanning,
// and an empty summary is a valid terminal result.
func ParseModule(filePath string, content []byte) (summary *models.ModuleSummary) {
	EnsureParserReady()

	summary = &models.ModuleSummary{FilePath: filePath}

	ext := strings.ToLower(filepath.Ext(filePath))
	lang, supported := lookupLanguage(ext)
	if !supported {
		scanModulePatterns(summary, content)
		return summary
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: structural parse of %s failed (%v), falling back to pattern scan", filePath, r)
			summary.Imports = nil
			summary.Exports = nil
			scanModulePatterns(summary, content)
		}
	}()

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree := parser.Parse(nil, content)
	if tree == nil || tree.RootNode() == nil {
		log.Printf("Warning: tree-sitter returned no tree for %s, falling back to pattern scan", filePath)
		scanModulePatterns(summary, content)
		return summary
	}

	collectModuleNodes(tree.RootNode(), content, summary)
	return summary
}

func lookupLanguage(ext string) (*sitter.Language, bool) {
	parserInitMutex.Lock()
	defer parserInitMutex.Unlock()
	lang, ok := languageByExt[ext]
	return lang, ok
}

// collectModuleNodes walks the whole tree iteratively and records every
// import, require and export occurrence. Dynamic imports and requires can
// appear at any nesting depth, so the walk is not limited to top level.
func collectModuleNodes(root *sitter.Node, content []byte, summary *models.ModuleSummary) {
	stack := []*sitter.Node{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node.Type() {
		case nodeImportStatement:
			recordStaticImport(node, content, summary)
		case nodeExportStatement:
			recordExport(node, content, summary)
		case nodeCallExpression:
			recordCallImport(node, content, summary)
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}
}

func recordStaticImport(node *sitter.Node, content []byte, summary *models.ModuleSummary) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}

	record := models.ImportRecord{Specifier: unquote(source.Content(content))}
	if record.Specifier == "" {
		return
	}

	if hasNamedDescendant(node, nodeNamespaceImport) {
		record.IsNamespace = true
	}

	summary.Imports = append(summary.Imports, record)
}

// recordCallImport handles `import('x')` and `require('x')` call sites. The
// callee decides which of the two categories applies; a single call site is
// never recorded under both.
func recordCallImport(node *sitter.Node, content []byte, summary *models.ModuleSummary) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return
	}

	var dynamic bool
	if callee.Type() == nodeImportKeyword {
		dynamic = true
	} else if callee.Type() == nodeIdentifier && callee.Content(content) == "require" {
		dynamic = false
	} else {
		return
	}

	specifier := literalCallArgument(node, content)
	if specifier == "" {
		// Non-literal arguments are runtime-only and out of scope.
		return
	}

	summary.Imports = append(summary.Imports, models.ImportRecord{
		Specifier: specifier,
		IsDynamic: dynamic,
	})
}

func recordExport(node *sitter.Node, content []byte, summary *models.ModuleSummary) {
	record := models.ExportRecord{}

	if source := node.ChildByFieldName("source"); source != nil {
		record.ReexportSource = unquote(source.Content(content))
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "*":
			record.IsNamespace = true
		case nodeDefaultKeyword:
			record.IsDefault = true
		}
	}

	if record.ReexportSource == "" && !record.IsNamespace && !record.IsDefault {
		// Plain named/declaration exports carry no graph-relevant information.
		return
	}

	summary.Exports = append(summary.Exports, record)
}

// literalCallArgument returns the unquoted first argument of a call when it
// is a plain string literal, or "" otherwise.
func literalCallArgument(call *sitter.Node, content []byte) string {
	args := call.ChildByFieldName(nodeArguments)
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}

	first := args.NamedChild(0)
	if first.Type() != nodeString {
		return ""
	}

	return unquote(first.Content(content))
}

func hasNamedDescendant(node *sitter.Node, nodeType string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return true
		}
		if hasNamedDescendant(child, nodeType) {
			return true
		}
	}
	return false
}

func unquote(raw string) string {
	return strings.Trim(raw, "'\"`")
}

// Pattern-based fallback extraction. Used when no grammar covers the file or
// structural parsing blew up. Best effort only: an empty result is fine.
var (
	staticImportPattern  = regexp.MustCompile(`(?m)^\s*import\s+(?:type\s+)?(?:[\w$]+\s*,?\s*)?(?:(\*\s+as\s+[\w$]+)|\{[^}]*\})?\s*(?:from\s+)?['"]([^'"]+)['"]`)
	dynamicImportPattern = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	requirePattern       = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	reexportPattern      = regexp.MustCompile(`(?m)^\s*export\s+(\*|\{[^}]*\})\s*(?:as\s+[\w$]+\s+)?from\s+['"]([^'"]+)['"]`)
	defaultExportPattern = regexp.MustCompile(`(?m)^\s*export\s+default\b`)
)

func scanModulePatterns(summary *models.ModuleSummary, content []byte) {
	text := string(content)

	for _, match := range staticImportPattern.FindAllStringSubmatch(text, -1) {
		summary.Imports = append(summary.Imports, models.ImportRecord{
			Specifier:   match[2],
			IsNamespace: match[1] != "",
		})
	}

	for _, match := range dynamicImportPattern.FindAllStringSubmatch(text, -1) {
		summary.Imports = append(summary.Imports, models.ImportRecord{
			Specifier: match[1],
			IsDynamic: true,
		})
	}

	// Lightweight comment exclusion: requires on commented-out lines are
	// skipped. This is a per-line pre-check, not full tokenization.
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		for _, match := range requirePattern.FindAllStringSubmatch(line, -1) {
			summary.Imports = append(summary.Imports, models.ImportRecord{
				Specifier: match[1],
			})
		}
	}

	for _, match := range reexportPattern.FindAllStringSubmatch(text, -1) {
		summary.Exports = append(summary.Exports, models.ExportRecord{
			ReexportSource: match[2],
			IsNamespace:    match[1] == "*",
		})
	}

	if defaultExportPattern.MatchString(text) {
		summary.Exports = append(summary.Exports, models.ExportRecord{IsDefault: true})
	}
}
