package models

// ImportRecord represents one import/require occurrence in a source file.
// Specifier is the raw module reference exactly as written in the source.
type ImportRecord struct {
	Specifier   string
	IsNamespace bool
	IsDynamic   bool
}

// ExportRecord represents one export declaration in a source file.
// ReexportSource is set for `export ... from '<source>'` statements.
type ExportRecord struct {
	ReexportSource string
	IsNamespace    bool
	IsDefault      bool
}

// ModuleSummary holds everything extracted from a single scanned file.
// Summaries are created fresh on every scan and never mutated afterwards.
type ModuleSummary struct {
	FilePath string
	Imports  []ImportRecord
	Exports  []ExportRecord
}
