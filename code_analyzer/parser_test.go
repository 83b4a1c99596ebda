package code_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModule_StaticImports(t *testing.T) {
	source := `
import defaultExport from './a';
import { named, other as alias } from './b';
import * as ns from './c';
import './side-effect';
`

	summary := ParseModule("/project/src/main.ts", []byte(source))
	require.Len(t, summary.Imports, 4)

	assert.Equal(t, "./a", summary.Imports[0].Specifier)
	assert.False(t, summary.Imports[0].IsNamespace)
	assert.False(t, summary.Imports[0].IsDynamic)

	assert.Equal(t, "./b", summary.Imports[1].Specifier)

	assert.Equal(t, "./c", summary.Imports[2].Specifier)
	assert.True(t, summary.Imports[2].IsNamespace)

	assert.Equal(t, "./side-effect", summary.Imports[3].Specifier)
}

func TestParseModule_DynamicImportAndRequire(t *testing.T) {
	source := `
const lazy = () => import('./lazy');
const legacy = require('./legacy');
`

	summary := ParseModule("/project/src/main.js", []byte(source))
	require.Len(t, summary.Imports, 2)

	assert.Equal(t, "./lazy", summary.Imports[0].Specifier)
	assert.True(t, summary.Imports[0].IsDynamic)

	assert.Equal(t, "./legacy", summary.Imports[1].Specifier)
	assert.False(t, summary.Imports[1].IsDynamic)
}

// A call site is either a dynamic import or a require, never both.
func TestParseModule_CallSitesRecordedOnce(t *testing.T) {
	source := `const a = import('./a'); const b = require('./b');`

	summary := ParseModule("/project/src/main.js", []byte(source))
	require.Len(t, summary.Imports, 2)
	assert.True(t, summary.Imports[0].IsDynamic)
	assert.False(t, summary.Imports[1].IsDynamic)
}

func TestParseModule_RequireInCommentIgnored(t *testing.T) {
	source := `
// const old = require('./removed');
const current = require('./current');
`

	summary := ParseModule("/project/src/main.js", []byte(source))
	require.Len(t, summary.Imports, 1)
	assert.Equal(t, "./current", summary.Imports[0].Specifier)
}

func TestParseModule_NonLiteralCallArgumentsSkipped(t *testing.T) {
	source := `
const path = './computed';
const a = require(path);
const b = import(path + '.js');
`

	summary := ParseModule("/project/src/main.js", []byte(source))
	assert.Empty(t, summary.Imports)
}

func TestParseModule_Exports(t *testing.T) {
	source := `
export { a, b } from './barrel';
export * from './everything';
export default class Widget {}
`

	summary := ParseModule("/project/src/index.ts", []byte(source))
	require.Len(t, summary.Exports, 3)

	assert.Equal(t, "./barrel", summary.Exports[0].ReexportSource)
	assert.False(t, summary.Exports[0].IsNamespace)

	assert.Equal(t, "./everything", summary.Exports[1].ReexportSource)
	assert.True(t, summary.Exports[1].IsNamespace)

	assert.True(t, summary.Exports[2].IsDefault)
	assert.Empty(t, summary.Exports[2].ReexportSource)
}

func TestParseModule_TsxDialect(t *testing.T) {
	source := `
import React from 'react';
import { Button } from './button';

export default function App() {
	return <Button label="go" />;
}
`

	summary := ParseModule("/project/src/app.tsx", []byte(source))
	require.Len(t, summary.Imports, 2)
	assert.Equal(t, "react", summary.Imports[0].Specifier)
	assert.Equal(t, "./button", summary.Imports[1].Specifier)

	require.Len(t, summary.Exports, 1)
	assert.True(t, summary.Exports[0].IsDefault)
}

// Unsupported extensions go straight to the pattern-based fallback.
func TestParseModule_FallbackScan(t *testing.T) {
	source := `
import { thing } from './thing';
import * as all from './all';
const legacy = require('./legacy');
// require('./commented-out')
const lazy = import('./lazy');
export * from './barrel';
export default thing;
`

	summary := ParseModule("/project/src/main.vue", []byte(source))

	specifiers := make(map[string]bool)
	for _, record := range summary.Imports {
		specifiers[record.Specifier] = true
	}

	assert.True(t, specifiers["./thing"])
	assert.True(t, specifiers["./all"])
	assert.True(t, specifiers["./legacy"])
	assert.True(t, specifiers["./lazy"])
	assert.False(t, specifiers["./commented-out"])

	require.Len(t, summary.Exports, 2)
	assert.Equal(t, "./barrel", summary.Exports[0].ReexportSource)
	assert.True(t, summary.Exports[0].IsNamespace)
	assert.True(t, summary.Exports[1].IsDefault)
}

func TestParseModule_MalformedSourceNeverPanics(t *testing.T) {
	source := `import { from ; require('./still-found'
export defa`

	summary := ParseModule("/project/src/broken.ts", []byte(source))
	require.NotNil(t, summary)
	assert.Equal(t, "/project/src/broken.ts", summary.FilePath)
}

func TestParseModule_EmptyFile(t *testing.T) {
	summary := ParseModule("/project/src/empty.ts", nil)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Imports)
	assert.Empty(t, summary.Exports)
}

func TestEnsureParserReady_Idempotent(t *testing.T) {
	resetParserState()

	EnsureParserReady()
	EnsureParserReady()

	summary := ParseModule("/project/src/a.ts", []byte(`import './b';`))
	require.Len(t, summary.Imports, 1)

	// Reset and make sure parsing re-initializes transparently.
	resetParserState()
	summary = ParseModule("/project/src/a.ts", []byte(`import './b';`))
	require.Len(t, summary.Imports, 1)
}
