package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_StripsExtension(t *testing.T) {
	assert.Equal(t, "nda", Clean("nda.pdf"))
}

func TestClean_StripsLeadingWordPrefix(t *testing.T) {
	// "service-" is a word- prefix; only the first is stripped
	assert.Equal(t, "agreement 2024", Clean("service-agreement-2024.pdf"))
}

func TestClean_StripsEmbeddedDate(t *testing.T) {
	assert.Equal(t, "minutes final", Clean("minutes_2024-01-15_final.docx"))
}

func TestClean_StripsVersionSuffix(t *testing.T) {
	assert.Equal(t, "report", Clean("word-report_v2.pdf"))
}

func TestClean_KeepsInteriorVersionMarker(t *testing.T) {
	// _v<digits> is only a suffix rule; mid-name it survives as a token
	assert.Equal(t, "doc v10 draft", Clean("doc_v10_draft"))
}

func TestClean_CollapsesSeparatorRuns(t *testing.T) {
	assert.Equal(t, "exhibit a lease", Clean("Exhibit A - Lease.PDF"))
}

func TestClean_OnlyLastExtensionStripped(t *testing.T) {
	assert.Equal(t, "backup.tar", Clean("backup.tar.gz"))
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
}

func TestClean_DegeneratesToEmpty(t *testing.T) {
	// Everything here is strippable; result collapses to nothing
	assert.Equal(t, "", Clean("IMG-2023-12-01_v3.jpeg"))
}

func TestKeyTerms_LettersDigitsDigits(t *testing.T) {
	assert.Equal(t, "APPENDIX-2-001", KeyTerms("RDCC-APPENDIX-2-001.pdf"))
}

func TestKeyTerms_LettersDigits(t *testing.T) {
	assert.Equal(t, "EXH-42", KeyTerms("EXH-42 cover letter"))
}

func TestKeyTerms_BareNumberRun(t *testing.T) {
	assert.Equal(t, "20240115", KeyTerms("scan 20240115 report"))
}

func TestKeyTerms_FirstPatternWins(t *testing.T) {
	// LETTERS-digits outranks the bare number, which is dropped entirely
	assert.Equal(t, "EXH-42", KeyTerms("EXH-42 and file 123456"))
}

func TestKeyTerms_JoinsAllMatches(t *testing.T) {
	assert.Equal(t, "DOC-1-2 DOC-3-4", KeyTerms("DOC-1-2 versus DOC-3-4"))
}

func TestKeyTerms_FallbackToClean(t *testing.T) {
	assert.Equal(t, "hello world", KeyTerms("hello world.txt"))
}
