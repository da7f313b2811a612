package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePasteFoldsFullwidthForms(t *testing.T) {
	// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A -> 'A'
	got := SanitizePaste("ＡＢＣ")
	assert.Equal(t, []byte("ABC"), got)
}

func TestSanitizePasteKeepsPrintableAndNewlines(t *testing.T) {
	got := SanitizePaste("echo hi\n")
	assert.Equal(t, []byte("echo hi\n"), got)
}

func TestSanitizePasteDropsOtherControlBytes(t *testing.T) {
	got := SanitizePaste("a\x01b\x1bc")
	assert.Equal(t, []byte("abc"), got)
}
