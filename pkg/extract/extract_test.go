package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	out, err := Text(".TXT", []byte("Jane Doe  \r\n\r\n\r\n\r\nEXPERIENCE\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nEXPERIENCE", out)
}

func TestTextEmpty(t *testing.T) {
	_, err := Text(".txt", []byte("   \n  "))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestTextUnsupported(t *testing.T) {
	_, err := Text(".rtf", []byte("{\\rtf1}"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text(".pdf", []byte("%PDF-1.4 not really"))
	assert.Error(t, err)
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Jane &amp; Co</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Acme</w:t></w:r><w:r><w:tab/></w:r><w:r><w:t>2020</w:t></w:r></w:p></w:body>`
	assert.Equal(t, "Jane & Co\nAcme    2020\n", docxXMLToText(xml))
}
