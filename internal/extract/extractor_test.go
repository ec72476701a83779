package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuvault/internal/service"
)

func TestKindForType(t *testing.T) {
	tests := []struct {
		tag     string
		want    Kind
		wantErr bool
	}{
		{"pdf", KindPDF, false},
		{".pdf", KindPDF, false},
		{".PDF", KindPDF, false},
		{"docx", KindWord, false},
		{"doc", KindWord, false},
		{" .txt ", KindText, false},
		{"md", KindMarkdown, false},
		{"exe", 0, true},
		{".jpg", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := KindForType(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, service.ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText_UTF8(t *testing.T) {
	ext := New()
	got, err := ext.Extract(context.Background(), []byte("plain utf-8 çağrı"), KindText)
	require.NoError(t, err)
	assert.Equal(t, "plain utf-8 çağrı", got)
}

func TestExtractText_EncodingFallback(t *testing.T) {
	// "café" in Latin-1: é is 0xE9, which is not valid UTF-8 on its own.
	data := []byte{'c', 'a', 'f', 0xE9}
	ext := New()

	got, err := ext.Extract(context.Background(), data, KindText)
	require.NoError(t, err)
	assert.Equal(t, "café", got)
}

func TestExtractWord(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
  </body>
</document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	ext := New()
	got, err := ext.Extract(context.Background(), buf.Bytes(), KindWord)
	require.NoError(t, err)
	assert.Contains(t, got, "First paragraph.")
	assert.Contains(t, got, "Second paragraph.")
}

func TestExtractWord_Invalid(t *testing.T) {
	ext := New()

	_, err := ext.Extract(context.Background(), []byte("not a zip archive"), KindWord)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrExtractionFailed)

	// Valid zip without a document body.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("nothing"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ext.Extract(context.Background(), buf.Bytes(), KindWord)
	assert.ErrorIs(t, err, service.ErrExtractionFailed)
}

func TestExtractPDF_Invalid(t *testing.T) {
	ext := New()
	_, err := ext.Extract(context.Background(), []byte("%PDF-not-really"), KindPDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrExtractionFailed)
}

func TestExtractMarkdown(t *testing.T) {
	md := []byte("# Title\n\nA paragraph with **bold** text.\n\n- first item\n- second item\n\n```\ncode line\n```\n")

	ext := New()
	got, err := ext.Extract(context.Background(), md, KindMarkdown)
	require.NoError(t, err)

	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "A paragraph with bold text.")
	assert.Contains(t, got, "first item")
	assert.Contains(t, got, "code line")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "# ")
}

func TestExtract_UnknownKind(t *testing.T) {
	ext := New()
	_, err := ext.Extract(context.Background(), []byte("x"), Kind(42))
	assert.True(t, errors.Is(err, service.ErrUnsupportedFileType))
}
