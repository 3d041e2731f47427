package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

// onePagePDF builds the smallest document the reader accepts, with a correct
// xref table.
func onePagePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestVerifyPDF(t *testing.T) {
	require.NoError(t, VerifyPDF(onePagePDF()))

	assert.ErrorIs(t, VerifyPDF(nil), ErrInvalidPDF)
	assert.ErrorIs(t, VerifyPDF([]byte("<html>not a pdf</html>")), ErrInvalidPDF)
}

func TestChromeExporterExport(t *testing.T) {
	execPath := os.Getenv("CHROME_PATH")
	if execPath == "" {
		t.Skip("CHROME_PATH not set")
	}

	var html bytes.Buffer
	require.NoError(t, Render(&html, model.TemplateModern, sampleResume()))

	out, err := NewChromeExporter(execPath).Export(context.Background(), html.Bytes())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
