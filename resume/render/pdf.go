package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ledongthuc/pdf"
)

// A4 portrait in inches.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69

	defaultExportTimeout = 60 * time.Second
)

// ErrInvalidPDF is returned when the browser output does not parse as a PDF
// with at least one page.
var ErrInvalidPDF = errors.New("exported document is not a valid pdf")

// ChromeExporter prints rendered HTML to PDF with headless Chrome.
type ChromeExporter struct {
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
}

// NewChromeExporter constructs an exporter for the given Chrome binary.
func NewChromeExporter(execPath string) *ChromeExporter {
	return &ChromeExporter{ExecPath: execPath, Timeout: defaultExportTimeout}
}

// Export loads html into a blank page and prints it as an A4 PDF with no margins.
func (e *ChromeExporter) Export(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultExportTimeout
	}
	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var out []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			out, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	if err := VerifyPDF(out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyPDF checks that data parses as a PDF and has at least one page.
func VerifyPDF(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidPDF
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if reader.NumPage() < 1 {
		return ErrInvalidPDF
	}
	return nil
}
