package receipt

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/campushire/faculty-portal/internal/lifecycle"
)

// DefaultPDFTimeout bounds a single receipt render.
const DefaultPDFTimeout = 30 * time.Second

// ChromePDF renders receipts to PDF through a headless browser.
// Requires Chrome/Chromium to be installed on the system.
type ChromePDF struct {
	Timeout time.Duration
}

// NewChromePDF creates a PDF generator with the default timeout.
func NewChromePDF() *ChromePDF {
	return &ChromePDF{Timeout: DefaultPDFTimeout}
}

// GenerateReceipt renders the snapshot to HTML and prints it to PDF.
func (g *ChromePDF) GenerateReceipt(ctx context.Context, snap lifecycle.ReceiptSnapshot) ([]byte, error) {
	html, err := RenderHTML(snap)
	if err != nil {
		return nil, err
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+url.PathEscape(html)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print receipt to PDF: %w", err)
	}

	return pdf, nil
}
