package pressmill

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// defaultExportTimeout bounds one page load plus capture.
const defaultExportTimeout = 30 * time.Second

// defaultPageSelector identifies page elements for per-page image capture
// when a profile does not declare its own.
const defaultPageSelector = ".page"

// PageCapture is one captured page image and its 1-based page number.
type PageCapture struct {
	Number int
	Data   []byte
}

// Exporter abstracts browser-driven artifact capture to allow test doubles.
type Exporter interface {
	// CapturePDF renders a local HTML file to PDF bytes.
	CapturePDF(ctx context.Context, htmlPath string, profile ExportProfile) ([]byte, error)

	// CapturePages screenshots the page elements of a local HTML file.
	// pages filters 1-based page numbers; empty means all.
	CapturePages(ctx context.Context, htmlPath string, kind ExportKind, profile ExportProfile, pages []int) ([]PageCapture, error)

	Close() error
}

// Compile-time interface check.
var _ Exporter = (*rodExporter)(nil)

// rodExporter captures artifacts with headless Chrome via go-rod.
// Rod downloads Chromium on first run when none is found; the browser
// launches lazily and is shared across captures.
type rodExporter struct {
	mu      sync.Mutex
	browser *rod.Browser
	timeout time.Duration
}

func newRodExporter(timeout time.Duration) *rodExporter {
	return &rodExporter{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (e *rodExporter) ensureBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser != nil {
		return e.browser, nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.browser = browser
	return browser, nil
}

// Close releases browser resources.
func (e *rodExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}

// openPage loads a local HTML file and waits for it to settle.
func (e *rodExporter) openPage(ctx context.Context, htmlPath string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + htmlPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			page.Close()
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return page, nil
}

// CapturePDF renders the page to PDF using the profile's geometry.
func (e *rodExporter) CapturePDF(ctx context.Context, htmlPath string, profile ExportProfile) ([]byte, error) {
	page, err := e.openPage(ctx, htmlPath)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	width, height := profile.PaperWidth, profile.PaperHeight
	if profile.Landscape {
		width, height = height, width
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(profile.Margin),
		MarginBottom:    floatPtr(profile.Margin),
		MarginLeft:      floatPtr(profile.Margin),
		MarginRight:     floatPtr(profile.Margin),
		Scale:           floatPtr(profile.Scale),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFCapture, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFCapture, err)
	}
	return pdfBuf, nil
}

// CapturePages screenshots each element matching the profile's page
// selector, filtered to the requested 1-based page numbers.
func (e *rodExporter) CapturePages(ctx context.Context, htmlPath string, kind ExportKind, profile ExportProfile, pages []int) ([]PageCapture, error) {
	page, err := e.openPage(ctx, htmlPath)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	selector := profile.PageSelector
	if selector == "" {
		selector = defaultPageSelector
	}

	format := proto.PageCaptureScreenshotFormatPng
	quality := 0
	if kind == ExportJPG {
		format = proto.PageCaptureScreenshotFormatJpeg
		quality = profile.Quality
		if quality == 0 {
			quality = 90
		}
	}

	elements, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCapture, err)
	}

	wanted := pageNumberSet(pages)
	var captures []PageCapture
	for i, el := range elements {
		number := i + 1
		if wanted != nil {
			if _, ok := wanted[number]; !ok {
				continue
			}
		}
		data, err := el.Screenshot(format, quality)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrImageCapture, number, err)
		}
		captures = append(captures, PageCapture{Number: number, Data: data})
	}
	return captures, nil
}

// pageNumberSet returns nil for "all pages".
func pageNumberSet(pages []int) map[int]struct{} {
	if len(pages) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	return set
}

func floatPtr(v float64) *float64 {
	return &v
}
