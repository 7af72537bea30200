package browser

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Manager owns the one headless Chrome process shared by every extractor.
// The browser is launched lazily on the first NewTab call and reused until
// Release; extractors isolate themselves in their own tabs.
type Manager struct {
	execPath string

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	closed        bool
}

// NewManager prepares a manager without launching anything. execPath selects
// an externally installed chromium binary (containerized/serverless deploys);
// empty means chromedp's default lookup.
func NewManager(execPath string) *Manager {
	return &Manager{execPath: execPath}
}

func (m *Manager) launchLocked() error {
	if m.closed {
		return fmt.Errorf("browser manager already released")
	}
	if m.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
	)
	if m.execPath != "" {
		opts = append(opts, chromedp.ExecPath(m.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Empty Run forces the process to spawn now, so a broken chromium
	// install surfaces here instead of mid-extraction.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("launching browser: %w", err)
	}

	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	m.allocCancel = allocCancel
	log.Println("Browser launched")
	return nil
}

// NewTab opens an independent tab on the shared browser, launching it on
// first use. The returned cancel closes only the tab.
func (m *Manager) NewTab() (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.launchLocked(); err != nil {
		return nil, nil, err
	}
	tabCtx, tabCancel := chromedp.NewContext(m.browserCtx)
	return tabCtx, tabCancel, nil
}

// Release shuts the shared browser down. Safe to call more than once and
// from signal handlers; NewTab fails afterwards.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	if m.browserCancel != nil {
		m.browserCancel()
		m.allocCancel()
		m.browserCtx = nil
		log.Println("Browser closed")
	}
}
