package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"campus-lending/internal/domain/contract"
)

const defaultTimeout = 30 * time.Second

// waitForImages resolves once every <img> has loaded or failed.
const waitForImages = `Promise.all(Array.from(document.images)
  .filter(img => !img.complete)
  .map(img => new Promise(done => { img.onload = img.onerror = done; })))
  .then(() => true)`

// A4 in inches, margins 15mm.
const (
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 0.59
)

var _ contract.Renderer = (*ChromeRenderer)(nil)

type ChromeConfig struct {
	// RemoteURL points at a running Chrome (ws://host:9222); empty launches one.
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
	Logger    *zap.Logger
}

// ChromeRenderer prints the contract HTML to PDF through headless Chrome.
type ChromeRenderer struct {
	cfg         ChromeConfig
	log         *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromeRenderer(cfg ChromeConfig) *ChromeRenderer {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &ChromeRenderer{cfg: cfg, log: log}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("font-render-hinting", "none"),
		)
		if cfg.NoSandbox {
			opts = append(opts, chromedp.Flag("no-sandbox", true))
		}
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return r
}

func (r *ChromeRenderer) Render(ctx context.Context, d contract.Data) ([]byte, error) {
	html, err := RenderHTML(d)
	if err != nil {
		return nil, fmt.Errorf("contract template: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.log.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// stop the browser tab when the caller gives up
	go func() {
		<-ctx.Done()
		browserCancel()
	}()

	start := time.Now()
	var (
		out          []byte
		imagesLoaded bool
	)
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		// signatures and the seal are remote images
		chromedp.Evaluate(waitForImages, &imagesLoaded, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("contract pdf timed out after %v: %w", r.cfg.Timeout, err)
		}
		r.log.Error("contract pdf failed", zap.String("contract", d.Number), zap.Error(err))
		return nil, fmt.Errorf("contract pdf: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("contract pdf: empty output")
	}
	r.log.Info("contract rendered",
		zap.String("contract", d.Number),
		zap.Int("bytes", len(out)),
		zap.Duration("took", time.Since(start)))
	return out, nil
}

func (r *ChromeRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
