package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is the work fired once per day.
type Job func(ctx context.Context) error

type DailyConfig struct {
	Hour     int
	Minute   int
	Location *time.Location
	// CheckInterval is how often the clock is polled.
	CheckInterval time.Duration
}

// Daily runs a job once per calendar day, at or after Hour:Minute in Location.
// A process started after the hour still runs that day's job on the first tick.
type Daily struct {
	cfg DailyConfig
	job Job
	log *zap.Logger
	now func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
	lastRunDate string
}

func NewDaily(cfg DailyConfig, job Job, log *zap.Logger) *Daily {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Daily{cfg: cfg, job: job, log: log, now: time.Now}
}

func (d *Daily) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go d.loop(ctx)

	d.log.Info("daily trigger started",
		zap.Int("hour", d.cfg.Hour),
		zap.Int("minute", d.cfg.Minute),
		zap.String("tz", d.cfg.Location.String()),
		zap.Duration("check_interval", d.cfg.CheckInterval))
}

// Stop cancels the loop and waits for a running job, bounded by ctx.
func (d *Daily) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.mu.Unlock()

	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.log.Info("daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Daily) loop(ctx context.Context) {
	defer d.wg.Done()

	d.Tick(ctx)
	ticker := time.NewTicker(d.cfg.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs the job if it is due and has not run today. It reports whether
// the job was started.
func (d *Daily) Tick(ctx context.Context) bool {
	now := d.now().In(d.cfg.Location)
	today := now.Format("2006-01-02")
	at := time.Date(now.Year(), now.Month(), now.Day(), d.cfg.Hour, d.cfg.Minute, 0, 0, d.cfg.Location)

	d.mu.Lock()
	if d.lastRunDate == today || now.Before(at) {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = today
	d.mu.Unlock()

	if err := d.job(ctx); err != nil {
		d.log.Error("daily job failed", zap.String("date", today), zap.Error(err))
	}
	return true
}
