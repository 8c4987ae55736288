package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/metrics"
)

// DefaultPollInterval is used when NewJobPoller gets a non-positive interval.
const DefaultPollInterval = 2 * time.Second

// UnknownStatusMessage is shown when a read fails.
const UnknownStatusMessage = "Could not load job status."

// LoadingLabel labels observations made before the first successful read.
const LoadingLabel = "Loading…"

// JobReader is the read side of the job queue. Both the use case and the
// HTTP API client satisfy it.
type JobReader interface {
	Get(ctx context.Context, id string) (*model.Job, error)
}

// Progress is one observation of a job.
type Progress struct {
	Step    int        `json:"step"`
	Label   string     `json:"label"`
	Job     *model.Job `json:"job,omitempty"`
	Unknown bool       `json:"unknown"`
	Message string     `json:"message,omitempty"`
	// LogTail is the log text appended since the previous observation.
	LogTail  string `json:"log_tail,omitempty"`
	Terminal bool   `json:"terminal"`
}

// JobPoller reads one job immediately and then once per interval until the
// job is terminal or the poller is stopped. A failed read is reported as
// Unknown and polling continues.
type JobPoller struct {
	reader   JobReader
	id       string
	interval time.Duration
	onUpdate func(Progress)
	log      *zerolog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once

	lastStatus model.JobStatus
	logLen     int
}

// NewJobPoller wires a poller for job id. onUpdate runs on the poller's
// goroutine and must not call Stop.
func NewJobPoller(reader JobReader, id string, interval time.Duration, onUpdate func(Progress), logger *zerolog.Logger) *JobPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onUpdate == nil {
		onUpdate = func(Progress) {}
	}
	return &JobPoller{
		reader:   reader,
		id:       id,
		interval: interval,
		onUpdate: onUpdate,
		log:      logging.Component(logger, "job_poller"),
		done:     make(chan struct{}),
	}
}

// Start begins polling under parent. Calling it again has no effect.
func (p *JobPoller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	go p.loop(ctx)
}

// Stop cancels polling and waits for the loop to exit. It is idempotent and
// safe before Start.
func (p *JobPoller) Stop() {
	p.stop.Do(func() {
		p.mu.Lock()
		started, cancel := p.started, p.cancel
		p.started = true
		p.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if !started {
			close(p.done)
			return
		}
	})
	<-p.done
}

// Done is closed once the loop has exited.
func (p *JobPoller) Done() <-chan struct{} { return p.done }

func (p *JobPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer func() {
		ticker.Stop()
		if p.cancel != nil {
			p.cancel()
		}
		close(p.done)
	}()

	log := p.log.With().Str("job_id", p.id).Logger()
	log.Debug().Dur("interval", p.interval).Msg("poller started")
	for {
		if p.poll(ctx) {
			log.Debug().Str("status", string(p.lastStatus)).Msg("job terminal; poller stopping")
			return
		}
		select {
		case <-ctx.Done():
			log.Debug().Msg("poller cancelled")
			return
		case <-ticker.C:
		}
	}
}

// poll performs one read and reports whether the job is terminal.
func (p *JobPoller) poll(ctx context.Context) bool {
	job, err := p.reader.Get(ctx, p.id)
	if ctx.Err() != nil {
		return false
	}
	if err != nil || job == nil {
		metrics.IncJobPoll("unknown")
		p.log.Debug().Err(err).Str("job_id", p.id).Msg("job status unknown")
		label := LoadingLabel
		if p.lastStatus != "" {
			label = p.lastStatus.Label()
		}
		p.onUpdate(Progress{
			Step:    p.lastStatus.Step(),
			Label:   label,
			Unknown: true,
			Message: UnknownStatusMessage,
		})
		return false
	}

	p.lastStatus = job.Status
	pr := Progress{
		Step:     job.Status.Step(),
		Label:    job.Status.Label(),
		Job:      job,
		LogTail:  p.tail(job.Log),
		Terminal: job.Status.Terminal(),
	}
	if pr.Terminal {
		metrics.IncJobPoll("terminal")
	} else {
		metrics.IncJobPoll("ok")
	}
	p.onUpdate(pr)
	return pr.Terminal
}

// tail returns the part of full not yet reported. A log that shrank was
// rewritten, so it is reported whole.
func (p *JobPoller) tail(full string) string {
	if len(full) < p.logLen {
		p.logLen = 0
	}
	t := full[p.logLen:]
	p.logLen = len(full)
	return t
}
