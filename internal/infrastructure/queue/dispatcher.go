package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/g6blog/blog-api/internal/api/metrics"
	"github.com/g6blog/blog-api/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	applyTimeout   = 5 * time.Second
)

// Counter is the slice of the blog repository the dispatcher needs.
type Counter interface {
	IncrementField(ctx context.Context, id, field string, delta int64) error
}

// ViewDispatcher applies blog view increments off the request path. Views are
// routed to a fixed set of workers by hashing the blog id, so increments for
// one blog are applied by a single goroutine.
type ViewDispatcher struct {
	workers []chan string
	counter Counter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewViewDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewViewDispatcher(numWorkers int, counter Counter, log zerolog.Logger) *ViewDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &ViewDispatcher{
		workers: make([]chan string, numWorkers),
		counter: counter,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *ViewDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *ViewDispatcher) Wait() {
	d.wg.Wait()
}

// RecordView enqueues one view for blogID. It never blocks: when the shard is
// full the view is dropped and counted.
func (d *ViewDispatcher) RecordView(blogID string) {
	idx := d.shardIndex(blogID)
	select {
	case d.workers[idx] <- blogID:
		metrics.ViewsTotal.WithLabelValues("queued").Inc()
		metrics.ViewQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ViewsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("blog_id", blogID).Int("worker_id", idx).Msg("view queue full, dropping view")
	}
}

// shardIndex maps a blog id deterministically to a worker index.
func (d *ViewDispatcher) shardIndex(blogID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(blogID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *ViewDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case blogID := <-ch:
			metrics.ViewQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.apply(ctx, id, blogID)
		}
	}
}

func (d *ViewDispatcher) apply(ctx context.Context, workerID int, blogID string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	err := d.counter.IncrementField(ctx, blogID, domain.FieldViews, 1)
	metrics.ViewApplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ViewsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("blog_id", blogID).
			Int("worker_id", workerID).
			Msg("view increment failed")
		return
	}
	metrics.ViewsTotal.WithLabelValues("applied").Inc()
}
