package oracle

import (
	"fmt"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vito/primal/pkg/scl"
)

// Metrics are the Prometheus series exported by the decorators.
type Metrics struct {
	Queries   *prometheus.CounterVec
	CacheHits prometheus.Counter
}

// NewMetrics creates the oracle series and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primal",
			Subsystem: "oracle",
			Name:      "queries_total",
			Help:      "Membership queries answered by the oracle, by result",
		}, []string{"result"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "primal",
			Subsystem: "oracle",
			Name:      "cache_hits_total",
			Help:      "Membership queries answered from the cache",
		}),
	}
}

// Counter counts the queries passed through to another oracle.
type Counter struct {
	inner   Oracle
	calls   atomic.Int64
	metrics *Metrics
}

// NewCounter wraps inner. metrics may be nil.
func NewCounter(inner Oracle, metrics *Metrics) *Counter {
	return &Counter{inner: inner, metrics: metrics}
}

func (c *Counter) Generates(s scl.Sentence) bool {
	c.calls.Add(1)
	ok := c.inner.Generates(s)
	if c.metrics != nil {
		c.metrics.Queries.WithLabelValues(strconv.FormatBool(ok)).Inc()
	}
	return ok
}

// Calls returns the number of queries so far.
func (c *Counter) Calls() int64 {
	return c.calls.Load()
}

// Cache memoizes answers of another oracle in a bounded LRU.
type Cache struct {
	inner   Oracle
	answers *lru.Cache[scl.Sentence, bool]
	metrics *Metrics
}

// NewCache wraps inner with an LRU holding up to size answers.
func NewCache(inner Oracle, size int, metrics *Metrics) (*Cache, error) {
	answers, err := lru.New[scl.Sentence, bool](size)
	if err != nil {
		return nil, fmt.Errorf("oracle cache: %w", err)
	}
	return &Cache{inner: inner, answers: answers, metrics: metrics}, nil
}

func (c *Cache) Generates(s scl.Sentence) bool {
	if ok, found := c.answers.Get(s); found {
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return ok
	}
	ok := c.inner.Generates(s)
	c.answers.Add(s, ok)
	return ok
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	return c.answers.Len()
}
