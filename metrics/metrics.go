// Package metrics instruments rdf codecs with Prometheus collectors.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geoknoesis/rdfgraph/rdf"
)

const namespace = "rdfgraph"

// Operation labels.
const (
	OpSerialize   = "serialize"
	OpDeserialize = "deserialize"
)

// Collector holds the codec metrics.
type Collector struct {
	operations *prometheus.CounterVec
	triples    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewCollector creates the codec metrics and registers them with reg when
// reg is not nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_operations_total",
			Help:      "Codec operations by format, operation and result.",
		}, []string{"format", "operation", "result"}),
		triples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_triples_total",
			Help:      "Triples read or written by codecs.",
		}, []string{"format", "operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "codec_duration_seconds",
			Help:      "Time spent in codec operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"format", "operation"}),
	}
	if reg != nil {
		for _, collector := range []prometheus.Collector{c.operations, c.triples, c.duration} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collector) observe(format rdf.Format, op string, start time.Time, triples int, err error) {
	result := "ok"
	if err != nil {
		result = string(rdf.Code(err))
	}
	c.operations.WithLabelValues(string(format), op, result).Inc()
	c.duration.WithLabelValues(string(format), op).Observe(time.Since(start).Seconds())
	if err == nil {
		c.triples.WithLabelValues(string(format), op).Add(float64(triples))
	}
}

// Instrument wraps codec so every call is counted and timed.
func (c *Collector) Instrument(codec rdf.Codec) rdf.Codec {
	return &instrumentedCodec{Codec: codec, collector: c}
}

type instrumentedCodec struct {
	rdf.Codec
	collector *Collector
}

func (i *instrumentedCodec) Serialize(w io.Writer, g *rdf.Graph) error {
	start := time.Now()
	err := i.Codec.Serialize(w, g)
	i.collector.observe(i.Format(), OpSerialize, start, g.Len(), err)
	return err
}

func (i *instrumentedCodec) Deserialize(r io.Reader) (*rdf.Graph, error) {
	start := time.Now()
	g, err := i.Codec.Deserialize(r)
	triples := 0
	if g != nil {
		triples = g.Len()
	}
	i.collector.observe(i.Format(), OpDeserialize, start, triples, err)
	return g, err
}
