package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdfgraph/rdf"
)

func TestInstrumentCountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	codec, err := rdf.NewCodec(rdf.FormatNTriples, rdf.OptRegistry(rdf.NewRegistry()))
	require.NoError(t, err)
	codec = collector.Instrument(codec)
	assert.Equal(t, rdf.FormatNTriples, codec.Format())

	input := "<http://example.org/s> <http://example.org/p> \"a\" .\n" +
		"<http://example.org/s> <http://example.org/p> \"b\" .\n"
	g, err := codec.Deserialize(strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, codec.Serialize(&buf, g))

	_, err = codec.Deserialize(strings.NewReader("not a triple\n"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.operations.WithLabelValues("ntriples", OpDeserialize, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.operations.WithLabelValues("ntriples", OpSerialize, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.operations.WithLabelValues("ntriples", OpDeserialize, string(rdf.Code(err)))))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.triples.WithLabelValues("ntriples", OpDeserialize)))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.triples.WithLabelValues("ntriples", OpSerialize)))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.duration))
}

func TestNewCollectorRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)
	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestNewCollectorWithoutRegistry(t *testing.T) {
	collector, err := NewCollector(nil)
	require.NoError(t, err)
	assert.NotNil(t, collector.Instrument(nil))
}
