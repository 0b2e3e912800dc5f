package rdf

import (
	"bytes"
	"io"
	"strings"
)

const formatDetectionBufferSize = 512

// DetectFormat guesses the format of r from its first bytes. The returned
// reader replays the sampled bytes, so callers decode from it rather than r.
func DetectFormat(r io.Reader) (Format, io.Reader, bool) {
	buf := make([]byte, formatDetectionBufferSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", r, false
	}
	sample := buf[:n]
	replay := io.MultiReader(bytes.NewReader(sample), r)
	format, ok := detectFormatFromSample(string(sample))
	return format, replay, ok
}

func detectFormatFromSample(sample string) (Format, bool) {
	sample = strings.TrimSpace(strings.TrimPrefix(sample, "\ufeff"))
	if sample == "" {
		return "", false
	}

	if strings.HasPrefix(sample, "{") || strings.HasPrefix(sample, "[") {
		return FormatJSONLD, true
	}

	if strings.HasPrefix(sample, "<?xml") || strings.HasPrefix(sample, "<!--") ||
		strings.HasPrefix(sample, "<rdf:") || strings.HasPrefix(sample, "<RDF") || strings.HasPrefix(sample, "<TriX") {
		if strings.Contains(sample, "<TriX") {
			return FormatTriX, true
		}
		return FormatRDFXML, true
	}

	upper := strings.ToUpper(sample)
	if strings.HasPrefix(upper, "@PREFIX") || strings.HasPrefix(upper, "PREFIX") ||
		strings.HasPrefix(upper, "@BASE") || strings.HasPrefix(upper, "BASE") {
		return FormatTurtle, true
	}

	// N-Triples lines start with an IRI or blank node label and never use
	// prefixed names, property lists or collections.
	ntriples := true
	seen := false
	for _, line := range strings.Split(sample, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seen = true
		if !strings.HasPrefix(line, "<") && !strings.HasPrefix(line, "_:") {
			ntriples = false
			break
		}
		if strings.ContainsAny(line, ";[(") && !strings.Contains(line, "\"") {
			ntriples = false
			break
		}
	}
	if seen && ntriples {
		return FormatNTriples, true
	}

	for _, part := range strings.Fields(sample) {
		if strings.Contains(part, ":") && !strings.HasPrefix(part, "_:") && !strings.HasPrefix(part, "<") && !strings.HasPrefix(part, "\"") {
			return FormatTurtle, true
		}
	}
	if strings.ContainsAny(sample, "[(") {
		return FormatTurtle, true
	}
	return "", false
}
