package standard

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/byfranke/PastebinSearch/pkg/featureflags"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

var probePayload = []byte("<html><body>capability probe</body></html>")

// CapabilityProbes returns round-trip checks for every optional encoding
func CapabilityProbes() map[featureflags.FeatureFlag]featureflags.Probe {
	return map[featureflags.FeatureFlag]featureflags.Probe{
		featureflags.Brotli: probeBrotli,
		featureflags.Zstd:   probeZstd,
	}
}

// DetectCapabilities probes optional encodings once, honouring env overrides
func DetectCapabilities(env *featureflags.EnvManager) featureflags.Set {
	return featureflags.Detect(CapabilityProbes(), env)
}

func probeBrotli() error {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(probePayload); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	out, err := io.ReadAll(brotli.NewReader(&buf))
	if err != nil {
		return err
	}
	if !bytes.Equal(out, probePayload) {
		return fmt.Errorf("brotli round trip mismatch")
	}
	return nil
}

func probeZstd() error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(probePayload, nil)
	enc.Close()

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return err
	}
	if !bytes.Equal(out, probePayload) {
		return fmt.Errorf("zstd round trip mismatch")
	}
	return nil
}

// decoder wraps body according to Content-Encoding.
// Encodings the session did not negotiate are passed through unchanged.
func (s *Session) decoder(encoding string, body io.Reader) (io.Reader, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, noop, nil
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(body)
		if err != nil {
			return nil, noop, fmt.Errorf("reading gzip body: %w", err)
		}
		return r, func() { r.Close() }, nil
	case "deflate":
		return deflateReader(body)
	case "br":
		if !s.opts.Capabilities.Has(featureflags.Brotli) {
			break
		}
		return brotli.NewReader(body), noop, nil
	case "zstd":
		if !s.opts.Capabilities.Has(featureflags.Zstd) {
			break
		}
		r, err := zstd.NewReader(body)
		if err != nil {
			return nil, noop, fmt.Errorf("reading zstd body: %w", err)
		}
		return r, r.Close, nil
	}

	s.logger.Warn("Response uses an encoding that was not negotiated", map[string]interface{}{
		"encoding": encoding,
	})
	return body, noop, nil
}

// deflateReader accepts zlib-wrapped and raw deflate streams
func deflateReader(body io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(body)
	header, err := br.Peek(2)
	if err == nil && isZlibHeader(header) {
		r, err := zlib.NewReader(br)
		if err != nil {
			return nil, func() {}, fmt.Errorf("reading deflate body: %w", err)
		}
		return r, func() { r.Close() }, nil
	}
	r := flate.NewReader(br)
	return r, func() { r.Close() }, nil
}

func isZlibHeader(h []byte) bool {
	return h[0]&0x0f == 8 && (uint16(h[0])<<8|uint16(h[1]))%31 == 0
}
