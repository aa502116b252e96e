package standard

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"

	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
)

// classify maps a client error onto the core transport error kinds.
// Caller cancellation is returned unchanged.
func classify(ctx context.Context, rawURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	switch {
	case isTLSFailure(err):
		return &coreerrors.TLSError{URL: rawURL, Cause: err}
	case isTimeout(err):
		return &coreerrors.TimeoutError{URL: rawURL, Cause: err}
	default:
		return &coreerrors.ConnectError{URL: rawURL, Cause: err}
	}
}

func isTLSFailure(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	if errors.As(err, &verifyErr) || errors.As(err, &recordErr) || errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) || errors.As(err, &hostnameErr) || errors.As(err, &invalidErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
