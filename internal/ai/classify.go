package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	claudecode "github.com/rokrokss/claude-code-sdk-go"
)

// Error messages for user-friendly output
const (
	errMsgCLINotFound = "Claude Code CLI not found. Install with: npm install -g @anthropic-ai/claude-code"
	errMsgConnection  = "connection to Claude Code CLI failed: %s"
	errMsgProcess     = "Claude Code CLI subprocess failed: %s"
	errMsgRefused     = "connection refused"
	errMsgTimeout     = "request timed out"
	errMsgCanceled    = "request canceled"
)

// httpStatusError is returned by the HTTP adapters for non-2xx responses.
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// classifyError turns a transport-level failure into a concise reason for
// the user. It returns "" when the error is best shown as is (for example
// a response parsing error). Nothing is retried.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errMsgTimeout
	}
	if errors.Is(err, context.Canceled) {
		return errMsgCanceled
	}

	// Claude Code SDK error types
	var cliNotFoundErr *claudecode.CLINotFoundError
	if errors.As(err, &cliNotFoundErr) {
		return errMsgCLINotFound
	}
	var processErr *claudecode.ProcessError
	if errors.As(err, &processErr) {
		return fmt.Sprintf(errMsgProcess, extractProcessErrorMsg(processErr))
	}
	var connectionErr *claudecode.ConnectionError
	if errors.As(err, &connectionErr) {
		return fmt.Sprintf(errMsgConnection, connectionErr.Error())
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return errMsgRefused
	}
	if isNetworkError(err) {
		return "network error: " + extractNetworkErrorMsg(err)
	}
	return ""
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// extractProcessErrorMsg extracts details from a ProcessError
func extractProcessErrorMsg(processErr *claudecode.ProcessError) string {
	if processErr.Stderr != "" {
		return processErr.Stderr
	}
	if processErr.ExitCode != 0 {
		return fmt.Sprintf("exit code %d", processErr.ExitCode)
	}
	return processErr.Error()
}

// extractNetworkErrorMsg extracts a user-friendly message from a network error
func extractNetworkErrorMsg(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timed out"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op + " failed"
	}

	return "connection failed"
}
