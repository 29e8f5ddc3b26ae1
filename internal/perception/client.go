package perception

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator is the single capability aimemo needs from a model provider:
// send one prompt, get back the candidates.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Response, error)
}

// Response is one model reply reduced to what callers consume.
type Response struct {
	// Candidates holds the text of each candidate, in service order.
	Candidates []string

	// FinishReason of the first candidate, if any.
	FinishReason string

	// BlockReason is set when the service withheld output for the prompt.
	BlockReason string

	// BlockMessage is the service's readable explanation of BlockReason.
	BlockMessage string

	// Model that served the request.
	Model string
}

// BlockReasonSafety is the block reason reported for content-safety blocks.
const BlockReasonSafety = "SAFETY"

// ErrNoCandidates is returned when a response carries no usable candidate text.
var ErrNoCandidates = errors.New("no candidates found in response")

// BlockedError reports a prompt the service refused to answer.
type BlockedError struct {
	Reason  string
	Message string
}

func (e *BlockedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("prompt blocked due to %s: %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("prompt blocked due to %s", e.Reason)
}

// IsSafety reports whether the block was a content-safety block.
func (e *BlockedError) IsSafety() bool {
	return e.Reason == BlockReasonSafety
}

// blockingFinishReasons are finish reasons for which the service withheld the
// candidate's content.
var blockingFinishReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
	"IMAGE_SAFETY":       true,
}

// FirstText returns the trimmed text of the first candidate.
// A response without candidates yields *BlockedError when a block reason is set
// and ErrNoCandidates otherwise. An empty first candidate is treated as no
// candidate, except that a blocking finish reason also yields *BlockedError.
func FirstText(resp *Response) (string, error) {
	if resp == nil {
		return "", ErrNoCandidates
	}
	if len(resp.Candidates) == 0 {
		if resp.BlockReason != "" {
			return "", &BlockedError{Reason: resp.BlockReason, Message: resp.BlockMessage}
		}
		return "", ErrNoCandidates
	}
	text := strings.TrimSpace(resp.Candidates[0])
	if text == "" {
		if blockingFinishReasons[resp.FinishReason] {
			return "", &BlockedError{Reason: resp.FinishReason, Message: "response withheld"}
		}
		if resp.FinishReason != "" {
			return "", fmt.Errorf("%w (finish reason %s)", ErrNoCandidates, resp.FinishReason)
		}
		return "", ErrNoCandidates
	}
	return text, nil
}

type purposeKey struct{}

// WithPurpose tags ctx with the reason for a model call (classify, merge:Summary, ...).
// Tracing uses it to attribute calls.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or "".
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeKey{}).(string)
	return p
}
