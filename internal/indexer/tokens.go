package indexer

import (
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultModel selects the encoding used for token estimates.
const DefaultModel = "gpt-4"

// ApproxModel selects ApproxCounter without consulting tiktoken.
const ApproxModel = "approx"

// Counter estimates how many tokens a prompt body costs.
type Counter interface {
	Count(text string) int
	Name() string
}

type tiktokenCounter struct {
	model string
	enc   *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

func (c *tiktokenCounter) Name() string { return c.model }

// ApproxCounter assumes four characters per token.
type ApproxCounter struct{}

// Count implements Counter.
func (ApproxCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

// Name implements Counter.
func (ApproxCounter) Name() string { return ApproxModel }

// NewCounter returns a tiktoken counter for model, or ApproxCounter when the
// encoding cannot be loaded (for example without network access on first use).
func NewCounter(model string) Counter {
	switch model {
	case "":
		model = DefaultModel
	case ApproxModel:
		return ApproxCounter{}
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return ApproxCounter{}
	}
	return &tiktokenCounter{model: model, enc: enc}
}
