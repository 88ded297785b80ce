package extract_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatoora/internal/extract"
	"fatoora/internal/port"
)

type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	return s.out, s.err
}

func okOutput(model string) *port.ExtractOutput {
	return &port.ExtractOutput{
		RawData:   json.RawMessage(`{"supplier":"X","items":[]}`),
		ModelUsed: model,
	}
}

func TestChain_FirstProviderSucceeds(t *testing.T) {
	primary := &stubExtractor{out: okOutput("primary")}
	secondary := &stubExtractor{out: okOutput("secondary")}

	chain := extract.NewChain(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := chain.Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "primary", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary must not run when primary succeeds")
}

func TestChain_FallsBackOnFailure(t *testing.T) {
	primary := &stubExtractor{err: errors.New("upstream 500")}
	secondary := &stubExtractor{out: okOutput("secondary")}

	chain := extract.NewChain(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := chain.Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ModelUsed)
	assert.Equal(t, 1, primary.calls, "a failed provider is invoked at most once per document")
}

func TestChain_AllProvidersFail(t *testing.T) {
	primary := &stubExtractor{err: errors.New("bad response")}
	secondary := &stubExtractor{err: errors.New("timeout")}

	chain := extract.NewChain(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	_, err := chain.Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "all providers failed")
}

func TestChain_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubExtractor{err: extract.NewRateLimitError("primary", errors.New("429"), 60)}
	secondary := &stubExtractor{out: okOutput("secondary")}

	chain := extract.NewChain(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	for i := 0; i < 3; i++ {
		out, err := chain.Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
		require.NoError(t, err)
		assert.Equal(t, "secondary", out.ModelUsed)
	}
	assert.Equal(t, 1, primary.calls, "rate-limited provider is skipped while its circuit is open")
	assert.Equal(t, 3, secondary.calls)
}

func TestChain_AllRateLimited(t *testing.T) {
	primary := &stubExtractor{err: extract.NewRateLimitError("primary", errors.New("429"), 30)}
	secondary := &stubExtractor{err: extract.NewRateLimitError("secondary", errors.New("429"), 60)}

	chain := extract.NewChain(
		[]port.InvoiceExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	_, err := chain.Extract(context.Background(), port.ExtractInput{ContentType: "application/pdf"})
	require.Error(t, err)

	var rlErr *extract.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
}
