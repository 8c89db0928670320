package contract

import (
	"context"
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningsCollectPerContext(t *testing.T) {
	ctxA, a := WithWarnings(context.Background())
	ctxB, b := WithWarnings(context.Background())

	ReportWarnings(ctxA, []schema.DataWarning{{Kind: schema.MissingColumn, Message: "a"}})
	ReportWarnings(ctxB, []schema.DataWarning{{Kind: schema.MissingColumn, Message: "b1"}, {Kind: schema.MissingColumn, Message: "b2"}})
	ReportWarnings(ctxA, nil)

	require.Len(t, a.List(), 1)
	assert.Equal(t, "a", a.List()[0].Message)
	assert.Len(t, b.List(), 2)

	// Outside a collecting context the report is a no-op.
	ReportWarnings(context.Background(), []schema.DataWarning{{Message: "lost"}})
	assert.Len(t, a.List(), 1)

	// List hands out a copy.
	got := a.List()
	got[0].Message = "changed"
	assert.Equal(t, "a", a.List()[0].Message)
}
