package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteInTxRejectsUnknownStatus(t *testing.T) {
	ck := &Checkout{ID: "ck-1", Status: "abandoned"}

	_, err := CompleteInTx(context.Background(), nil, ck, nil)
	assert.ErrorIs(t, err, ErrNotCompletable)
	assert.Equal(t, "abandoned", ck.Status)
}
