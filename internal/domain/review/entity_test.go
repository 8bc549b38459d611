package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput(1, ""))
	assert.NoError(t, ValidateInput(5, strings.Repeat("a", MaxCommentLength)))
	// multi-byte characters count once
	assert.NoError(t, ValidateInput(3, strings.Repeat("é", MaxCommentLength)))

	assert.ErrorIs(t, ValidateInput(0, ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateInput(6, ""), ErrInvalidRating)
	assert.ErrorIs(t, ValidateInput(4, strings.Repeat("a", MaxCommentLength+1)), ErrCommentTooLong)
}
