package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitClamping(t *testing.T) {
	assert.Equal(t, defaultPageSize, Pagination{}.Limit())
	assert.Equal(t, defaultPageSize, Pagination{PageSize: -5}.Limit())
	assert.Equal(t, 35, Pagination{PageSize: 35}.Limit())
	assert.Equal(t, maxPageSize, Pagination{PageSize: 5000}.Limit())
}

func TestTokenRoundTrip(t *testing.T) {
	assert.Equal(t, "", EncodeToken(0))
	assert.Equal(t, "", EncodeToken(-1))

	token := EncodeToken(40)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(40), DecodeToken(token))
}

func TestDecodeTokenMalformed(t *testing.T) {
	assert.Equal(t, int64(0), DecodeToken(""))
	assert.Equal(t, int64(0), DecodeToken("  "))
	assert.Equal(t, int64(0), DecodeToken("!!not-base64!!"))
	// Valid base64 but not a number.
	assert.Equal(t, int64(0), DecodeToken(EncodeToken(7)+"x"))
}
