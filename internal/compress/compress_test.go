package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecsRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("research notes about distributed systems. ", 50))

	codecs := []Compress{NewNop(), NewGZip(), NewBrotli(), NewLZ4()}
	for _, codec := range codecs {
		t.Run("codec "+codec.Name(), func(t *testing.T) {
			encoded, err := codec.Encode(payload)
			assert.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			assert.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestCompressionShrinksRepetitiveText(t *testing.T) {
	payload := []byte(strings.Repeat("the same sentence over and over. ", 100))

	for _, codec := range []Compress{NewGZip(), NewBrotli(), NewLZ4()} {
		encoded, err := codec.Encode(payload)
		assert.NoError(t, err)
		assert.Less(t, len(encoded), len(payload), codec.Name())
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, "gzip", ByName("gzip").Name())
	assert.Equal(t, "brotli", ByName("brotli").Name())
	assert.Equal(t, "lz4", ByName("lz4").Name())
	assert.Equal(t, "", ByName("").Name())
	assert.Equal(t, "", ByName("zstd").Name())

	// rows written before compression was enabled decode unchanged
	out, err := ForDecoding("").Decode([]byte("plain text"))
	assert.NoError(t, err)
	assert.Equal(t, "plain text", string(out))
}
