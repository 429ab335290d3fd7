package s3

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/cornerstone/internal/archive"
)

func mockTransport(s *Store) *mockRoundTripper {
	return s.client.Options().HTTPClient.(*http.Client).Transport.(*mockRoundTripper)
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()
	assert.Equal(t, archive.DriverS3, s.Driver())

	body := []byte("survey of 1887 floor plans")
	info, err := archive.Save(ctx, s, body, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, archive.Key(body), info.Key)
	assert.EqualValues(t, len(body), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)

	got, rc, err := s.Get(ctx, info.Key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, info.Key, got.Key)

	rt := mockTransport(s)
	_, ok := rt.objects["documents/"+info.Key]
	assert.True(t, ok, "object stored under prefix")
}

func TestStore_PutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()

	_, err := archive.Save(ctx, s, []byte("a"), "text/plain")
	require.NoError(t, err)
	_, err = archive.Save(ctx, s, []byte("a"), "text/plain")
	require.NoError(t, err)

	assert.Equal(t, 1, mockTransport(s).puts)
}

func TestStore_Missing(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests()

	_, err := s.Head(ctx, archive.Key([]byte("nope")))
	assert.ErrorIs(t, err, archive.ErrNotFound)

	_, _, err = s.Get(ctx, archive.Key([]byte("nope")))
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestDecodeChunked(t *testing.T) {
	raw := "5;chunk-signature=abc\r\nhello\r\n6\r\n world\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"
	out, err := decodeChunked([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(out))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
