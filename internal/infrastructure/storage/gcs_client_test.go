package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	name := ObjectName("chat/conv1", "image/png", true, now)
	assert.True(t, strings.HasPrefix(name, "public/chat/conv1/"))
	assert.True(t, strings.HasSuffix(name, "-20240501103000.png"))

	name = ObjectName("public/listings", "application/octet-stream", false, now)
	assert.True(t, strings.HasPrefix(name, "public/listings/"))
	assert.True(t, strings.HasSuffix(name, ".bin"))

	name = ObjectName("exports", "image/jpeg", false, now)
	assert.True(t, strings.HasPrefix(name, "private/exports/"))
}

func TestParseObjectURL(t *testing.T) {
	name, err := ParseObjectURL("https://storage.googleapis.com/bkt/public/chat/a.png", "bkt")
	require.NoError(t, err)
	assert.Equal(t, "public/chat/a.png", name)

	_, err = ParseObjectURL("https://storage.googleapis.com/other/public/a.png", "bkt")
	assert.Error(t, err)

	_, err = ParseObjectURL("https://example.com/bkt/a.png", "bkt")
	assert.Error(t, err)
}
