//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)
	id := uuid.New()

	gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(createdAt, id))

	require.NoError(t, err)
	assert.Equal(t, createdAt.Truncate(time.Microsecond), gotAt, "cursor keeps microsecond precision")
	assert.Equal(t, id, gotID)
}

func TestDecodeAfterCursor_Invalid(t *testing.T) {
	enc := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	cases := []struct {
		name   string
		cursor string
	}{
		{name: "empty", cursor: ""},
		{name: "not base64", cursor: "%%%"},
		{name: "unknown version", cursor: enc("v2:1700000000000000-" + uuid.NewString())},
		{name: "missing separator", cursor: enc("v1:1700000000000000")},
		{name: "bad timestamp", cursor: enc("v1:abc-" + uuid.NewString())},
		{name: "bad id", cursor: enc("v1:1700000000000000-not-a-uuid")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tc.cursor)
			require.Error(t, err)
			assert.ErrorIs(t, err, queries.ErrInvalidCursor)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
}
