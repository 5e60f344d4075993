package kernel_test

import (
	"encoding/json"
	"testing"

	"orderservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid unique UUID", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id1.String())
		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	validUUID := "b0000000-0000-0000-0000-000000000001"

	t.Run("should create UUID from valid string", func(t *testing.T) {
		id, err := kernel.UUIDFromString(validUUID)

		require.NoError(t, err)
		assert.Equal(t, validUUID, id.String())
	})

	t.Run("should accept braced and urn forms", func(t *testing.T) {
		for _, input := range []string{"{" + validUUID + "}", "urn:uuid:" + validUUID} {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err, input)
			assert.Equal(t, validUUID, id.String())
		}
	})

	t.Run("should return error for invalid format", func(t *testing.T) {
		for _, input := range []string{"", "not-a-uuid", "b0000000-0000-0000-0000", "zzz00000-0000-0000-0000-000000000001"} {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err, input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUIDFromGoogle(t *testing.T) {
	t.Run("should wrap a valid uuid", func(t *testing.T) {
		raw := uuid.New()

		id, err := kernel.UUIDFromGoogle(raw)

		require.NoError(t, err)
		assert.Equal(t, raw, id.Value())
	})

	t.Run("should reject uuid.Nil", func(t *testing.T) {
		_, err := kernel.UUIDFromGoogle(uuid.Nil)

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestMustUUID(t *testing.T) {
	assert.Equal(t, "a0000000-0000-0000-0000-000000000001", kernel.MustUUID("a0000000-0000-0000-0000-000000000001").String())
	assert.Panics(t, func() { kernel.MustUUID("bad") })
}

func TestUUID_Validate(t *testing.T) {
	var id kernel.UUID

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	assert.NoError(t, kernel.NewUUID().Validate())
}

func TestUUID_JSON(t *testing.T) {
	t.Run("should encode as string", func(t *testing.T) {
		id := kernel.MustUUID("b0000000-0000-0000-0000-000000000002")

		data, err := json.Marshal(struct {
			ShopID kernel.UUID `json:"shopId"`
		}{ShopID: id})

		require.NoError(t, err)
		assert.JSONEq(t, `{"shopId":"b0000000-0000-0000-0000-000000000002"}`, string(data))
	})

	t.Run("should decode and validate", func(t *testing.T) {
		var target struct {
			ShopID kernel.UUID `json:"shopId"`
		}

		require.NoError(t, json.Unmarshal([]byte(`{"shopId":"b0000000-0000-0000-0000-000000000002"}`), &target))
		assert.Equal(t, "b0000000-0000-0000-0000-000000000002", target.ShopID.String())

		err := json.Unmarshal([]byte(`{"shopId":"00000000-0000-0000-0000-000000000000"}`), &target)
		require.Error(t, err)
	})
}
