package store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdate(t *testing.T) {
	t.Run("single attribute", func(t *testing.T) {
		expr, names, values, err := BuildUpdate(map[string]any{"status": "OCCUPIED"})
		require.NoError(t, err)

		assert.Equal(t, "SET #status = :status", expr)
		assert.Equal(t, map[string]string{"#status": "status"}, names)

		av, ok := values[":status"].(*types.AttributeValueMemberS)
		require.True(t, ok)
		assert.Equal(t, "OCCUPIED", av.Value)
	})

	t.Run("attributes are sorted", func(t *testing.T) {
		expr, _, _, err := BuildUpdate(map[string]any{
			"userId": "u-1",
			"status": "PENDING",
			"notes":  "",
		})
		require.NoError(t, err)
		assert.Equal(t, "SET #notes = :notes, #status = :status, #userId = :userId", expr)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		attrs := map[string]any{"b": 1, "a": 2, "c": 3}
		first, _, _, err := BuildUpdate(attrs)
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			expr, _, _, err := BuildUpdate(attrs)
			require.NoError(t, err)
			assert.Equal(t, first, expr)
		}
	})

	t.Run("non string values marshal", func(t *testing.T) {
		_, _, values, err := BuildUpdate(map[string]any{
			"currentParticipants": 3,
			"approved":            true,
		})
		require.NoError(t, err)

		n, ok := values[":currentParticipants"].(*types.AttributeValueMemberN)
		require.True(t, ok)
		assert.Equal(t, "3", n.Value)

		b, ok := values[":approved"].(*types.AttributeValueMemberBOOL)
		require.True(t, ok)
		assert.True(t, b.Value)
	})

	t.Run("nil values become removes", func(t *testing.T) {
		// Clearing an assignee must drop the indexed attributes; an empty
		// string in an index key attribute is rejected by the table.
		expr, names, values, err := BuildUpdate(map[string]any{
			"status":    "CANCELLED",
			"userId":    nil,
			"userEmail": nil,
		})
		require.NoError(t, err)

		assert.Equal(t, "SET #status = :status REMOVE #userEmail, #userId", expr)
		assert.Equal(t, map[string]string{
			"#status":    "status",
			"#userEmail": "userEmail",
			"#userId":    "userId",
		}, names)

		assert.NotContains(t, values, ":userId")
		assert.NotContains(t, values, ":userEmail")
		for _, av := range values {
			if s, ok := av.(*types.AttributeValueMemberS); ok {
				assert.NotEmpty(t, s.Value)
			}
		}
	})

	t.Run("all removes omit the values map", func(t *testing.T) {
		expr, _, values, err := BuildUpdate(map[string]any{
			"userId":    nil,
			"userEmail": nil,
		})
		require.NoError(t, err)

		assert.Equal(t, "REMOVE #userEmail, #userId", expr)
		assert.Nil(t, values)
	})

	t.Run("empty attrs", func(t *testing.T) {
		_, _, _, err := BuildUpdate(map[string]any{})
		assert.ErrorIs(t, err, ErrNoAttributes)
	})
}
