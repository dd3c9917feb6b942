package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"current": false})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "current"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"superseded_at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"current":       false,
		"kind":          "logo",
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "current", ue1.Names["#f0"])
	assert.Equal(t, "kind", ue1.Names["#f1"])
	assert.Equal(t, "superseded_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"current":       false,
		"superseded_at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	boolVal, isBool := ue.Values[":v0"].(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.False(t, boolVal.Value)

	ts, isStr := ue.Values[":v1"].(*types.AttributeValueMemberS)
	require.True(t, isStr)
	assert.Equal(t, "2024-01-02T03:04:05Z", ts.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestCompositeKey(t *testing.T) {
	k := compositeKey("account_id", "a1", "purpose", "mobile")
	require.Len(t, k, 2)
	assert.Equal(t, "a1", k["account_id"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "mobile", k["purpose"].(*types.AttributeValueMemberS).Value)
}
