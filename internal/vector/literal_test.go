package vector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToLiteral(t *testing.T) {
	got := ToLiteral([]float32{0.1, -0.2, 0.3})
	require.Equal(t, "[0.1,-0.2,0.3]", got)
}

func TestLiteralRoundTrip(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3}
	lit := ToLiteral(in)

	out, err := ParseLiteral(lit)
	require.NoError(t, err)
	require.Equal(t, in, out)

	// The literal is also valid JSON.
	var viaJSON []float32
	require.NoError(t, json.Unmarshal([]byte(lit), &viaJSON))
	require.Equal(t, in, viaJSON)
}

func TestParseLiteralRejectsMalformed(t *testing.T) {
	_, err := ParseLiteral("0.1,0.2")
	require.Error(t, err)
	_, err = ParseLiteral("[0.1,x]")
	require.Error(t, err)
}

func TestToLiteralEmpty(t *testing.T) {
	require.Equal(t, "[]", ToLiteral(nil))
	got, err := ParseLiteral("[]")
	require.NoError(t, err)
	require.Empty(t, got)
}
