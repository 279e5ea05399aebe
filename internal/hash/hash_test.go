package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigestDeterministic(t *testing.T) {
	a := New()
	a.Write([]byte("channel Y"))
	a.WriteUint64(7)

	b := New()
	b.Write([]byte("channel Y"))
	b.WriteUint64(7)

	require.Equal(t, a.Sum64(), b.Sum64())
}

func TestDigestOrderSensitive(t *testing.T) {
	a := New()
	a.WriteUint64(1)
	a.WriteUint64(2)

	b := New()
	b.WriteUint64(2)
	b.WriteUint64(1)

	require.NotEqual(t, a.Sum64(), b.Sum64())
}
