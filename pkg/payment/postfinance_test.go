package payment

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostfinanceSHA(t *testing.T) {
	t.Setenv("PF_SHA_IN_SECRET", "s3cret")

	got := PostfinanceSHA(42, 8000, "alias-abc", 7)

	// Parametreler alfabetik, her biri passphrase ile sonlandırılır
	plain := "ALIAS=alias-abcs3cretAMOUNT=8000s3cretORDERID=42s3cretUSERID=7s3cret"
	sum := sha1.Sum([]byte(plain))
	want := strings.ToUpper(hex.EncodeToString(sum[:]))

	assert.Equal(t, want, got)
	assert.Len(t, got, 40)
	assert.Equal(t, strings.ToUpper(got), got)
}

func TestPostfinanceSHASensitivity(t *testing.T) {
	t.Setenv("PF_SHA_IN_SECRET", "s3cret")

	base := PostfinanceSHA(42, 8000, "alias-abc", 7)
	require.NotEmpty(t, base)

	assert.NotEqual(t, base, PostfinanceSHA(42, 8001, "alias-abc", 7))
	assert.NotEqual(t, base, PostfinanceSHA(43, 8000, "alias-abc", 7))
	assert.NotEqual(t, base, PostfinanceSHA(42, 8000, "alias-xyz", 7))

	t.Setenv("PF_SHA_IN_SECRET", "other")
	assert.NotEqual(t, base, PostfinanceSHA(42, 8000, "alias-abc", 7))
}
