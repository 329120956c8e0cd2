package sanctions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollyoak/warden/internal/model"
)

func TestNormalizePUID(t *testing.T) {
	for name, tc := range map[string]struct {
		raw  model.PlayerID
		want string
		ok   bool
	}{
		"canonical lowercase hex": {
			raw:  "000102030405060708090a0b0c0d0e0f",
			want: "000102030405060708090a0b0c0d0e0f",
			ok:   true,
		},
		"uppercase is lowered": {
			raw:  "000102030405060708090A0B0C0D0E0F",
			want: "000102030405060708090a0b0c0d0e0f",
			ok:   true,
		},
		"separators are stripped": {
			raw:  "00010203-0405-0607-0809-0a0b0c0d0e0f",
			want: "000102030405060708090a0b0c0d0e0f",
			ok:   true,
		},
		"stray hex in prefix breaks the length": {
			raw: "puid:000102030405060708090a0b0c0d0e0f",
			ok:  false,
		},
		"too short": {
			raw: "0001020304",
			ok:  false,
		},
		"too long": {
			raw: "000102030405060708090a0b0c0d0e0f00",
			ok:  false,
		},
		"empty": {
			raw: "",
			ok:  false,
		},
		"garbage identity": {
			raw: "not-a-product-user-id-at-all-zzz",
			ok:  false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizePUID(tc.raw)
			if !tc.ok {
				assert.ErrorIs(t, err, model.ErrInvalidIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
