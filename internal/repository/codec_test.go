package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{"empty", []string{}},
		{"singleton", []string{"swift"}},
		{"multiple", []string{"server", "concurrency", "testing"}},
		{"unicode and quotes", []string{`говорит "привет"`, "emoji 🎤", `back\slash`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncodeList(tt.in)
			if assert.NotNil(t, enc) {
				assert.Equal(t, tt.in, DecodeList(enc))
			}
		})
	}
}

func TestEncodeList_nil(t *testing.T) {
	assert.Nil(t, EncodeList(nil))
}

func TestDecodeList_degraded(t *testing.T) {
	tests := []struct {
		name string
		in   *string
	}{
		{"null column", nil},
		{"empty string", ptr("")},
		{"malformed json", ptr(`["unterminated`)},
		{"wrong shape", ptr(`{"a":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{}, DecodeList(tt.in))
		})
	}
}

func TestMapRoundTrip(t *testing.T) {
	strs := map[string]string{"github": "adathornton", "mastodon": "@ada@hachyderm.io"}
	assert.Equal(t, strs, DecodeStringMap(EncodeMap(strs)))

	bools := map[string]bool{"wheelchairAccessible": true, "hearingLoop": false}
	assert.Equal(t, bools, DecodeBoolMap(EncodeMap(bools)))

	floats := map[string]float64{"lat": 51.5201, "lon": -0.0944}
	assert.Equal(t, floats, DecodeFloatMap(EncodeMap(floats)))
}

func TestDecodeMap_degraded(t *testing.T) {
	assert.Equal(t, map[string]string{}, DecodeStringMap(nil))
	assert.Equal(t, map[string]bool{}, DecodeBoolMap(ptr("not json")))
	assert.Equal(t, map[string]float64{}, DecodeFloatMap(ptr(`[]`)))
}
