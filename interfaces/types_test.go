package interfaces

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "checksummed with prefix", input: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{name: "lowercase without prefix", input: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{name: "uppercase prefix", input: "0X5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"},
		{name: "too short", input: "0x5aaeb6053f", wantErr: true},
		{name: "not hex", input: "0xzzzeb6053f3e94c9b9a09f33669435e7ef1beaed", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewIdentityFromHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", id.String())
		})
	}
}

func TestCertificateJSON(t *testing.T) {
	owner, err := NewIdentityFromHex("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	data, err := json.Marshal(Certificate{Owner: owner, MetadataHash: "QmHash", IsValid: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed","metadata_hash":"QmHash","is_valid":true}`, string(data))

	var decoded Certificate
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed","metadata_hash":"QmHash","is_valid":false}`), &decoded))
	assert.Equal(t, owner, decoded.Owner)
	assert.False(t, decoded.IsValid)

	assert.Error(t, json.Unmarshal([]byte(`{"owner":"nope"}`), &decoded))
}

func TestParseContentType(t *testing.T) {
	ct, err := ParseContentType("")
	require.NoError(t, err)
	assert.Equal(t, MetadataType, ct)

	ct, err = ParseContentType("media")
	require.NoError(t, err)
	assert.Equal(t, "media", ct.String())

	_, err = ParseContentType("secret")
	assert.Error(t, err)
}
