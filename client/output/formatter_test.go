package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)

	require.NoError(t, f.Print(struct {
		TokenID  uint64 `json:"tokenId"`
		TokenURI string `json:"tokenURI"`
		Locked   bool   `json:"locked"`
	}{TokenID: 7, TokenURI: "ipfs://bafy/metadata.json", Locked: true}))

	out := buf.String()
	assert.Contains(t, out, "tokenId:")
	assert.Contains(t, out, "7\n", "整数不应输出为浮点")
	assert.Contains(t, out, "ipfs://bafy/metadata.json")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("locked")), bytes.Index(buf.Bytes(), []byte("tokenId")), "键应按字母排序")
}

func TestFormatter_JSONAndScalars(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON, &buf).Print(map[string]int{"balance": 2}))
	assert.JSONEq(t, `{"balance":2}`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatText, &buf).Print("ipfs://x"))
	assert.Equal(t, "ipfs://x\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
