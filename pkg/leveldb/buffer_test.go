package leveldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		forceRaw bool
		want     ValueKind
	}{
		{name: "plain_text", in: []byte("hello"), want: Text},
		{name: "empty", in: []byte{}, want: Text},
		{name: "forced_raw", in: []byte("hello"), forceRaw: true, want: Raw},
		{name: "embedded_nul", in: []byte("a\x00b"), want: Raw},
		{name: "serialized_blob", in: []byte("X\n\x00\x00\x00\x03"), want: Raw},
		{name: "serialized_marker_without_nul", in: []byte("X\nplain"), want: Text},
		{name: "short_marker", in: []byte("B\n"), want: Text},
		{name: "invalid_utf8", in: []byte{0xff, 0xfe}, want: Raw},
		{name: "utf8_text", in: []byte("grüße"), want: Text},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := fromBytes(tc.in, tc.forceRaw)
			assert.Equal(t, tc.want, v.Kind())
			assert.Equal(t, tc.in, v.Bytes())
		})
	}
}

func TestToBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    []byte
		wantErr bool
	}{
		{name: "string", in: "k", want: []byte("k")},
		{name: "bytes", in: []byte{0, 1}, want: []byte{0, 1}},
		{name: "nil_bytes", in: []byte(nil), want: []byte{}},
		{name: "text_value", in: TextValue("v"), want: []byte("v")},
		{name: "raw_value", in: RawValue([]byte{9}), want: []byte{9}},
		{name: "absent_value", in: Value{}, wantErr: true},
		{name: "int", in: 42, wantErr: true},
		{name: "nil", in: nil, wantErr: true},
		{name: "string_slice", in: []string{"a"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := toBytes("key", tc.in)
			if tc.wantErr {
				var argErr *ArgumentTypeError
				require.ErrorAs(t, err, &argErr)
				assert.Equal(t, "key", argErr.Arg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValueAccessors(t *testing.T) {
	var absent Value
	assert.True(t, absent.IsAbsent())
	assert.Nil(t, absent.Interface())
	assert.Nil(t, absent.Bytes())
	assert.Equal(t, "", absent.String())
	assert.Equal(t, "absent", absent.Kind().String())

	text := TextValue("abc")
	assert.Equal(t, "abc", text.Interface())
	assert.Equal(t, "text", text.Kind().String())

	raw := RawValue([]byte{1, 2})
	assert.Equal(t, []byte{1, 2}, raw.Interface())
	assert.Equal(t, "raw", raw.Kind().String())
}
