package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want EditUserReq
	}{
		{
			name: "absent",
			body: `{}`,
			want: EditUserReq{},
		},
		{
			name: "value",
			body: `{"firstName": "Dav", "email": "da@gmail.com"}`,
			want: EditUserReq{
				Email:     Some("da@gmail.com"),
				FirstName: Some("Dav"),
			},
		},
		{
			name: "explicit null",
			body: `{"lastName": null}`,
			want: EditUserReq{
				LastName: Null[string](),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditUserReq{}
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalWrongType(t *testing.T) {
	got := EditBookmarkReq{}
	err := json.Unmarshal([]byte(`{"title": 5}`), &got)
	assert.Error(t, err)
}

func TestOptionalPtr(t *testing.T) {
	assert.Nil(t, Null[string]().Ptr())

	p := Some("x").Ptr()
	require.NotNil(t, p)
	assert.Equal(t, "x", *p)
}
