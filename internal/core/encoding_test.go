package core

import (
	"bytes"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{
			name:  "plain ascii unchanged",
			input: []byte("a,b,c"),
			want:  []byte("a,b,c"),
		},
		{
			name:  "bom stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("x,y")...),
			want:  []byte("x,y"),
		},
		{
			name:  "valid utf-8 accents kept",
			input: []byte("N\xc3\xbamero Comparendo"),
			want:  []byte("Número Comparendo"),
		},
		{
			name:  "windows-1252 accents decoded",
			input: []byte("N\xfamero Comparendo"),
			want:  []byte("Número Comparendo"),
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeText(tt.input)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
