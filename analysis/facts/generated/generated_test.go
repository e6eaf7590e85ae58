package generated

import (
	"strings"
	"testing"
)

func TestIsGenerated(t *testing.T) {
	tt := []struct {
		src  string
		want bool
	}{
		{"// Code generated by stringer. DO NOT EDIT.\n\npackage p\n", true},
		{"// Code generated by stringer. DO NOT EDIT.\r\npackage p\r\n", true},
		{"package p\n\n// Code generated by hand. DO NOT EDIT.", true},
		{"// Code generated by stringer.\npackage p\n", false},
		{"package p\n// code generated. DO NOT EDIT.\n", false},
		{"", false},
	}
	for _, tc := range tt {
		if got := IsGenerated(strings.NewReader(tc.src)); got != tc.want {
			t.Errorf("IsGenerated(%q) = %t, want %t", tc.src, got, tc.want)
		}
	}
}
