package stamp

import (
	"errors"
	"math"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	var stamps []Stamp
	for _, s := range sampleStamps(8) {
		stamps = append(stamps, s)
	}
	for _, s := range sampleStamps(1) {
		stamps = append(stamps, s)
	}
	for _, s := range sampleFloatStamps(32) {
		stamps = append(stamps, s)
	}
	for _, s := range sampleFloatStamps(64) {
		stamps = append(stamps, s)
	}
	stamps = append(stamps,
		VoidStamp{},
		IllegalStamp{},
		ForInteger(64, math.MinInt64, 12),
		ForInteger(32, 1<<20, 1<<20+7),
		ForInteger(8, 1, 1).MeetInteger(ForInteger(8, 2, 2)),
		ForFloat(32, 1e10, float64(float32(3e38)), true),
	)
	for _, s := range stamps {
		got, err := Parse(s.String())
		if err != nil {
			t.Errorf("Parse(%q) failed: %s", s, err)
			continue
		}
		if !got.Equal(s) {
			t.Errorf("Parse(%q) = %v", s, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"i",
		"i7",
		"i8 [1",
		"i8 [300]",
		"i8 [5 - 3]",
		"i8 [1 - 3] ⇊0000000000000004",
		"i8 ⇈0000000000000100",
		"i8 [0] ⇊zz",
		"f16",
		"f64! [NaN]",
		"f64 [1.0 - NaN]",
		"void!",
		"i32<empty> ",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) = %v, want *ParseError", in, err)
		}
	}
}

func TestParseConstant(t *testing.T) {
	tt := []struct {
		in   string
		want Constant
	}{
		{"i32:-3", Int32(-3)},
		{"i8:0x7f", Int8(127)},
		{"i64:9223372036854775807", Int64(math.MaxInt64)},
		{"bool:true", Bool(true)},
		{"f64:1.5", Float64(1.5)},
		{"f32:-Inf", Float32(float32(math.Inf(-1)))},
		{"void", Void},
	}
	for _, tc := range tt {
		got, err := ParseConstant(tc.in)
		if err != nil {
			t.Errorf("ParseConstant(%q) failed: %s", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseConstant(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if again, err := ParseConstant(got.String()); err != nil || again != got {
			t.Errorf("ParseConstant(%q) = %v, %v", got.String(), again, err)
		}
	}

	for _, in := range []string{"i8:128", "q:1", "bool:maybe", "illegal:0", "f64", "void:1"} {
		if _, err := ParseConstant(in); err == nil {
			t.Errorf("ParseConstant(%q) succeeded", in)
		}
	}
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{
		"i32 [0 - 10] ⇈000000000000000f",
		"i8<empty>",
		"i64 [-5]  ⇊fffffffffffffffb",
		"f64! [1.0 - 2.0]",
		"f32 [NaN]",
		"void",
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		s, err := Parse(in)
		if err != nil {
			return
		}
		again, err := Parse(s.String())
		if err != nil {
			t.Fatalf("Parse(%q) = %v, but reparsing %q failed: %s", in, s, s.String(), err)
		}
		if !again.Equal(s) {
			t.Fatalf("Parse(%q) = %v, reparsed as %v", in, s, again)
		}
		if is, ok := s.(IntegerStamp); ok && is.HasValues() {
			if !is.Contains(is.LowerBound()) || !is.Contains(is.UpperBound()) {
				t.Fatalf("Parse(%q) = %v, bounds are not members", in, s)
			}
		}
	})
}
