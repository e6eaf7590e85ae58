package pkg

func Five() int { return 5 } // want Five:`results\(i64 \[5\]`

func Low(x int) int { return x & 7 } // want Low:`results\(i64 \[0 - 7\]`

func Sign(x int8) int8 { // want Sign:`results\(i8 \[-1 - 0\]`
	return x >> 7
}

func Unknown(x int) int { return x }

func Pair(b bool) (int, string) { // want Pair:`results\(i64 \[1 - 2\].*, \?\)`
	if b {
		return 1, "one"
	}
	return 2, "two"
}

func Count(n int) int {
	i := 0
	for i < n {
		i++
	}
	return i
}

func IsSmall(x int) bool { return x&3 < 4 } // want IsSmall:`results\(i1 \[-1\]`

func Length(s []byte) int { return len(s) } // want Length:`results\(i64 \[0 - 9223372036854775807\]`

func Recursive(n int) int {
	if n == 0 {
		return 0
	}
	return Recursive(n - 1)
}
