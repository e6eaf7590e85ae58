package pkg

func fn1(x int32, k int) {
	n := 32 + k&1
	println(x << n) // want `shift amount is always at least 32, the width of int32`
	println(x >> n) // want `at least 32`
	println(x << (k & 31))
	println(x << k)
}

func fn2(x uint8, k uint) {
	println(x >> (8 | k)) // want `at least 8, the width of uint8`
	println(x >> (k & 7))
	println(uint64(x) << (8 | k))
}

func fn3(x int16) {
	var n uint = 16
	println(x << n) // want `at least 16`
	n = 15
	println(x << n)
}

func fn4(x int8, k int) {
	// Negative amounts panic instead.
	n := -k&7 - 8
	println(x << n)
}
