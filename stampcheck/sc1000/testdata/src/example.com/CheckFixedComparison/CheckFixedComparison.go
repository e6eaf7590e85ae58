package pkg

func fn1(v int) {
	x := v & 0x0f
	if x == 0x10 { // want `x == 0x10 is always false`
		println()
	}
	if x < 16 { // want `x < 16 is always true`
		println()
	}
	if x > 3 {
		println()
	}
	if x != 0 {
		println()
	}
}

func fn2(v uint8) {
	if v >= 0 { // want `is always true`
		println()
	}
	if uint16(v) > 255 { // want `uint16\(v\) > 255 is always false`
		println()
	}
	if int8(v) > 0 {
		println()
	}
}

func fn3(v int32) {
	even := v << 1
	if even == 7 { // want `always false`
		println()
	}
	if v%4 > 3 { // want `v%4 > 3 is always false`
		println()
	}
}

func fn4(s []int, n int) {
	if len(s) < 0 { // want `len\(s\) < 0 is always false`
		println()
	}
	for i := 0; i < n; i++ {
		println(i)
	}
	// Loop counters are widened to all values.
	for i := range s {
		if i < 0 {
			println()
		}
	}
}

func five() int { return 5 }

func fn5() {
	if five() == 5 { // want `five\(\) == 5 is always true`
		println()
	}
}

func fn6(v int) {
	x := v & 1
	//lint:ignore SC1000 x is known to be a bit
	if x <= 1 {
		println()
	}
}
