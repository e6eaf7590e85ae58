package pkg

func fn1(x, y int) {
	z := y & 0
	println(x / z) // want `division by zero`
	println(x % z) // want `division by zero`
	println(x / (y & 1))
	println(x / y)
}

func fn2(x int32, b bool) {
	var d int32
	if b {
		d = 0
	}
	println(x / d) // want `division by zero`
	if b {
		d = 2
	}
	println(x / d)
}

func zero() int64 { return 0 }

func fn3(x int64, f float64) {
	println(x / zero()) // want `division by zero`
	var g float64
	println(f / g)
}

func fn4(x uint8, y uint8) {
	println(x % (y >> 7 >> 1)) // want `division by zero`
}
