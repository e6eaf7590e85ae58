package pkg

func fn(v int) {
	if v&1 == 2 {
		println()
	}
}
