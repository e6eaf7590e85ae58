package pkg

import stamps "example.com/Stamps"

func Six() int { return stamps.Five() + 1 } // want Six:`results\(i64 \[6\]`

func Mixed(x int) int { return stamps.Low(x) - 8 } // want Mixed:`results\(i64 \[-8 - -1\]`

func Opaque(x int) int { return stamps.Unknown(x) + 1 }
