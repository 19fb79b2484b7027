package conv

// Itoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for int64. Negative numbers supported.
// No allocations; no fmt/strconv dependency.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	neg := n < 0
	var u uint64
	if neg {
		u = uint64(-n)
	} else {
		u = uint64(n)
	}
	if u == 0 {
		i--
		buf[i] = '0'
	} else {
		for u > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (u % 10))
			u /= 10
		}
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// Deci writes a tenths value as a one-decimal number (235 => "23.5",
// -5 => "-0.5") into buf and returns the used slice. buf should be >= 22.
func Deci(buf []byte, tenths int64) []byte {
	if len(buf) < 3 {
		return buf[:0]
	}
	neg := tenths < 0
	u := uint64(tenths)
	if neg {
		u = uint64(-tenths)
	}
	i := len(buf)
	i--
	buf[i] = byte('0' + u%10)
	i--
	buf[i] = '.'
	u /= 10
	if u == 0 {
		i--
		buf[i] = '0'
	}
	for u > 0 && i > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}
