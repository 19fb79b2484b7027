package strx

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Cut returns at most n bytes of s. Character LCDs are single-byte per cell,
// so byte length is column count.
func Cut(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Fit cuts s to n bytes and right-pads with spaces to exactly n.
func Fit(s string, n int) string {
	s = Cut(s, n)
	if len(s) == n {
		return s
	}
	b := make([]byte, n)
	copy(b, s)
	for i := len(s); i < n; i++ {
		b[i] = ' '
	}
	return string(b)
}
