package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsHexDigit(b byte) bool {
	return IsNumber(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func IsSign(b byte) bool {
	return b == '-' || b == '+'
}

// IsHexString reports whether s is a non-empty run of hex digits.
func IsHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsDecimalString reports whether s is a non-empty run of decimal digits, optionally signed.
func IsDecimalString(s string) bool {
	if len(s) > 0 && IsSign(s[0]) {
		s = s[1:]
	}
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsNumber(s[i]) {
			return false
		}
	}
	return true
}
