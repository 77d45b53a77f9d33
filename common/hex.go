package common

const hexAlphabet = "0123456789abcdef"

// DecodeHex decodes hexadecimal string s. Both letter cases are accepted.
// The second result is false if s has odd length or contains a non-hex
// character.
func DecodeHex(s string) ([]byte, bool) {
	if len(s)%2 != 0 {
		return nil, false
	}

	res := []byte{}
	for i := 0; i < len(s); i += 2 {
		hi := hexNibble(s[i])
		lo := hexNibble(s[i+1])
		if hi < 0 || lo < 0 {
			return nil, false
		}

		res = append(res, byte(hi<<4|lo))
	}

	return res, true
}

// EncodeHex returns lowercase hexadecimal representation of b.
func EncodeHex(b []byte) string {
	res := []byte{}
	for i := 0; i < len(b); i++ {
		res = append(res, hexAlphabet[b[i]>>4], hexAlphabet[b[i]&0x0f])
	}

	return string(res)
}

func hexNibble(c uint8) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}

	return -1
}
