package tokenize

import (
	"math"

	"tlog.app/go/errors"
)

var ErrNumberFormat = errors.New("bad number format")

// Number parses the longest integer prefix of s.
// Base is taken from the prefix: 0x, 0b, 0o or a leading 0 for octal.
// Out of range values saturate.
// Zero parsed from anything but "0" is a format error.
func Number(s string) (v int64, err error) {
	i := Blank.Skip(s, 0)

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	base := int64(10)

	if i < len(s) && s[i] == '0' {
		base = 8

		if i+2 < len(s) {
			switch s[i+1] {
			case 'x', 'X':
				if digit(s[i+2]) < 16 {
					base = 16
					i += 2
				}
			case 'b', 'B':
				if digit(s[i+2]) < 2 {
					base = 2
					i += 2
				}
			case 'o', 'O':
				if digit(s[i+2]) < 8 {
					i += 2
				}
			}
		}
	}

	var u uint64
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	for ; i < len(s); i++ {
		d := digit(s[i])
		if d >= base {
			break
		}

		if u > (limit-uint64(d))/uint64(base) {
			u = limit
			continue
		}

		u = u*uint64(base) + uint64(d)
	}

	if neg {
		v = -int64(u-1) - 1
	} else {
		v = int64(u)
	}

	if v == 0 && s != "0" {
		return 0, errors.Wrap(ErrNumberFormat, "%q", s)
	}

	return v, nil
}

func digit(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'a' && c <= 'z':
		return int64(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int64(c-'A') + 10
	default:
		return 99
	}
}
