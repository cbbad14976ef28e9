package keyboard

// US scancode set 1 layout, enough of it to cover letters, digits,
// punctuation, and the control keys spec.md §4.6 names (ENTER,
// BACKSPACE, TAB, ESC).
const (
	keyBackspace uint8 = 0x08
	keyTab       uint8 = 0x09
	keyEnter     uint8 = 0x0D
	keyEscape    uint8 = 0x1B
)

func installUSLayout(k *Keyboard) {
	unshiftedRow := [...]struct {
		code uint8
		ch   uint8
	}{
		{0x01, keyEscape},
		{0x02, '1'}, {0x03, '2'}, {0x04, '3'}, {0x05, '4'}, {0x06, '5'},
		{0x07, '6'}, {0x08, '7'}, {0x09, '8'}, {0x0A, '9'}, {0x0B, '0'},
		{0x0C, '-'}, {0x0D, '='}, {0x0E, keyBackspace}, {0x0F, keyTab},
		{0x10, 'q'}, {0x11, 'w'}, {0x12, 'e'}, {0x13, 'r'}, {0x14, 't'},
		{0x15, 'y'}, {0x16, 'u'}, {0x17, 'i'}, {0x18, 'o'}, {0x19, 'p'},
		{0x1A, '['}, {0x1B, ']'}, {0x1C, keyEnter},
		{0x1E, 'a'}, {0x1F, 's'}, {0x20, 'd'}, {0x21, 'f'}, {0x22, 'g'},
		{0x23, 'h'}, {0x24, 'j'}, {0x25, 'k'}, {0x26, 'l'}, {0x27, ';'},
		{0x28, '\''}, {0x29, '`'},
		{0x2B, '\\'}, {0x2C, 'z'}, {0x2D, 'x'}, {0x2E, 'c'}, {0x2F, 'v'},
		{0x30, 'b'}, {0x31, 'n'}, {0x32, 'm'}, {0x33, ','}, {0x34, '.'},
		{0x35, '/'}, {0x39, ' '},
	}

	shiftedRow := [...]struct {
		code uint8
		ch   uint8
	}{
		{0x02, '!'}, {0x03, '@'}, {0x04, '#'}, {0x05, '$'}, {0x06, '%'},
		{0x07, '^'}, {0x08, '&'}, {0x09, '*'}, {0x0A, '('}, {0x0B, ')'},
		{0x0C, '_'}, {0x0D, '+'},
		{0x1A, '{'}, {0x1B, '}'},
		{0x27, ':'}, {0x28, '"'}, {0x29, '~'},
		{0x2B, '|'}, {0x33, '<'}, {0x34, '>'}, {0x35, '?'},
	}

	for _, e := range unshiftedRow {
		k.unshifted[e.code] = e.ch
		k.shifted[e.code] = e.ch // default: unaffected by shift
	}
	for _, e := range unshiftedRow {
		if e.ch >= 'a' && e.ch <= 'z' {
			k.shifted[e.code] = e.ch - ('a' - 'A')
		}
	}
	for _, e := range shiftedRow {
		k.shifted[e.code] = e.ch
	}
}
