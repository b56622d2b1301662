package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune at the cursor; size is 0 at the end.
func (lx *Lexer) peekRune() (r rune, size int) {
	if b := lx.cursor.Peek(); b < utf8.RuneSelf && !lx.cursor.EOF() {
		return rune(b), 1
	}
	rest := lx.cursor.Rest()
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(rest)
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// Identifiers follow PEP 3131 loosely: letters, letter numbers and '_'
// start a name; digits, combining marks and connector punctuation continue it.

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentStartByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r)
}

func isIdentContinueRune(r rune) bool {
	if r < utf8.RuneSelf {
		return isIdentContinueByte(byte(r))
	}
	return isIdentStartRune(r) || unicode.In(r, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc) ||
		unicode.Is(unicode.Other_ID_Continue, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// ".5": точка, за ней цифра
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}

// tryOp consumes op if the input continues with it. Operators are matched
// greedily by the caller, longest first.
func (lx *Lexer) tryOp(op string) bool {
	for i := range len(op) {
		if lx.cursor.PeekAt(uint32(i)) != op[i] {
			return false
		}
	}
	lx.cursor.Off += uint32(len(op))
	return true
}

// describeRune renders r for a message. Invisible characters are shown by
// code point because the learner cannot see them in the editor.
func describeRune(r rune) string {
	if unicode.IsGraphic(r) && !unicode.Is(unicode.Zs, r) {
		return string(r)
	}
	return fmt.Sprintf("U+%04X", r)
}
