package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a logical line.
	Newline
	// Indent opens an indented block.
	Indent
	// Dedent closes an indented block.
	Dedent

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// ImagLit represents an imaginary literal (1j).
	ImagLit
	// StringLit represents any string or bytes literal, including f-strings.
	StringLit

	kwBegin
	KwFalse
	KwNone
	KwTrue
	KwAnd
	KwAs
	KwAssert
	KwAsync
	KwAwait
	KwBreak
	KwClass
	KwContinue
	KwDef
	KwDel
	KwElif
	KwElse
	KwExcept
	KwExec
	KwFinally
	KwFor
	KwFrom
	KwGlobal
	KwIf
	KwImport
	KwIn
	KwIs
	KwLambda
	KwNonlocal
	KwNot
	KwOr
	KwPass
	KwPrint
	KwRaise
	KwRepeat
	KwReturn
	KwTry
	KwWhile
	KwWith
	KwYield
	kwEnd

	Plus        // +
	Minus       // -
	Star        // *
	DoubleStar  // **
	Slash       // /
	DoubleSlash // //
	Percent     // %
	At          // @
	Shl         // <<
	Shr         // >>
	Amp         // &
	Pipe        // |
	Caret       // ^
	Tilde       // ~
	Lt          // <
	Gt          // >
	LtEq        // <=
	GtEq        // >=
	EqEq        // ==
	NotEq       // !=
	LtGt        // <> (Python 2)
	Backtick    // ` (Python 2 repr)

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Colon     // :
	Dot       // .
	Semicolon // ;
	Arrow     // ->
	Ellipsis  // ...
	Assign    // =
	ColonEq   // :=

	PlusAssign        // +=
	MinusAssign       // -=
	StarAssign        // *=
	SlashAssign       // /=
	DoubleSlashAssign // //=
	PercentAssign     // %=
	AtAssign          // @=
	AmpAssign         // &=
	PipeAssign        // |=
	CaretAssign       // ^=
	ShlAssign         // <<=
	ShrAssign         // >>=
	DoubleStarAssign  // **=
)

var kindNames = map[Kind]string{
	Invalid:   "invalid",
	EOF:       "EOF",
	Newline:   "NEWLINE",
	Indent:    "INDENT",
	Dedent:    "DEDENT",
	Ident:     "identifier",
	IntLit:    "integer",
	FloatLit:  "float",
	ImagLit:   "imaginary",
	StringLit: "string",

	Plus: "+", Minus: "-", Star: "*", DoubleStar: "**", Slash: "/", DoubleSlash: "//",
	Percent: "%", At: "@", Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^",
	Tilde: "~", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=", EqEq: "==", NotEq: "!=",
	LtGt: "<>", Backtick: "`",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Colon: ":", Dot: ".", Semicolon: ";", Arrow: "->", Ellipsis: "...",
	Assign: "=", ColonEq: ":=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	DoubleSlashAssign: "//=", PercentAssign: "%=", AtAssign: "@=", AmpAssign: "&=",
	PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	DoubleStarAssign: "**=",
}

func init() {
	for word, k := range keywords {
		kindNames[k] = word
	}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsKeyword reports whether k is a keyword kind.
func (k Kind) IsKeyword() bool {
	return k > kwBegin && k < kwEnd
}

// IsAugAssign reports whether k is an augmented assignment operator.
func (k Kind) IsAugAssign() bool {
	return k >= PlusAssign && k <= DoubleStarAssign
}

// IsOpenBracket reports whether k opens a bracket pair.
func (k Kind) IsOpenBracket() bool {
	return k == LParen || k == LBracket || k == LBrace
}

// IsCloseBracket reports whether k closes a bracket pair.
func (k Kind) IsCloseBracket() bool {
	return k == RParen || k == RBracket || k == RBrace
}

// Closing returns the bracket kind that closes k.
func (k Kind) Closing() Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	}
	return Invalid
}
