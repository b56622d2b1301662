package diag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Code is a compact diagnostic identifier. Values below warnBase render as
// "Ennn", values from warnBase on render as "Wnnn".
type Code uint16

const warnBase = 500

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические
	SynUnexpectedToken Code = 1 // E001

	// Лексические
	LexInvalidChar        Code = 2  // E002
	LexUnicodePunctuation Code = 3  // E003
	LexUnterminatedString Code = 4  // E004
	LexTabsSpacesMix      Code = 5  // E005
	LexBadDedent          Code = 6  // E006
	LexBadNumber          Code = 13 // E013
	LexPy2Number          Code = 32 // E032

	SynUnexpectedIndent   Code = 7  // E007
	SynExpectedIndent     Code = 8  // E008
	SynMissingColon       Code = 9  // E009
	SynUnclosedBracket    Code = 10 // E010
	SynUnmatchedBracket   Code = 11 // E011
	SynTooDeep            Code = 12 // E012
	SynPrintStatement     Code = 14 // E014
	SynExpectedExpr       Code = 15 // E015
	SynExpectedName       Code = 16 // E016
	SynBadParameters      Code = 19 // E019
	SynInvalidTarget      Code = 20 // E020
	SynExpectedToken      Code = 21 // E021
	SynOrphanClause       Code = 22 // E022
	SynTryWithoutHandler  Code = 23 // E023
	SynDuplicateArgument  Code = 24 // E024
	SynExecStatement      Code = 25 // E025
	SynEvalNotExpression  Code = 27 // E027
	SynMissingComma       Code = 28 // E028
	SynDefaultOrder       Code = 29 // E029
	SynAssignInCondition  Code = 30 // E030
	SynKeywordAsName      Code = 31 // E031
	SynBadPattern         Code = 34 // E034
	SynBadDecorator       Code = 36 // E036
	SynStarredNotAllowed  Code = 37 // E037

	// Семантические
	SemReturnOutsideFunction Code = 17 // E017
	SemLoopControlOutside    Code = 18 // E018
	SemYieldOutsideFunction  Code = 26 // E026
	SemDeadCode              Code = 33 // E033
	SemNonlocalAtModule      Code = 35 // E035
	SemAwaitOutsideAsync     Code = 38 // E038

	// Предупреждения
	LexPunctuationReplaced Code = warnBase + 1 // W001
	SemDivisionByZero      Code = warnBase + 2 // W002
	SemTrueDivisionInt     Code = warnBase + 3 // W003
	SemUnusedComparison    Code = warnBase + 4 // W004
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SynUnexpectedToken:       "Unexpected token",
	LexInvalidChar:           "Invalid character",
	LexUnicodePunctuation:    "Unicode punctuation",
	LexUnterminatedString:    "Unterminated string literal",
	LexTabsSpacesMix:         "Inconsistent tabs and spaces",
	LexBadDedent:             "Unindent does not match",
	LexBadNumber:             "Invalid number literal",
	LexPy2Number:             "Python 2 number literal",
	SynUnexpectedIndent:      "Unexpected indent",
	SynExpectedIndent:        "Expected indented block",
	SynMissingColon:          "Missing colon",
	SynUnclosedBracket:       "Unclosed bracket",
	SynUnmatchedBracket:      "Unmatched bracket",
	SynTooDeep:               "Nesting too deep",
	SynPrintStatement:        "Print statement",
	SynExpectedExpr:          "Expected expression",
	SynExpectedName:          "Expected name",
	SynBadParameters:         "Invalid parameter list",
	SynInvalidTarget:         "Invalid assignment target",
	SynExpectedToken:         "Expected token",
	SynOrphanClause:          "Clause without header",
	SynTryWithoutHandler:     "Try without handler",
	SynDuplicateArgument:     "Duplicate argument",
	SynExecStatement:         "Exec statement",
	SynEvalNotExpression:     "Not an expression",
	SynMissingComma:          "Missing comma",
	SynDefaultOrder:          "Default argument order",
	SynAssignInCondition:     "Assignment in condition",
	SynKeywordAsName:         "Keyword used as name",
	SynBadPattern:            "Invalid pattern",
	SynBadDecorator:          "Misplaced decorator",
	SynStarredNotAllowed:     "Starred expression not allowed",
	SemReturnOutsideFunction: "Return outside function",
	SemLoopControlOutside:    "Loop control outside loop",
	SemYieldOutsideFunction:  "Yield outside function",
	SemDeadCode:              "Unreachable code",
	SemNonlocalAtModule:      "Nonlocal at module level",
	SemAwaitOutsideAsync:     "Await outside async function",
	LexPunctuationReplaced:   "Punctuation replaced",
	SemDivisionByZero:        "Division by zero",
	SemTrueDivisionInt:       "True division in integer context",
	SemUnusedComparison:      "Unused comparison",
}

// ID returns the stable public identifier of the code.
func (c Code) ID() string {
	if c >= warnBase {
		return fmt.Sprintf("W%03d", int(c)-warnBase)
	}
	return fmt.Sprintf("E%03d", int(c))
}

// IsWarning reports whether the code is in the warning range.
func (c Code) IsWarning() bool {
	return c >= warnBase
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode converts "E001"/"w002" back into a Code.
func ParseCode(id string) (Code, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) < 2 {
		return UnknownCode, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 0 || n >= warnBase {
		return UnknownCode, false
	}
	var c Code
	switch id[0] {
	case 'E':
		c = Code(n)
	case 'W':
		c = Code(n + warnBase)
	default:
		return UnknownCode, false
	}
	if _, ok := codeDescription[c]; !ok {
		return UnknownCode, false
	}
	return c, true
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
