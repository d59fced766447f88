package parser

import "strings"

// Mnemonic is the closed set of commands.
type Mnemonic uint8

const (
	MnInvalid Mnemonic = iota
	MnLet
	MnCmp
	MnIf
	MnLbl
	MnGo
	MnRange
	MnRangeEnd
	MnSub
	MnSubEnd
	MnRet
	MnGos
	MnInc
	MnDec
	MnIn
	MnNin
	MnIs
	MnNis
	MnVec
	MnRow
	MnIgl
	MnMap
	MnMad
	MnMal
	MnPar
	MnPnt
	MnInp
	MnImp
	MnTin
	MnTfl
	MnTst
	MnVap
	MnVop
	MnVem
	MnVer
	MnLen
	mnCount
)

// spellings lists the canonical name first, aliases after.
var spellings = [mnCount][]string{
	MnLet:      {"LET"},
	MnCmp:      {"CMP", "COMPARE"},
	MnIf:       {"IF"},
	MnLbl:      {"LBL", "LABEL"},
	MnGo:       {"GO", "GOTO"},
	MnRange:    {"RANGE", "RNG"},
	MnRangeEnd: {"RANGEEND", "RNE"},
	MnSub:      {"SUB"},
	MnSubEnd:   {"SUBEND", "SBE"},
	MnRet:      {"RET", "RETURN"},
	MnGos:      {"GOS", "GOSUB", "CALL"},
	MnInc:      {"INC"},
	MnDec:      {"DEC"},
	MnIn:       {"IN"},
	MnNin:      {"NIN"},
	MnIs:       {"IS"},
	MnNis:      {"NIS"},
	MnVec:      {"VEC"},
	MnRow:      {"ROW"},
	MnIgl:      {"IGL"},
	MnMap:      {"MAP"},
	MnMad:      {"MAD"},
	MnMal:      {"MAL"},
	MnPar:      {"PAR"},
	MnPnt:      {"PNT", "PRINT"},
	MnInp:      {"INP", "INPUT"},
	MnImp:      {"IMP", "IMPORT"},
	MnTin:      {"TIN"},
	MnTfl:      {"TFL"},
	MnTst:      {"TST"},
	MnVap:      {"VAP"},
	MnVop:      {"VOP"},
	MnVem:      {"VEM"},
	MnVer:      {"VER"},
	MnLen:      {"LEN"},
}

var byName map[string]Mnemonic

func init() {
	byName = make(map[string]Mnemonic, 2*int(mnCount))
	for mn, names := range spellings {
		for _, n := range names {
			byName[n] = Mnemonic(mn)
		}
	}
}

// LookupMnemonic resolves a command word case-insensitively.
func LookupMnemonic(word string) (Mnemonic, bool) {
	mn, ok := byName[strings.ToUpper(word)]
	return mn, ok
}

func (m Mnemonic) String() string {
	if m > MnInvalid && m < mnCount {
		return spellings[m][0]
	}
	return "INVALID"
}

// Aliases returns every accepted spelling, canonical first.
func (m Mnemonic) Aliases() []string {
	if m > MnInvalid && m < mnCount {
		return spellings[m]
	}
	return nil
}

// Mnemonics returns all commands in declaration order.
func Mnemonics() []Mnemonic {
	out := make([]Mnemonic, 0, mnCount-1)
	for m := MnLet; m < mnCount; m++ {
		out = append(out, m)
	}
	return out
}
