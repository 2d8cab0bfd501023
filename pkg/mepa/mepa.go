// Package mepa describes the MEPA stack-machine instruction set: the mnemonics
// the LPD compiler emits, the textual instruction format, and a reference
// machine that executes an assembled program.
package mepa

const (
	OpINPP = "INPP"
	OpAMEM = "AMEM"
	OpDMEM = "DMEM"
	OpPARA = "PARA"
	OpCRCT = "CRCT"
	OpCRVL = "CRVL"
	OpARMZ = "ARMZ"
	OpLEIT = "LEIT"
	OpIMPR = "IMPR"
	OpNADA = "NADA"
	OpDSVS = "DSVS"
	OpDSVF = "DSVF"
	OpSOMA = "SOMA"
	OpSUBT = "SUBT"
	OpMULT = "MULT"
	OpDIVI = "DIVI"
	OpINVR = "INVR"
	OpCONJ = "CONJ"
	OpDISJ = "DISJ"
	OpNEGA = "NEGA"
	OpCMME = "CMME"
	OpCMEG = "CMEG"
	OpCMIG = "CMIG"
	OpCMDG = "CMDG"
	OpCMMA = "CMMA"
	OpCMAG = "CMAG"
)

// EndMarker terminates every instruction stream.
const EndMarker = "FIM"

// Arity is the number of parameters each mnemonic takes.
var Arity = map[string]int{
	OpINPP: 0,
	OpAMEM: 1,
	OpDMEM: 1,
	OpPARA: 0,
	OpCRCT: 1,
	OpCRVL: 2,
	OpARMZ: 2,
	OpLEIT: 0,
	OpIMPR: 0,
	OpNADA: 0,
	OpDSVS: 1,
	OpDSVF: 1,
	OpSOMA: 0,
	OpSUBT: 0,
	OpMULT: 0,
	OpDIVI: 0,
	OpINVR: 0,
	OpCONJ: 0,
	OpDISJ: 0,
	OpNEGA: 0,
	OpCMME: 0,
	OpCMEG: 0,
	OpCMIG: 0,
	OpCMDG: 0,
	OpCMMA: 0,
	OpCMAG: 0,
}

// IsBranch reports whether the mnemonic takes a label as its only parameter.
func IsBranch(mnemonic string) bool {
	return mnemonic == OpDSVS || mnemonic == OpDSVF
}
