// Package compiler translates LPD source into MEPA stack-machine code in a
// single pass, and records every declared identifier in a symbol table.
//
// Pipeline: LPD source → Lexer (TokenSource) → Parser, which checks types and
// drives the Emitter and SymbolTable as it goes → MEPA text + symbol dump
package compiler
