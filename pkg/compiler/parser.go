package compiler

import (
	"fmt"
	"log/slog"
	"strconv"

	"lpdc/pkg/mepa"
)

// Parser is a single-pass translator: a predictive recursive-descent parser
// with one token of lookahead that checks types and emits MEPA code as each
// rule completes. No syntax tree is built.
//
// Grammar:
//
//	program      = "prg" IDENTIFIER ";" [declarations] ["subrot"] block "." EOF
//	declarations = "var" (type IDENTIFIER ("," IDENTIFIER)* ";")+
//	type         = "int" | "float" | "bool" | "char"
//	block        = "begin" (statement ";")* "end"
//	statement    = assignment | read | write | if | while | repeat | for | return | block
//	assignment   = IDENTIFIER "<-" expression
//	read         = "read" "(" IDENTIFIER ")"
//	write        = "write" "(" expression ")"
//	if           = "if" expression "then" statement ["else" statement]
//	while        = "while" expression "do" statement
//	repeat       = "repeat" (statement ";")* "until" expression
//	for          = "for" "(" assignment ";" expression ";" assignment ")" statement
//	return       = "return" expression
//	expression   = simple [("<"|"<="|"="|"!="|">"|">=") simple]
//	simple       = ["+"|"-"] term (("+"|"-"|"ou") term)*
//	term         = factor (("*"|"/"|"e") factor)*
//	factor       = IDENTIFIER | INTEGER | REAL | "(" expression ")" | "nao" factor
//
// Expression rules return the synthesized Type of what they parsed. The first
// error stops the descent; nothing is emitted after it.
type Parser struct {
	src    TokenSource
	look   Token // lookahead
	syms   *SymbolTable
	em     *Emitter
	logger *slog.Logger

	variables int
}

func NewParser(src TokenSource, syms *SymbolTable, em *Emitter, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{
		src:    src,
		syms:   syms,
		em:     em,
		logger: logger,
	}
}

// advance replaces the lookahead with the next token from the source.
func (p *Parser) advance() error {
	tok, err := p.src.Next()
	if err != nil {
		return err
	}
	p.look = tok
	return nil
}

// expect consumes the lookahead if it matches tt, otherwise returns a syntax error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.look
	if tok.Type != tt {
		return tok, p.syntaxError(describeType(tt))
	}
	return tok, p.advance()
}

func (p *Parser) syntaxError(expected string) error {
	return &Error{
		Kind:     KindSyntax,
		Line:     p.look.Line,
		Expected: expected,
		Found:    describe(p.look),
	}
}

func (p *Parser) semanticError(line int, sentinel error, format string, args ...any) error {
	return &Error{
		Kind: KindSemantic,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
		Err:  sentinel,
	}
}

func (p *Parser) emit(label, mnemonic string, params ...string) {
	p.em.Emit(label, mnemonic, params...)
}

func (p *Parser) newLabel() string {
	l := p.em.NewLabel()
	p.logger.Debug("label", "name", l, "line", p.look.Line)
	return l
}

// resolve looks up an identifier that is loaded or stored. Only entries
// with storage qualify; the program name has none.
func (p *Parser) resolve(tok Token) (*Symbol, error) {
	sym, ok := p.syms.Lookup(tok.Lexeme)
	if !ok {
		return nil, p.semanticError(tok.Line, ErrUndeclaredIdentifier, "undeclared identifier %q", tok.Lexeme)
	}
	if sym.Address == NoAddress {
		return nil, p.semanticError(tok.Line, ErrNotVariable, "%q does not name a variable", tok.Lexeme)
	}
	return sym, nil
}

func address(sym *Symbol) string {
	return strconv.Itoa(sym.Address)
}

// Variables returns how many variables the program declared.
func (p *Parser) Variables() int {
	return p.variables
}

// ParseProgram primes the lookahead and translates a whole program.
func (p *Parser) ParseProgram() error {
	if err := p.advance(); err != nil {
		return err
	}
	return p.parseProgram()
}

func (p *Parser) parseProgram() error {
	if _, err := p.expect(PRG); err != nil {
		return err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	if _, err := p.syms.Insert(name.Lexeme, CategoryProgram, TypeVoid, NoAddress); err != nil {
		return p.semanticError(name.Line, ErrDuplicateIdentifier, "identifier %q already declared", name.Lexeme)
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	p.emit("", mepa.OpINPP)

	if p.look.Type == VAR {
		n, err := p.parseDeclarations()
		if err != nil {
			return err
		}
		p.variables = n
		if n > 0 {
			p.emit("", mepa.OpAMEM, strconv.Itoa(n))
		}
	}

	if p.look.Type == SUBROT {
		p.logger.Warn("subroutines are not translated, section ignored", "line", p.look.Line)
		if err := p.advance(); err != nil {
			return err
		}
	}

	if err := p.parseBlock(); err != nil {
		return err
	}
	if _, err := p.expect(DOT); err != nil {
		return err
	}
	if p.look.Type != EOF {
		return p.syntaxError(describeType(EOF))
	}

	if p.variables > 0 {
		p.emit("", mepa.OpDMEM, strconv.Itoa(p.variables))
	}
	p.emit("", mepa.OpPARA)
	return nil
}

// parseDeclarations parses the var section and returns how many variables
// it declared.
func (p *Parser) parseDeclarations() (int, error) {
	if _, err := p.expect(VAR); err != nil {
		return 0, err
	}

	total := 0
	for {
		typ, err := p.parseType()
		if err != nil {
			return 0, err
		}
		n, err := p.parseVarList(typ)
		if err != nil {
			return 0, err
		}
		total += n
		if _, err := p.expect(SEMICOLON); err != nil {
			return 0, err
		}
		if !isVarType(p.look.Type) {
			return total, nil
		}
	}
}

func isVarType(tt TokenType) bool {
	return tt == INT || tt == FLOAT || tt == BOOL || tt == CHAR
}

func (p *Parser) parseType() (Type, error) {
	if !isVarType(p.look.Type) {
		return TypeVoid, p.syntaxError("type")
	}
	typ, _ := typeOf(p.look.Type)
	return typ, p.advance()
}

// parseVarList declares IDENTIFIER ("," IDENTIFIER)* with type typ, each at
// the next free address.
func (p *Parser) parseVarList(typ Type) (int, error) {
	n := 0
	for {
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return 0, err
		}
		addr := p.syms.NextAddress()
		if _, err := p.syms.Insert(tok.Lexeme, CategoryVariable, typ, addr); err != nil {
			return 0, p.semanticError(tok.Line, ErrDuplicateIdentifier, "identifier %q already declared", tok.Lexeme)
		}
		p.logger.Debug("declare", "name", tok.Lexeme, "type", typ, "address", addr)
		n++

		if p.look.Type != COMMA {
			return n, nil
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
}

// parseBlock parses begin (statement ;)* end.
func (p *Parser) parseBlock() error {
	if _, err := p.expect(BEGIN); err != nil {
		return err
	}
	for p.look.Type != END {
		if err := p.parseStatement(); err != nil {
			return err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return err
		}
	}
	_, err := p.expect(END)
	return err
}

func (p *Parser) parseStatement() error {
	switch p.look.Type {
	case IDENTIFIER:
		return p.parseAssignment()
	case READ:
		return p.parseRead()
	case WRITE:
		return p.parseWrite()
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case REPEAT:
		return p.parseRepeat()
	case FOR:
		return p.parseFor()
	case RETURN:
		return p.parseReturn()
	case BEGIN:
		return p.parseBlock()
	}
	return p.syntaxError("statement")
}

// parseAssignment parses IDENTIFIER <- expression and stores the value.
func (p *Parser) parseAssignment() error {
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	sym, err := p.resolve(tok)
	if err != nil {
		return err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return err
	}
	typ, err := p.parseExpression()
	if err != nil {
		return err
	}
	if !Compatible(typ, sym.Type) {
		return p.semanticError(tok.Line, ErrIncompatibleTypes,
			"cannot assign %s to %q of type %s", typ, sym.Lexeme, sym.Type)
	}
	p.emit("", mepa.OpARMZ, "0", address(sym))
	return nil
}

// parseRead parses read ( IDENTIFIER ).
func (p *Parser) parseRead() error {
	if _, err := p.expect(READ); err != nil {
		return err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	sym, err := p.resolve(tok)
	if err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}
	p.emit("", mepa.OpLEIT)
	p.emit("", mepa.OpARMZ, "0", address(sym))
	return nil
}

// parseWrite parses write ( expression ).
func (p *Parser) parseWrite() error {
	if _, err := p.expect(WRITE); err != nil {
		return err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	if _, err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}
	p.emit("", mepa.OpIMPR)
	return nil
}

// parseIf parses if cond then stmt [else stmt].
//
//	    <cond>
//	    DSVF Lf
//	    <then>
//	    DSVS Le      (else only)
//	Lf: NADA
//	    <else>       (else only)
//	Le: NADA         (else only)
func (p *Parser) parseIf() error {
	if _, err := p.expect(IF); err != nil {
		return err
	}
	if _, err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(THEN); err != nil {
		return err
	}
	falseLabel := p.newLabel()
	p.emit("", mepa.OpDSVF, falseLabel)

	if err := p.parseStatement(); err != nil {
		return err
	}

	if p.look.Type != ELSE {
		p.emit(falseLabel, mepa.OpNADA)
		return nil
	}
	if err := p.advance(); err != nil {
		return err
	}
	endLabel := p.newLabel()
	p.emit("", mepa.OpDSVS, endLabel)
	p.emit(falseLabel, mepa.OpNADA)
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.emit(endLabel, mepa.OpNADA)
	return nil
}

// parseWhile parses while cond do stmt.
//
//	Ls: NADA
//	    <cond>
//	    DSVF Le
//	    <body>
//	    DSVS Ls
//	Le: NADA
func (p *Parser) parseWhile() error {
	if _, err := p.expect(WHILE); err != nil {
		return err
	}
	startLabel := p.newLabel()
	p.emit(startLabel, mepa.OpNADA)

	if _, err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(DO); err != nil {
		return err
	}
	endLabel := p.newLabel()
	p.emit("", mepa.OpDSVF, endLabel)

	if err := p.parseStatement(); err != nil {
		return err
	}
	p.emit("", mepa.OpDSVS, startLabel)
	p.emit(endLabel, mepa.OpNADA)
	return nil
}

// parseRepeat parses repeat (stmt ;)* until cond. The body runs again while
// cond is false.
//
//	Ls: NADA
//	    <body>
//	    <cond>
//	    DSVF Ls
func (p *Parser) parseRepeat() error {
	if _, err := p.expect(REPEAT); err != nil {
		return err
	}
	startLabel := p.newLabel()
	p.emit(startLabel, mepa.OpNADA)

	for p.look.Type != UNTIL {
		if err := p.parseStatement(); err != nil {
			return err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return err
		}
	}
	if err := p.advance(); err != nil {
		return err
	}
	if _, err := p.parseExpression(); err != nil {
		return err
	}
	p.emit("", mepa.OpDSVF, startLabel)
	return nil
}

// parseFor parses for ( init ; cond ; step ) stmt. The step is emitted
// before the body, so two jumps route control through it after each pass:
//
//	    <init>
//	Lc: NADA
//	    <cond>
//	    DSVF Le
//	    DSVS Lb
//	Li: NADA
//	    <step>
//	    DSVS Lc
//	Lb: NADA
//	    <body>
//	    DSVS Li
//	Le: NADA
func (p *Parser) parseFor() error {
	if _, err := p.expect(FOR); err != nil {
		return err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	if err := p.parseAssignment(); err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	condLabel := p.newLabel()
	p.emit(condLabel, mepa.OpNADA)
	if _, err := p.parseExpression(); err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	endLabel := p.newLabel()
	p.emit("", mepa.OpDSVF, endLabel)
	bodyLabel := p.newLabel()
	p.emit("", mepa.OpDSVS, bodyLabel)

	stepLabel := p.newLabel()
	p.emit(stepLabel, mepa.OpNADA)
	if err := p.parseAssignment(); err != nil {
		return err
	}
	p.emit("", mepa.OpDSVS, condLabel)
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}

	p.emit(bodyLabel, mepa.OpNADA)
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.emit("", mepa.OpDSVS, stepLabel)
	p.emit(endLabel, mepa.OpNADA)
	return nil
}

// parseReturn parses return expression. Subroutine linkage does not exist,
// so only the expression's code is emitted.
func (p *Parser) parseReturn() error {
	if _, err := p.expect(RETURN); err != nil {
		return err
	}
	_, err := p.parseExpression()
	return err
}

var relationalOps = map[TokenType]string{
	LESS:       mepa.OpCMME,
	LESS_EQ:    mepa.OpCMEG,
	EQUALS:     mepa.OpCMIG,
	NOT_EQ:     mepa.OpCMDG,
	GREATER:    mepa.OpCMMA,
	GREATER_EQ: mepa.OpCMAG,
}

var additiveOps = map[TokenType]string{
	PLUS:  mepa.OpSOMA,
	MINUS: mepa.OpSUBT,
	OR:    mepa.OpDISJ,
}

var multiplicativeOps = map[TokenType]string{
	STAR:  mepa.OpMULT,
	SLASH: mepa.OpDIVI,
	AND:   mepa.OpCONJ,
}

// parseExpression handles at most one relational operator.
func (p *Parser) parseExpression() (Type, error) {
	left, err := p.parseSimpleExpression()
	if err != nil {
		return TypeVoid, err
	}
	mnemonic, ok := relationalOps[p.look.Type]
	if !ok {
		return left, nil
	}
	op := p.look
	if err := p.advance(); err != nil {
		return TypeVoid, err
	}
	right, err := p.parseSimpleExpression()
	if err != nil {
		return TypeVoid, err
	}
	if !Compatible(left, right) {
		return TypeVoid, p.semanticError(op.Line, ErrIncompatibleTypes,
			"operator %q applied to %s and %s", op.Type, left, right)
	}
	p.emit("", mnemonic)
	return TypeBool, nil
}

// parseSimpleExpression handles an optional sign and + - ou.
func (p *Parser) parseSimpleExpression() (Type, error) {
	sign := p.look
	signed := sign.Type == PLUS || sign.Type == MINUS
	if signed {
		if err := p.advance(); err != nil {
			return TypeVoid, err
		}
	}

	typ, err := p.parseTerm()
	if err != nil {
		return TypeVoid, err
	}
	if signed && typ != TypeInt && typ != TypeFloat {
		return TypeVoid, p.semanticError(sign.Line, ErrIncompatibleTypes,
			"operator %q requires a numeric operand, got %s", sign.Type, typ)
	}
	if sign.Type == MINUS {
		p.emit("", mepa.OpINVR)
	}

	for {
		mnemonic, ok := additiveOps[p.look.Type]
		if !ok {
			return typ, nil
		}
		op := p.look
		if err := p.advance(); err != nil {
			return TypeVoid, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return TypeVoid, err
		}
		if typ, err = p.binaryResult(op, typ, right); err != nil {
			return TypeVoid, err
		}
		p.emit("", mnemonic)
	}
}

// parseTerm handles * / e.
func (p *Parser) parseTerm() (Type, error) {
	typ, err := p.parseFactor()
	if err != nil {
		return TypeVoid, err
	}
	for {
		mnemonic, ok := multiplicativeOps[p.look.Type]
		if !ok {
			return typ, nil
		}
		op := p.look
		if err := p.advance(); err != nil {
			return TypeVoid, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return TypeVoid, err
		}
		if typ, err = p.binaryResult(op, typ, right); err != nil {
			return TypeVoid, err
		}
		p.emit("", mnemonic)
	}
}

// binaryResult checks the operands of an additive or multiplicative operator
// and returns the result type. ou and e take bool operands only; arithmetic
// takes compatible operands and widens to float.
func (p *Parser) binaryResult(op Token, left, right Type) (Type, error) {
	if op.Type == OR || op.Type == AND {
		if left != TypeBool || right != TypeBool {
			return TypeVoid, p.semanticError(op.Line, ErrIncompatibleTypes,
				"operator %q requires bool operands, got %s and %s", op.Type, left, right)
		}
		return TypeBool, nil
	}
	if !Compatible(left, right) {
		return TypeVoid, p.semanticError(op.Line, ErrIncompatibleTypes,
			"operator %q applied to %s and %s", op.Type, left, right)
	}
	return arithmeticResult(left, right), nil
}

// parseFactor handles identifiers, literals, parentheses and nao.
func (p *Parser) parseFactor() (Type, error) {
	tok := p.look
	switch tok.Type {

	case IDENTIFIER:
		sym, err := p.resolve(tok)
		if err != nil {
			return TypeVoid, err
		}
		p.emit("", mepa.OpCRVL, "0", address(sym))
		return sym.Type, p.advance()

	case INTEGER:
		p.emit("", mepa.OpCRCT, tok.Lexeme)
		return TypeInt, p.advance()

	case REAL:
		p.emit("", mepa.OpCRCT, tok.Lexeme)
		return TypeFloat, p.advance()

	case LPAREN:
		if err := p.advance(); err != nil {
			return TypeVoid, err
		}
		typ, err := p.parseExpression()
		if err != nil {
			return TypeVoid, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return TypeVoid, err
		}
		return typ, nil

	case NOT:
		if err := p.advance(); err != nil {
			return TypeVoid, err
		}
		typ, err := p.parseFactor()
		if err != nil {
			return TypeVoid, err
		}
		if typ != TypeBool {
			return TypeVoid, p.semanticError(tok.Line, ErrIncompatibleTypes,
				"operator %q requires a bool operand, got %s", tok.Type, typ)
		}
		p.emit("", mepa.OpNEGA)
		return TypeBool, nil
	}
	return TypeVoid, p.syntaxError("expression")
}
