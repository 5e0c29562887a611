package calc

import "fmt"

type parser struct {
	l   lexer
	cur token
	reg *Registry
}

// parse builds an expression tree from normalized text. Names resolve against reg at parse
// time, so a successful parse never carries an unresolved identifier.
func parse(reg *Registry, src string) (*Expr, error) {
	p := &parser{l: lexer{s: src}, reg: reg}
	p.next()
	if p.cur.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected()
	}
	return &Expr{src: src, root: root}, nil
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) unexpected() error {
	if p.cur.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at %d", ErrParse, p.cur.text, p.cur.pos)
}

func (p *parser) parseExpr() (node, error) {
	return p.parseSum()
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := opByte(p.cur.kind)
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash || p.cur.kind == tokPercent {
		op := opByte(p.cur.kind)
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := opByte(p.cur.kind)
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeUnary{op: op, x: x}, nil
	}
	return p.parsePower()
}

// parsePower is right associative, and its exponent may carry a sign: 2^-1 and 2^3^2.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return nodeBinary{op: '^', left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return nodeNumber{v: v}, nil
	case tokAns:
		return nil, fmt.Errorf("%w: %s must be substituted before parsing", ErrUnknownName, ansName)
	case tokIdent:
		name := p.cur.text
		p.next()
		e, ok := p.reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		if p.cur.kind != tokLParen {
			if e.Arity != 0 {
				return nil, fmt.Errorf("%w: %s is a function", ErrParse, name)
			}
			return nodeConst{entry: e}, nil
		}
		if e.Arity == 0 {
			return nil, fmt.Errorf("%w: %s is a constant", ErrParse, name)
		}
		p.next()
		var args []node
		if p.cur.kind != tokRParen {
			for {
				ex, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, ex)
				if p.cur.kind == tokComma {
					p.next()
					continue
				}
				break
			}
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' after %s arguments", ErrParse, name)
		}
		p.next()
		if len(args) != e.Arity {
			return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrArity, name, e.Arity, len(args))
		}
		return nodeCall{entry: e, args: args}, nil
	case tokLParen:
		p.next()
		ex, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')'", ErrParse)
		}
		p.next()
		return nodeGroup{x: ex}, nil
	default:
		return nil, p.unexpected()
	}
}

func opByte(k tokenKind) byte {
	switch k {
	case tokPlus:
		return '+'
	case tokMinus:
		return '-'
	case tokStar:
		return '*'
	case tokSlash:
		return '/'
	case tokPercent:
		return '%'
	case tokCaret:
		return '^'
	default:
		return 0
	}
}
