package combinator

// Assoc is the associativity of an infix level.
type Assoc int

const (
	Left Assoc = iota
	Right
)

type fixity int

const (
	prefix fixity = iota
	infix
	postfix
)

type level[O any] struct {
	fixity fixity
	assoc  Assoc
	ops    []Parser[O]
}

// Constructors builds expression nodes for the Pratt engine. A non-nil error
// aborts the parse with a fatal Construct error.
type Constructors[E, O any] struct {
	Prefix  func(op O, rhs E) (E, error)
	Infix   func(lhs E, op O, rhs E) (E, error)
	Postfix func(lhs E, op O) (E, error)
}

// Pratt is a precedence-climbing expression parser over atoms of type E and
// operators of type O. Levels are registered from the tightest binding to the
// loosest; operators registered in the same call share a level.
type Pratt[E, O any] struct {
	atom   Parser[E]
	cons   Constructors[E, O]
	levels []level[O]
}

// NewPratt returns an engine with no operator levels.
func NewPratt[E, O any](atom Parser[E], cons Constructors[E, O]) *Pratt[E, O] {
	return &Pratt[E, O]{atom: atom, cons: cons}
}

// WithPrefix appends a prefix level.
func (p *Pratt[E, O]) WithPrefix(ops ...Parser[O]) *Pratt[E, O] {
	p.levels = append(p.levels, level[O]{fixity: prefix, ops: ops})
	return p
}

// WithInfix appends an infix level.
func (p *Pratt[E, O]) WithInfix(assoc Assoc, ops ...Parser[O]) *Pratt[E, O] {
	p.levels = append(p.levels, level[O]{fixity: infix, assoc: assoc, ops: ops})
	return p
}

// WithPostfix appends a postfix level.
func (p *Pratt[E, O]) WithPostfix(ops ...Parser[O]) *Pratt[E, O] {
	p.levels = append(p.levels, level[O]{fixity: postfix, ops: ops})
	return p
}

// Parser returns the engine as a Parser accepting a whole expression.
func (p *Pratt[E, O]) Parser() Parser[E] {
	return func(in Input) (E, Input, *Error) {
		return p.parse(in, 0)
	}
}

// prec converts a level index into a binding power; the first level binds
// tightest.
func (p *Pratt[E, O]) prec(i int) int {
	return len(p.levels) - i
}

func (p *Pratt[E, O]) parse(in Input, minPrec int) (E, Input, *Error) {
	lhs, rest, err := p.operand(in)
	if err != nil {
		return lhs, in, err
	}
	for {
		next, after, matched, err := p.step(lhs, rest, minPrec)
		if err != nil {
			return lhs, in, err
		}
		if !matched {
			return lhs, rest, nil
		}
		lhs, rest = next, after
	}
}

// operand parses a prefix application or, failing that, an atom. The operand
// of a prefix operator is parsed at the prefix level's own precedence, so
// tighter levels bind inside it.
func (p *Pratt[E, O]) operand(in Input) (E, Input, *Error) {
	var zero E
	var errs []*Error
	for i, lv := range p.levels {
		if lv.fixity != prefix {
			continue
		}
		for _, opParser := range lv.ops {
			op, rest, err := opParser(in)
			if err != nil {
				if err.Fatal {
					return zero, in, err
				}
				errs = append(errs, err)
				continue
			}
			rhs, after, err := p.parse(rest, p.prec(i))
			if err != nil {
				return zero, in, err
			}
			node, cerr := p.cons.Prefix(op, rhs)
			if cerr != nil {
				return zero, in, constructError(in, cerr)
			}
			return node, after, nil
		}
	}
	v, rest, err := p.atom(in)
	if err != nil {
		if err.Fatal || len(errs) == 0 {
			return zero, in, err
		}
		errs = append(errs, err)
		return zero, in, &Error{Kind: AllFailed, Pos: in.Position(), Errors: errs}
	}
	return v, rest, nil
}

// step tries to extend lhs with one infix or postfix operator from a level at
// least as tight as minPrec.
func (p *Pratt[E, O]) step(lhs E, in Input, minPrec int) (E, Input, bool, *Error) {
	for i, lv := range p.levels {
		prec := p.prec(i)
		if prec < minPrec || lv.fixity == prefix {
			continue
		}
		for _, opParser := range lv.ops {
			op, rest, err := opParser(in)
			if err != nil {
				if err.Fatal {
					return lhs, in, false, err
				}
				continue
			}
			switch lv.fixity {
			case postfix:
				node, cerr := p.cons.Postfix(lhs, op)
				if cerr != nil {
					return lhs, in, false, constructError(in, cerr)
				}
				return node, rest, true, nil
			default:
				nextMin := prec + 1
				if lv.assoc == Right {
					nextMin = prec
				}
				rhs, after, err := p.parse(rest, nextMin)
				if err != nil {
					return lhs, in, false, err
				}
				node, cerr := p.cons.Infix(lhs, op, rhs)
				if cerr != nil {
					return lhs, in, false, constructError(in, cerr)
				}
				return node, after, true, nil
			}
		}
	}
	return lhs, in, false, nil
}

func constructError(in Input, cause error) *Error {
	return &Error{Kind: Construct, Pos: in.Position(), Cause: cause, Fatal: true}
}
