package parser

// This file generalizes the token-stream combinator library a classic
// recursive-descent parser builds (Optional/Many/Choice/Between/
// SeparatedList/Guard/TryParse) to a Cursor that has no token stream to
// peek into: every combinator here takes Recognizer/Rule closures that
// read straight from the Cursor and roll it back themselves on failure.

// Recognizer matches zero-width or more input starting at the cursor,
// consuming on success and leaving the cursor untouched on failure.
type Recognizer func(c *Cursor) bool

// Rule produces a value of type T from the cursor, or (zero, false) on
// failure. Rule implementations must not consume input on failure: every
// combinator below relies on that contract rather than re-marking before
// each attempt, so a Rule that partially consumes and then fails will
// corrupt sibling alternatives.
type Rule[T any] func(c *Cursor) (T, bool)

// Optional runs rule; on failure it returns the zero value and false
// without having moved the cursor (relying on Rule's no-partial-consume
// contract), so callers can inspect "found" without a Mark/Reset pair of
// their own.
func Optional[T any](c *Cursor, rule Rule[T]) (T, bool) {
	return rule(c)
}

// Many applies rule repeatedly until it fails, returning every produced
// value in order. Zero matches is success.
func Many[T any](c *Cursor, rule Rule[T]) []T {
	var out []T
	for {
		v, ok := rule(c)
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Many1 is Many but requires at least one match.
func Many1[T any](c *Cursor, rule Rule[T]) ([]T, bool) {
	out := Many(c, rule)
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// ManyUntil applies rule repeatedly until either rule fails or term
// recognizes the upcoming input (term is never consumed). Used to parse
// member lists, statement lists, and similar terminator-delimited runs
// without rule itself needing to know about the terminator.
func ManyUntil[T any](c *Cursor, term Recognizer, rule Rule[T]) []T {
	var out []T
	for {
		if c.AtEnd() {
			return out
		}
		if m := c.Mark(); term(c) {
			c.Reset(m)
			return out
		}
		v, ok := rule(c)
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Choice tries each rule in order and returns the first success. All
// rules must share a result type; use a small closure to adapt
// concrete-variant rules into a common return interface (Expression,
// Statement, Type, Pattern, ...).
func Choice[T any](c *Cursor, rules ...Rule[T]) (T, bool) {
	for _, r := range rules {
		if v, ok := r(c); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Sequence runs recognizers in order, rolling the whole sequence back if
// any one fails partway through.
func Sequence(c *Cursor, recognizers ...Recognizer) bool {
	m := c.Mark()
	for _, r := range recognizers {
		if !r(c) {
			c.Reset(m)
			return false
		}
	}
	return true
}

// Between parses `open content close`, failing (and rolling back to
// before open) if either delimiter or the content rule fails.
func Between[T any](c *Cursor, open, close Recognizer, rule Rule[T]) (T, bool) {
	m := c.Mark()
	var zero T
	SkipTrivia(c)
	if !open(c) {
		c.Reset(m)
		return zero, false
	}
	SkipTrivia(c)
	v, ok := rule(c)
	if !ok {
		c.Reset(m)
		return zero, false
	}
	SkipTrivia(c)
	if !close(c) {
		c.Reset(m)
		return zero, false
	}
	return v, true
}

// SeparatedListOptions configures SeparatedList.
type SeparatedListOptions struct {
	// Sep recognizes and consumes one separator occurrence.
	Sep Recognizer
	// Term recognizes (without consuming) the list's terminator. Used to
	// decide whether a trailing separator is legal and whether an empty
	// list is being looked at.
	Term Recognizer
	// AllowEmpty permits zero items when Term matches immediately.
	AllowEmpty bool
	// AllowTrailing permits a trailing Sep immediately before Term.
	AllowTrailing bool
}

// SeparatedList parses item (Sep item)* with the behavior configured by
// opts, returning every parsed item. A nil, false result distinguishes
// "parsed zero items illegally" from "parsed zero items because
// AllowEmpty".
func SeparatedList[T any](c *Cursor, opts SeparatedListOptions, item Rule[T]) ([]T, bool) {
	var out []T
	SkipTrivia(c)
	if opts.Term != nil {
		if m := c.Mark(); opts.Term(c) {
			c.Reset(m)
			return out, opts.AllowEmpty
		}
	}
	v, ok := item(c)
	if !ok {
		return out, opts.AllowEmpty
	}
	out = append(out, v)
	for {
		m := c.Mark()
		SkipTrivia(c)
		if !opts.Sep(c) {
			c.Reset(m)
			return out, true
		}
		SkipTrivia(c)
		if opts.AllowTrailing && opts.Term != nil {
			if tm := c.Mark(); opts.Term(c) {
				c.Reset(tm)
				return out, true
			}
		}
		v, ok := item(c)
		if !ok {
			c.Reset(m)
			return out, true
		}
		out = append(out, v)
	}
}

// Guard runs check as a zero-width lookahead (rolling the cursor back
// regardless of its result) and only invokes rule when check succeeds.
func Guard[T any](c *Cursor, check Recognizer, rule Rule[T]) (T, bool) {
	m := c.Mark()
	ok := check(c)
	c.Reset(m)
	if !ok {
		var zero T
		return zero, false
	}
	return rule(c)
}

// TryParse runs rule and rolls the cursor back to its pre-call position
// on failure, regardless of whether rule itself honored the
// no-partial-consume contract. Use this to wrap a Rule you don't fully
// trust yet (incremental grammar construction) or one of the
// inherently-speculative disambiguation attempts in expressions.go.
func TryParse[T any](c *Cursor, rule Rule[T]) (T, bool) {
	m := c.Mark()
	v, ok := rule(c)
	if !ok {
		c.Reset(m)
	}
	return v, ok
}

// SkipUntil advances the cursor rune by rune until term matches (without
// consuming term) or the input ends. Used by lenient-mode error recovery
// to resynchronize at a statement or member boundary.
func SkipUntil(c *Cursor, term Recognizer) {
	for !c.AtEnd() {
		if m := c.Mark(); term(c) {
			c.Reset(m)
			return
		}
		c.Advance()
	}
}

// SkipPast is SkipUntil followed by consuming the terminator itself.
func SkipPast(c *Cursor, term Recognizer) {
	SkipUntil(c, term)
	term(c)
}
