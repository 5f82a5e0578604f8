package restructure

// appendGuarded appends stmt to built under guard, using the greedy
// outermost-to-innermost clause merge spec §4.5 step 3 describes: a guard
// with no clauses in common with the running sequence opens a fresh nested
// IfElse, but a clause that is reference-equal (or reference-equal after one
// negation) to the last statement's IfElse condition descends into that
// IfElse's Then (or Else) instead of nesting again. This is what turns a
// chain of reaching conditions that share a prefix into one set of nested
// ifs rather than one IfElse per node.
func appendGuarded(exprs *exprArenas, built []Statement, guard Expression, stmt Statement) []Statement {
	if guard == nil {
		return append(built, stmt)
	}
	return mergeClauses(built, andClauses(guard), stmt)
}

func mergeClauses(built []Statement, clauses []Expression, stmt Statement) []Statement {
	if len(clauses) == 0 {
		return append(built, stmt)
	}
	head, rest := clauses[0], clauses[1:]

	if len(built) > 0 {
		if ifElse, ok := built[len(built)-1].(*IfElse); ok {
			if IsReferenceEqual(ifElse.Cond, head) {
				ifElse.Then = appendIntoBranch(ifElse.Then, rest, stmt)
				return built
			}
			if isNegationOf(ifElse.Cond, head) {
				ifElse.Else = appendIntoBranch(ifElse.Else, rest, stmt)
				return built
			}
		}
	}

	inner := mergeClauses(nil, rest, stmt)
	return append(built, &IfElse{Cond: head, Then: asStatement(inner)})
}

// appendIntoBranch reopens an existing Then/Else branch as a statement list,
// merges the remaining clauses into it, and re-collapses the result.
func appendIntoBranch(branch Statement, rest []Expression, stmt Statement) Statement {
	var existing []Statement
	switch b := branch.(type) {
	case nil:
		existing = nil
	case *Sequence:
		existing = b.Stmts
	default:
		existing = []Statement{b}
	}
	return asStatement(mergeClauses(existing, rest, stmt))
}

func asStatement(stmts []Statement) Statement {
	switch len(stmts) {
	case 0:
		return &Sequence{}
	case 1:
		return stmts[0]
	default:
		return &Sequence{Stmts: stmts}
	}
}
