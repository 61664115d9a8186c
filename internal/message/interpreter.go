package message

import "jodtang/internal/models"

// ParsedMessage is the full interpretation of an inbound message: the
// lexical classification plus, for transaction candidates, the resolved
// category and type. A candidate whose keyword resolves nothing is
// downgraded to unknown but keeps the extracted keyword/amount/note so the
// caller can reply with what it understood.
type ParsedMessage struct {
	Classification
	Resolution *Resolution
}

// IsTransaction reports whether the message resolved to a recordable
// transaction.
func (p *ParsedMessage) IsTransaction() bool {
	return p.Kind == KindCandidate && p.Resolution != nil
}

// IsIncome reports whether the resolved transaction is income.
func (p *ParsedMessage) IsIncome() bool {
	return p.IsTransaction() && p.Resolution.Type == models.TransactionTypeIncome
}

// Interpreter composes the classifier and the keyword resolver.
type Interpreter struct {
	resolver *Resolver
}

// NewInterpreter creates an Interpreter using the given resolver.
func NewInterpreter(resolver *Resolver) *Interpreter {
	return &Interpreter{resolver: resolver}
}

// Interpret classifies text and, for transaction candidates from a known
// user, resolves the keyword. Candidates from unknown senders and candidates
// with no matching shortcut or category come back as unknown with the
// candidate fields retained.
func (i *Interpreter) Interpret(text string, user *models.User) (*ParsedMessage, error) {
	c := Classify(text)

	if c.Kind != KindCandidate {
		return &ParsedMessage{Classification: c}, nil
	}

	if user == nil {
		c.Kind = KindUnknown
		return &ParsedMessage{Classification: c}, nil
	}

	res, err := i.resolver.Resolve(user.ID, c.Candidate.Keyword)
	if err != nil {
		return nil, err
	}
	if res == nil {
		c.Kind = KindUnknown
		return &ParsedMessage{Classification: c}, nil
	}

	return &ParsedMessage{Classification: c, Resolution: res}, nil
}
