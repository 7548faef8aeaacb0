package evaluator

// node is an evaluable expression tree node
type node interface {
	eval() (float64, error)
}

type numberNode struct {
	value float64
}

func (n *numberNode) eval() (float64, error) {
	return n.value, nil
}

type unaryNode struct {
	op      TokenType
	operand node
}

func (n *unaryNode) eval() (float64, error) {
	v, err := n.operand.eval()
	if err != nil {
		return 0, err
	}
	if n.op == TokenMinus {
		return -v, nil
	}
	return v, nil
}

type binaryNode struct {
	op          TokenType
	left, right node
}

// eval follows IEEE 754: x/0 yields ±Inf or NaN, checked once on the final result.
func (n *binaryNode) eval() (float64, error) {
	l, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval()
	if err != nil {
		return 0, err
	}
	switch n.op {
	case TokenPlus:
		return l + r, nil
	case TokenMinus:
		return l - r, nil
	case TokenStar:
		return l * r, nil
	default:
		return l / r, nil
	}
}

type callNode struct {
	name string
	fn   function
	args []node
}

func (n *callNode) eval() (float64, error) {
	values := make([]float64, len(n.args))
	for i, arg := range n.args {
		v, err := arg.eval()
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	return n.fn.call(values)
}
