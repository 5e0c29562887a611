package calc

import (
	"fmt"
	"strconv"
)

func nodeString(n node) string {
	return nodeStringPrec(n, 0)
}

func nodeStringPrec(n node, parentPrec int) string {
	switch nn := n.(type) {
	case nodeNumber:
		return strconv.FormatFloat(nn.v, 'g', -1, 64)
	case nodeConst:
		return nn.entry.Name
	case nodeGroup:
		return "(" + nodeStringPrec(nn.x, 0) + ")"
	case nodeUnary:
		prec := 3
		s := string(nn.op) + nodeStringPrec(nn.x, prec)
		if prec < parentPrec {
			return "(" + s + ")"
		}
		return s
	case nodeBinary:
		prec := binPrec(nn.op)
		leftPrec, rightPrec := prec, prec+1
		if nn.op == '^' {
			leftPrec, rightPrec = prec+1, prec-1
		}
		s := fmt.Sprintf("%s %c %s", nodeStringPrec(nn.left, leftPrec), nn.op, nodeStringPrec(nn.right, rightPrec))
		if prec < parentPrec {
			return "(" + s + ")"
		}
		return s
	case nodeCall:
		out := nn.entry.Name + "("
		for i, a := range nn.args {
			if i > 0 {
				out += ", "
			}
			out += nodeStringPrec(a, 0)
		}
		return out + ")"
	default:
		return "<?>"
	}
}

func binPrec(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/', '%':
		return 2
	case '^':
		return 4
	default:
		return 0
	}
}
