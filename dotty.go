package gtree

import (
	"cmp"
	"fmt"
	"io"
)

type nodeids[K cmp.Ordered] struct {
	idTable map[*node[K]]int
	max     int
}

func newtable[K cmp.Ordered]() nodeids[K] {
	return nodeids[K]{
		idTable: make(map[*node[K]]int),
		max:     1,
	}
}

func (ids *nodeids[K]) alloc(n *node[K]) int {
	if id, ok := ids.idTable[n]; ok {
		return id
	}
	ids.idTable[n] = ids.max
	ids.max++
	return ids.max - 1
}

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). Node labels carry key and rank. Write failures
// are reported through the tracer.
func Tree2Dot[K cmp.Ordered](t *Tree[K], w io.Writer) {
	var werr error
	write := func(s string) {
		if werr == nil {
			_, werr = io.WriteString(w, s)
		}
	}
	defer func() {
		if werr != nil {
			T().Errorf("tree DOT: %s", werr.Error())
		}
	}()
	write("strict digraph {\n")
	write("\tnode [fontname=Arial,fontsize=12];\n")
	if t == nil || t.root == nil {
		write("}\n")
		return
	}
	ids := newtable[K]()
	nodelist, edgelist := "", ""
	var walk func(n *node[K])
	walk = func(n *node[K]) {
		ID := ids.alloc(n)
		label := fmt.Sprintf("%v\\nr=%d", n.key, n.rank)
		nodelist += fmt.Sprintf("\"%d\" [label=\"%s\" shape=box];\n", ID, label)
		if n.left == nil {
			nilid := ID + 10000
			nodelist += fmt.Sprintf("\"%d\" %s;\n", nilid, emptyNode())
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, nilid)
		} else {
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(n.left))
			walk(n.left)
		}
		if n.right == nil {
			nilid := ID + 20000
			nodelist += fmt.Sprintf("\"%d\" %s;\n", nilid, emptyNode())
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, nilid)
		} else {
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(n.right))
			walk(n.right)
		}
	}
	walk(t.root)
	write(nodelist)
	write(edgelist)
	write("}\n")
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=circle,fixedsize=true,width=.2]"
}
