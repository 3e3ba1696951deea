// Package quickreject implements the fast path: a single pass over
// the command text that decides whether any enabled-pack keyword is
// present at all. No keyword present means no pack can possibly match,
// so the whole evaluation pipeline short-circuits to Allow.
//
// No suitable third-party multi-pattern search library is available
// (see DESIGN.md), so this is a small hand-rolled Aho-Corasick
// automaton over byte strings rather than a call to strings.Contains
// per keyword, which would make the quick-reject pass linear in the
// number of keywords instead of linear in the input.
package quickreject

// Filter is a compiled multi-literal matcher over a fixed keyword set.
type Filter struct {
	root *node
}

type node struct {
	children map[byte]*node
	terminal bool
	fail     *node
}

func newNode() *node {
	return &node{children: make(map[byte]*node)}
}

// Build compiles a Filter over keywords. Building is O(total keyword
// bytes) and happens once, at registry-construction time; it must not
// be repeated per invocation.
func Build(keywords []string) *Filter {
	root := newNode()
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		cur := root
		for i := 0; i < len(kw); i++ {
			b := kw[i]
			next, ok := cur.children[b]
			if !ok {
				next = newNode()
				cur.children[b] = next
			}
			cur = next
		}
		cur.terminal = true
	}
	buildFailLinks(root)
	return &Filter{root: root}
}

// buildFailLinks computes Aho-Corasick failure links via BFS so that a
// failed character at depth N resumes matching from the longest proper
// suffix of the current prefix that is itself a prefix in the trie.
func buildFailLinks(root *node) {
	root.fail = root
	queue := make([]*node, 0)
	for _, child := range root.children {
		child.fail = root
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for b, child := range cur.children {
			queue = append(queue, child)
			f := cur.fail
			for f != root {
				if next, ok := f.children[b]; ok {
					child.fail = next
					goto linked
				}
				f = f.fail
			}
			if next, ok := root.children[b]; ok && next != child {
				child.fail = next
			} else {
				child.fail = root
			}
		linked:
		}
	}
}

// AnyMatch reports whether any registered keyword occurs anywhere in
// text. It allocates nothing on the matching path and runs in a single
// pass over text regardless of how many keywords were registered.
func (f *Filter) AnyMatch(text string) bool {
	if f == nil || f.root == nil {
		return false
	}
	cur := f.root
	for i := 0; i < len(text); i++ {
		b := text[i]
		for cur != f.root {
			if _, ok := cur.children[b]; ok {
				break
			}
			cur = cur.fail
		}
		if next, ok := cur.children[b]; ok {
			cur = next
		} else {
			cur = f.root
		}
		if cur.terminal {
			return true
		}
	}
	return false
}
