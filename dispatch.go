package tagview

import (
	"context"
	"fmt"

	"github.com/pthm/tagview/lib/markup"
	"github.com/pthm/tagview/lib/nodes"
)

// dispatch replaces every element claimed by a component with the node the
// factory returns for it. Elements are visited after their content, so
// nested components are replaced first and reach their parent as splice
// nodes.
//
// A namespaced element no component claims is an error: <ui:alert> is never
// meant to reach the browser.
func (c *Compiler) dispatch(ctx context.Context, root *markup.Fragment) error {
	reg := c.factory.Registry()
	var first error
	markup.Traverse(root, nil, func(n markup.Node) (markup.Node, markup.Control) {
		el, ok := n.(*markup.Element)
		if !ok || first != nil {
			return n, markup.Continue
		}
		rec, ok := reg.ResolveTag(el.Name)
		if !ok {
			if IsNamespaced(el.Tag()) {
				first = fmt.Errorf("%w: <%s>", ErrComponentNotFound, el.Name)
			}
			return n, markup.Continue
		}
		node, err := c.factory.ComponentNode(ctx, c, rec.Name, nodes.NewNodeCompiler(el))
		if err != nil {
			first = fmt.Errorf("<%s>: %w", el.Name, err)
			return n, markup.Continue
		}
		return node, markup.Continue
	})
	return first
}
