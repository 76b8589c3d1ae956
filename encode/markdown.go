package encode

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
)

// PropertyMarker is the key that makes a mapping a property definition
// rather than a namespace.
const PropertyMarker = "x-optimade-property"

const (
	notSpecified   = "Not specified"
	requirementSep = "**Requirements/Conventions:**"
)

var supportDescs = map[string]string{
	"must":   "MUST be supported by all implementations, MUST NOT be :val:`null`.",
	"should": "SHOULD be supported by all implementations, i.e., SHOULD NOT be :val:`null`.",
	"may":    "OPTIONAL support in implementations, i.e., MAY be :val:`null`.",
}

var querySupportDescs = map[string]string{
	"all mandatory": "MUST be a queryable property with support for all mandatory filter features.",
	"equality only": "MUST be queryable using the OPTIMADE filter language equality and inequality operators. Other filter language features do not need to be available.",
	"partial":       "MUST be a queryable property.",
	"none":          "Support for queries on this property is OPTIONAL.",
}

// Markdown renders node as reference documentation. A mapping holding
// PropertyMarker is rendered as a definition; any other mapping is a
// namespace whose mapping children get a heading each, in key order.
func Markdown(w io.Writer, node *ir.Node) error {
	if !node.IsObject() {
		return fmt.Errorf("%w: cannot render a %s as markdown", stage.ErrFormat, node.Type)
	}
	buf := bytes.NewBuffer(nil)
	if err := markdown(buf, node, 0); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func markdown(buf *bytes.Buffer, node *ir.Node, level int) error {
	if node.Has(PropertyMarker) {
		return definition(buf, node)
	}
	keys := node.Keys()
	slices.Sort(keys)
	for _, k := range keys {
		v := node.Get(k)
		switch {
		case v.IsObject():
			heading(buf, k, level)
			if err := markdown(buf, v, level+1); err != nil {
				return fmt.Errorf("could not process item %s: %w", k, err)
			}
		case k == "$id":
			continue
		default:
			return fmt.Errorf("%w: could not process item %s: unexpected %s in a namespace",
				stage.ErrFormat, k, strings.ToLower(v.Type.String()))
		}
		buf.WriteString("\n")
	}
	return nil
}

func heading(buf *bytes.Buffer, title string, level int) {
	switch level {
	case 0:
		buf.WriteString(title + "\n" + strings.Repeat("-", utf8.RuneCountInString(title)) + "\n\n")
	case 1:
		buf.WriteString(title + "\n" + strings.Repeat("=", utf8.RuneCountInString(title)) + "\n\n")
	default:
		buf.WriteString(strings.Repeat("#", min(level+1, 6)) + " " + title + "\n")
	}
}

func definition(buf *bytes.Buffer, node *ir.Node) error {
	title, err := requiredText(node, "title")
	if err != nil {
		return err
	}
	desc, err := requiredText(node, "description")
	if err != nil {
		return err
	}
	typ, err := requiredText(node, "x-optimade-type")
	if err != nil {
		return err
	}
	short, details, _ := strings.Cut(desc, requirementSep)
	short, details = strings.TrimSpace(short), strings.TrimSpace(details)

	support, query := notSpecified, notSpecified
	if reqs := node.Get("x-optimade-requirements"); reqs.IsObject() {
		if v := reqs.Get("support"); v != nil {
			d, ok := supportDescs[v.Text()]
			if !ok {
				return fmt.Errorf("%w: %s: unknown support level %q", stage.ErrFormat, title, v.Text())
			}
			support = d
		}
		if v := reqs.Get("query-support"); v != nil {
			d, ok := querySupportDescs[v.Text()]
			if !ok {
				return fmt.Errorf("%w: %s: unknown query support %q", stage.ErrFormat, title, v.Text())
			}
			query = d
			if v.Text() == "partial" {
				if ops := reqs.Get("query-support-operators"); ops.IsArray() && len(ops.Values) != 0 {
					names := make([]string, len(ops.Values))
					for i, op := range ops.Values {
						names[i] = inlineText(op)
					}
					query += " The following filter language features MUST be supported: " + strings.Join(names, ", ")
				}
			}
		}
	}

	examples := node.Get("examples")
	if !examples.IsArray() {
		return fmt.Errorf("%w: %s: examples must be a list", stage.ErrFormat, title)
	}
	items := make([]string, len(examples.Values))
	for i, ex := range examples.Values {
		items[i] = "`" + inlineText(ex) + "`"
	}

	buf.WriteString("**Name**: " + title + "\n")
	buf.WriteString("**Description**: " + short + "\n")
	buf.WriteString("**Type**: " + typ + "\n")
	buf.WriteString("**Requirements/Conventions**:\n")
	buf.WriteString("- **Support**: " + support + "\n")
	buf.WriteString("- **Query**: " + query + "\n")
	buf.WriteString("- **Response**:\n")
	buf.WriteString(details + "\n")
	buf.WriteString("**Examples**:\n\n- " + strings.Join(items, "\n- ") + "\n")
	return nil
}

func requiredText(node *ir.Node, key string) (string, error) {
	v := node.Get(key)
	if v == nil {
		return "", fmt.Errorf("%w: property definition without %q", stage.ErrFormat, key)
	}
	return inlineText(v), nil
}

// inlineText renders strings as they are and anything else as compact
// JSON.
func inlineText(v *ir.Node) string {
	if v.Type == ir.StringType {
		return v.String
	}
	if v.Type.IsLeaf() {
		return v.Text()
	}
	return MustString(v, EncodeCompact(true))
}
