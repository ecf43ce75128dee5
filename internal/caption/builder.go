package caption

import (
	"fmt"

	"git.home.luguber.info/inful/mdcaption/internal/node"
)

// builder holds the element construction shared by all kinds. Matchers
// embed it and override the steps their kind does differently.
type builder struct {
	opts Options
}

func (b *builder) Name() string { return b.opts.Name }

func (b *builder) Options() Options { return b.opts }

func (b *builder) generatedID(number int) string {
	return fmt.Sprintf("_%s-%d", b.opts.Name, number)
}

// buildContent turns target into the content element. With replace the
// node is emptied and relabelled in place, keeping its attributes and its
// position; otherwise only classes and id are added.
func (b *builder) buildContent(target *node.Node, number int, replace bool) {
	if replace {
		attrs := target.Attrs()
		target.Clear(false)
		target.Tag = b.opts.ContentTag
		for k, v := range attrs {
			target.Set(k, v)
		}
		target.Text = "\n"
		target.Tail = "\n"
	}
	if class := node.UnionClasses(b.opts.ContentClass, target.Attr("class")); class != "" {
		target.Set("class", class)
	}
	if !target.Has("id") {
		target.Set("id", b.generatedID(number))
	}
}

func (b *builder) buildCaption(m *Match, number int) *node.Node {
	caption := node.New(b.opts.CaptionTag)
	if b.opts.CaptionClass != "" {
		caption.Set("class", b.opts.CaptionClass)
	}
	if b.opts.Numbering {
		prefix := node.New(b.opts.PrefixTag)
		if b.opts.CaptionPrefixClass != "" {
			prefix.Set("class", b.opts.CaptionPrefixClass)
		}
		label := fmt.Sprintf("%s&nbsp;%d", b.opts.CaptionPrefix, number)
		if m.Empty() {
			prefix.Text = label
		} else {
			prefix.Text = label + ":"
			prefix.Tail = " " + m.Title
		}
		caption.Append(prefix)
	} else {
		caption.Text = m.Title
	}
	caption.Append(m.Inline...)
	caption.Tail = "\n"
	return caption
}

func (b *builder) addCaption(content, caption *node.Node) {
	if b.opts.CaptionTop {
		content.Insert(0, caption)
		return
	}
	content.Append(caption)
}
