package builder

// === Link Attributes ===

// Href sets the href attribute
func (b *ElementBuilder) Href(href string) *ElementBuilder {
	b.props["href"] = href
	return b
}

// Target sets the target attribute
func (b *ElementBuilder) Target(target string) *ElementBuilder {
	b.props["target"] = target
	return b
}

// Rel sets the rel attribute
func (b *ElementBuilder) Rel(rel string) *ElementBuilder {
	b.props["rel"] = rel
	return b
}

// External marks a link as opening in a new tab without leaking the opener
func (b *ElementBuilder) External() *ElementBuilder {
	return b.Target("_blank").Rel("noopener noreferrer")
}

// Src sets the src attribute
func (b *ElementBuilder) Src(src string) *ElementBuilder {
	b.props["src"] = src
	return b
}

// === Document Attributes ===

// Lang sets the lang attribute
func (b *ElementBuilder) Lang(lang string) *ElementBuilder {
	b.props["lang"] = lang
	return b
}

// Charset sets the charset attribute
func (b *ElementBuilder) Charset(charset string) *ElementBuilder {
	b.props["charset"] = charset
	return b
}

// Name sets the name attribute
func (b *ElementBuilder) Name(name string) *ElementBuilder {
	b.props["name"] = name
	return b
}

// Content sets the content attribute (for meta elements)
func (b *ElementBuilder) Content(content string) *ElementBuilder {
	b.props["content"] = content
	return b
}

// DateTime sets the datetime attribute (for time elements)
func (b *ElementBuilder) DateTime(value string) *ElementBuilder {
	b.props["datetime"] = value
	return b
}

// AriaLabel sets the aria-label attribute
func (b *ElementBuilder) AriaLabel(label string) *ElementBuilder {
	b.props["aria-label"] = label
	return b
}

// === Data Attributes ===

// Data sets a data attribute
func (b *ElementBuilder) Data(key, value string) *ElementBuilder {
	b.props["data-"+key] = value
	return b
}

// === Custom Attributes ===

// Attr sets a custom attribute
func (b *ElementBuilder) Attr(key string, value any) *ElementBuilder {
	b.props[key] = value
	return b
}
