package jira

// Document is a node of the Atlassian Document Format.
type Document struct {
	Type    string                 `json:"type"`
	Version int                    `json:"version,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Marks   []Document             `json:"marks,omitempty"`
	Content []Document             `json:"content,omitempty"`
}

func Doc(content ...Document) Document {
	return Document{Type: "doc", Version: 1, Content: content}
}

func Paragraph(content ...Document) Document {
	return Document{Type: "paragraph", Content: content}
}

func Text(s string) Document {
	return Document{Type: "text", Text: s}
}

func Strong(s string) Document {
	return Document{Type: "text", Text: s, Marks: []Document{{Type: "strong"}}}
}

func Rule() Document {
	return Document{Type: "rule"}
}

func Heading(level int, s string) Document {
	return Document{Type: "heading", Attrs: map[string]interface{}{"level": level}, Content: []Document{Text(s)}}
}

func BulletList(items ...Document) Document {
	return Document{Type: "bulletList", Content: items}
}

// LabeledItem renders "label: value" as a list item with a bold label.
func LabeledItem(label, value string) Document {
	return Document{Type: "listItem", Content: []Document{Paragraph(Strong(label+": "), Text(value))}}
}
