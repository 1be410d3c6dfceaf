package sys

import (
	. "github.com/dball/descriptors/internal/types"
)

// Tag is the symbolic identifier of an element or attribute name in the
// descriptor XML vocabulary.
type Tag int

const (
	ClassDescriptor Tag = iota + 1
	ClassName
	TableName
	FieldDescriptor
	Name
	Column
	JdbcTypeTag
	Access
	Unique
	IndexDescriptor
	IndexColumn
	lastTag
)

// TagIdents are the symbolic names of the tags, used to address them in configuration.
var TagIdents map[string]Tag = map[string]Tag{
	"CLASS_DESCRIPTOR": ClassDescriptor,
	"CLASS_NAME":       ClassName,
	"TABLE_NAME":       TableName,
	"FIELD_DESCRIPTOR": FieldDescriptor,
	"NAME":             Name,
	"COLUMN":           Column,
	"JDBC_TYPE":        JdbcTypeTag,
	"ACCESS":           Access,
	"UNIQUE":           Unique,
	"INDEX_DESCRIPTOR": IndexDescriptor,
	"INDEX_COLUMN":     IndexColumn,
}

// DefaultTagTable is the standard rendering of every tag.
var DefaultTagTable map[Tag]string = map[Tag]string{
	ClassDescriptor: "class-descriptor",
	ClassName:       "class",
	TableName:       "table",
	FieldDescriptor: "field-descriptor",
	Name:            "name",
	Column:          "column",
	JdbcTypeTag:     "jdbc-type",
	Access:          "access",
	Unique:          "unique",
	IndexDescriptor: "index-descriptor",
	IndexColumn:     "index-column",
}

func (tag Tag) String() string {
	for ident, t := range TagIdents {
		if t == tag {
			return ident
		}
	}
	return "UNKNOWN"
}

// Tags is a read-only table of tag renderings. Tags are safe for concurrent use.
type Tags struct {
	text map[Tag]string
}

// NewTags builds a tag table. Every tag must have a non-empty rendering, so
// lookups on the result never fail for a defined tag.
func NewTags(table map[Tag]string) (tags *Tags, err error) {
	text := make(map[Tag]string, len(table))
	for tag := Tag(1); tag < lastTag; tag++ {
		s, ok := table[tag]
		if !ok || s == "" {
			err = NewError("sys.missingTag", "tag", tag)
			return
		}
		text[tag] = s
	}
	tags = &Tags{text: text}
	return
}

// DefaultTags returns the standard tag table.
func DefaultTags() *Tags {
	tags, err := NewTags(DefaultTagTable)
	if err != nil {
		panic(err)
	}
	return tags
}

// WithOverrides returns a copy of the tags with the renderings named by
// symbolic ident replaced.
func (tags *Tags) WithOverrides(overrides map[string]string) (result *Tags, err error) {
	table := make(map[Tag]string, len(tags.text))
	for tag, s := range tags.text {
		table[tag] = s
	}
	for ident, s := range overrides {
		tag, ok := TagIdents[ident]
		if !ok {
			err = NewError("sys.unknownTagIdent", "ident", ident)
			return
		}
		table[tag] = s
	}
	return NewTags(table)
}

// TagFor returns the rendering of the tag. An undefined tag is a
// configuration defect and panics.
func (tags *Tags) TagFor(tag Tag) string {
	s, ok := tags.text[tag]
	if !ok {
		panic(NewError("sys.unknownTag", "tag", int(tag)))
	}
	return s
}

// Attribute renders an attribute assignment, e.g. name="value".
func (tags *Tags) Attribute(tag Tag, value string) string {
	return tags.TagFor(tag) + "=\"" + value + "\""
}

// OpeningTag renders the unclosed start of an element, e.g. <name.
func (tags *Tags) OpeningTag(tag Tag) string {
	return "<" + tags.TagFor(tag)
}

// ClosingTag renders the end of an element, e.g. </name>.
func (tags *Tags) ClosingTag(tag Tag) string {
	return "</" + tags.TagFor(tag) + ">"
}
