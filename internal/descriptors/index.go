package descriptors

import (
	"strconv"
	"strings"

	"github.com/dball/descriptors/internal/sys"
	"golang.org/x/exp/slices"
)

// IndexDescriptor describes a named, optionally unique index over an ordered
// list of columns. Name uniqueness within a table is up to the loader.
type IndexDescriptor struct {
	name    string
	unique  bool
	columns []string
}

var _ XMLSerializable = (*IndexDescriptor)(nil)

func NewIndexDescriptor(name string, unique bool, columns ...string) *IndexDescriptor {
	return &IndexDescriptor{name: name, unique: unique, columns: slices.Clone(columns)}
}

func (idx *IndexDescriptor) Name() string {
	return idx.name
}

func (idx *IndexDescriptor) SetName(name string) {
	idx.name = name
}

func (idx *IndexDescriptor) IsUnique() bool {
	return idx.unique
}

func (idx *IndexDescriptor) SetUnique(unique bool) {
	idx.unique = unique
}

// Columns returns a copy of the column names in index order.
func (idx *IndexDescriptor) Columns() []string {
	return slices.Clone(idx.columns)
}

// SetColumns replaces the column names, keeping their order and any duplicates.
func (idx *IndexDescriptor) SetColumns(columns []string) {
	idx.columns = slices.Clone(columns)
}

// AddColumn appends a column name.
func (idx *IndexDescriptor) AddColumn(column string) {
	idx.columns = append(idx.columns, column)
}

// ToXML renders the index as an index-descriptor element with one
// index-column element per column. The indentation and the trailing space
// after the closing tag are relied on by consumers of the output.
func (idx *IndexDescriptor) ToXML(tags *sys.Tags) string {
	eol := sys.LineSeparator
	var b strings.Builder
	b.WriteString("      ")
	b.WriteString(tags.OpeningTag(sys.IndexDescriptor))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.Name, idx.name))
	b.WriteString(" ")
	b.WriteString(tags.Attribute(sys.Unique, strconv.FormatBool(idx.unique)))
	b.WriteString(">")
	b.WriteString(eol)
	for _, column := range idx.columns {
		b.WriteString("                ")
		b.WriteString(tags.OpeningTag(sys.IndexColumn))
		b.WriteString(" ")
		b.WriteString(tags.Attribute(sys.Name, column))
		b.WriteString(" />")
		b.WriteString(eol)
	}
	b.WriteString("      ")
	b.WriteString(tags.ClosingTag(sys.IndexDescriptor))
	b.WriteString(" ")
	b.WriteString(eol)
	return b.String()
}
