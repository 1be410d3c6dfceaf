package descriptors

import "github.com/dball/descriptors/internal/sys"

// XMLSerializable is implemented by descriptors that render themselves in the
// descriptor XML vocabulary. Rendering is total for fully loaded descriptors:
// tag names come from the tag table, and lines end with sys.LineSeparator.
type XMLSerializable interface {
	ToXML(tags *sys.Tags) string
}
