// Package apidoc parses API documentation comments of application classes.
//
// An API comment is a block comment opened with two or more asterisks:
//
//	/**
//	 * Returns the customer's balance. Open items only.
//	 *
//	 * @param &asOf Date of the balance.
//	 * @return The balance in the customer's currency.
//	 */
//
// Text before the first line starting with '@' is free text, split into
// paragraphs at blank lines. Everything from that line on is a sequence of
// tags.
package apidoc

// Description is the parsed content of one API comment.
type Description struct {
	// Summary is the first sentence of the first paragraph.
	Summary string
	// Paragraphs holds the free text, one entry per paragraph, with the
	// lines of each paragraph joined by single spaces.
	Paragraphs []string
	// Version is the content of the last @version tag.
	Version string
	Authors []string
	// Params holds the raw content of every @param tag, parameter name
	// included.
	Params []string
	// Exceptions holds the raw content of @exception, @throw and @throws.
	Exceptions []string
	// Returns is the content of the last @return or @returns tag.
	Returns string
}

// IsEmpty reports whether the description carries no content at all.
// A nil description is empty.
func (d *Description) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.Summary == "" &&
		len(d.Paragraphs) == 0 &&
		d.Version == "" &&
		len(d.Authors) == 0 &&
		len(d.Params) == 0 &&
		len(d.Exceptions) == 0 &&
		d.Returns == ""
}

func (d *Description) String() string {
	if d == nil {
		return ""
	}
	return d.Summary
}
