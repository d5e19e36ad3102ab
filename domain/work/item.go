// Package work provides the domain types for a batch annotation run:
// the ordered work items read from a record source, the per-item
// annotation results, and the run that drives items to completion.
package work

// WorkItem is one record from the input source. It is immutable once
// read; the index is the item's stable identity and fixes its position
// in the final result ordering.
type WorkItem struct {
	index      int
	identifier string
	text       string
}

// NewWorkItem creates a new WorkItem.
func NewWorkItem(index int, identifier, text string) WorkItem {
	return WorkItem{
		index:      index,
		identifier: identifier,
		text:       text,
	}
}

// Index returns the item's position in the original input.
func (w WorkItem) Index() int { return w.index }

// Identifier returns the opaque name associated with the item,
// typically the source audio filename.
func (w WorkItem) Identifier() string { return w.identifier }

// Text returns the transcribed text to annotate.
func (w WorkItem) Text() string { return w.text }
