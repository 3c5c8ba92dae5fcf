package dicom

import "github.com/oceanus-health/dicomcore/tag"

// DataSet is a decoded dataset: the transfer syntax it was read under and
// the flat, order-preserving list of every element and descendant, per
// spec.md §9.
type DataSet struct {
	TransferSyntaxUID string
	Elements          []ElementInDataSet
}

// NewDataSet returns an empty DataSet for the given transfer syntax.
func NewDataSet(transferSyntaxUID string) *DataSet {
	return &DataSet{TransferSyntaxUID: transferSyntaxUID}
}

// Len returns the number of entries in the flat element list.
func (d *DataSet) Len() int { return len(d.Elements) }

// At returns the entry at index i.
func (d *DataSet) At(i int) *ElementInDataSet { return &d.Elements[i] }

// DescendantsCount counts consecutive subsequent elements whose parent chain
// passes through i, per spec.md §4.4.4.
func (d *DataSet) DescendantsCount(i int) int {
	count := 0
	for j := i + 1; j < len(d.Elements); j++ {
		if !d.parentChainPassesThrough(j, i) {
			break
		}
		count++
	}
	return count
}

func (d *DataSet) parentChainPassesThrough(j, i int) bool {
	p := d.Elements[j].ParentIndex
	for p != nil {
		if *p == i {
			return true
		}
		p = d.Elements[*p].ParentIndex
	}
	return false
}

// SequenceDepth walks the parent chain of i to the root, skipping Item
// parents since items do not add a logical nesting level, per spec.md
// §4.4.4.
func (d *DataSet) SequenceDepth(i int) int {
	depth := 0
	p := d.Elements[i].ParentIndex
	for p != nil {
		if !d.Elements[*p].IsItemParent() {
			depth++
		}
		p = d.Elements[*p].ParentIndex
	}
	return depth
}

// Find returns the index of the first top-level (ParentIndex == nil)
// element with the given tag, or -1 if none exists.
func (d *DataSet) Find(t tag.Tag) int {
	for i := range d.Elements {
		if d.Elements[i].ParentIndex == nil && d.Elements[i].Element.Tag == t {
			return i
		}
	}
	return -1
}
