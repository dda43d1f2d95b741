// Package variant parses the compound variant descriptors found in LIRICAL results.
package variant

// Variant is a single genomic variant with inclusive 1-based coordinates.
type Variant struct {
	Chrom string // Chromosome name as written by the tool (e.g., "19", "X")
	Start int64  // 1-based start position
	End   int64  // 1-based inclusive end: Start + len(Ref) - 1
	Ref   string // Reference allele
	Alt   string // Alternate allele
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}

// EndPosition returns the inclusive end coordinate of a variant starting at
// start with the given reference allele.
func EndPosition(start int64, ref string) int64 {
	return start + int64(len(ref)) - 1
}
