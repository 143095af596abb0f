// This project is licensed under the MIT License (see LICENSE).

package pop

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDump renders pp as the three-section population dump format
// (Populations, Mutations, Genomes): one row per subpop's id and size,
// one row per live mutation keyed by its pool id, and one row per
// genome listing the mutation ids it carries. This is the single writer
// for that format; both a live "A" output event and a file written for
// later use as an #INITIALIZATION source go through it, so the two can
// never drift out of sync with each other or with the reader that
// parses this same format back into a Population. PRNG state is never
// included, per the documented round-trip limitation.
func WriteDump(w io.Writer, pp *Population) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Populations")
	for _, id := range pp.Order {
		p := pp.Subpops[id]
		fmt.Fprintf(bw, "p%d %d\n", p.ID, p.Size)
	}
	bw.WriteByte('\n')

	fmt.Fprintln(bw, "Mutations")
	for _, id := range pp.Pool.LiveIDs() {
		m := pp.Pool.Get(id)
		fmt.Fprintf(bw, "%d m%d %d %g %d p%d\n", m.ID, m.Type.ID, m.Position+1, m.SelectionCoeff, m.OriginGeneration, m.SubpopID)
	}
	bw.WriteByte('\n')

	fmt.Fprintln(bw, "Genomes")
	for _, id := range pp.Order {
		p := pp.Subpops[id]
		for i, g := range p.ParentGenomes {
			fmt.Fprintf(bw, "p%d:%d", p.ID, i)
			for _, mid := range g.Mutations {
				fmt.Fprintf(bw, " %d", mid)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
