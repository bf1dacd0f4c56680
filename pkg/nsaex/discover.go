package nsaex

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiscoverVolumes probes dir for arc.nsa followed by arc0.nsa, arc1.nsa,
// … up to maxVolumes, in that discovery order. A missing numbered file
// does not end the search — holes are skipped — but the conventional
// layout is a contiguous run starting at 0. Open Question (a): when
// both arc.nsa and arc0.nsa exist, both are returned, arc.nsa first;
// dispatch order is by this discovery order, not lexical.
func DiscoverVolumes(dir string, maxVolumes int) ([]string, error) {
	var found []string

	base := filepath.Join(dir, "arc.nsa")
	if _, err := os.Stat(base); err == nil {
		found = append(found, base)
	}

	for i := 0; i < maxVolumes; i++ {
		p := filepath.Join(dir, fmt.Sprintf("arc%d.nsa", i))
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}

	return found, nil
}
