package types

import (
	"fmt"
	"math"
)

/*
EdgeKey packs the two node indices of an undirected edge into one uint64,
the lower index in the low 32 bits. (i, j) and (j, i) give the same key, so
EdgeKey can index maps of edges regardless of the direction they were
given in.
*/
type EdgeKey uint64

func NewEdgeKey(i, j int) (key EdgeKey) {
	for _, node := range [2]int{i, j} {
		if node < 0 || node > math.MaxUint32 {
			panic(fmt.Errorf("unable to pack nodes %d and %d into an edge key", i, j))
		}
	}
	if i > j {
		i, j = j, i
	}
	key = EdgeKey(uint64(i) | uint64(j)<<32)
	return
}

// Nodes returns the indices in ascending order
func (ek EdgeKey) Nodes() (i, j int) {
	i = int(ek & math.MaxUint32)
	j = int(ek >> 32)
	return
}

func (ek EdgeKey) String() string {
	i, j := ek.Nodes()
	return fmt.Sprintf("(%d,%d)", i, j)
}
