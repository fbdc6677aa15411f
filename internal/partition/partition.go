// Package partition splits loaded reads into fixed-size partitions for
// thread-parallel scanning (spec §5, §9 "per-file-index partition tables"),
// using a farm hash over each read's header so a read and its mate land in
// the same partition.
package partition

import (
	"github.com/dgryski/go-farm"

	"github.com/kelpie-bio/kelpie"
)

// Split divides reads into ceil(len(reads)/perPartition) partitions,
// assigning a read to partition farm.Hash64([]byte(header)) % numPartitions
// so that paired reads (equal headers) always co-locate, then preserves
// arrival order within a partition.
func Split(all []*kelpie.Read, perPartition int) [][]*kelpie.Read {
	if perPartition <= 0 {
		perPartition = len(all)
	}
	if perPartition <= 0 {
		return nil
	}
	numPartitions := (len(all) + perPartition - 1) / perPartition
	if numPartitions < 1 {
		return nil
	}
	out := make([][]*kelpie.Read, numPartitions)
	for _, r := range all {
		if r == nil {
			continue
		}
		h := farm.Hash64([]byte(r.Header))
		p := int(h % uint64(numPartitions))
		out[p] = append(out[p], r)
	}
	return out
}
