package chunkStorage

import (
	"github.com/maxsupermanhd/VoxelGrid/lib/nbtwalk"
)

// InspectChunkRaw lists tags of stored chunk data without decoding voxels.
func InspectChunkRaw(d []byte) ([]nbtwalk.Node, error) {
	dat, err := Decompress(d)
	if err != nil {
		return nil, err
	}
	ret := []nbtwalk.Node{}
	err = nbtwalk.Walk(dat, func(n nbtwalk.Node) error {
		ret = append(ret, n)
		return nil
	})
	return ret, err
}
