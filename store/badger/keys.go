package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for the different data kinds
const (
	recordPrefix  = "rec"
	edgeOutPrefix = "edo"
	edgeInPrefix  = "edi"
	indexPrefix   = "idx"
	seqPrefix     = "seq"
)

// vertexKeyLen is the packed (cluster, position) length: 4 + 8 bytes.
const vertexKeyLen = 12

// packVertex packs cluster and position in BigEndian order so lexicographic
// sort matches id order.
func packVertex(cluster uint32, position uint64) []byte {
	buf := make([]byte, vertexKeyLen)
	binary.BigEndian.PutUint32(buf, cluster)
	binary.BigEndian.PutUint64(buf[4:], position)
	return buf
}

// unpackVertex reverses packVertex.
func unpackVertex(buf []byte) (cluster uint32, position uint64) {
	return binary.BigEndian.Uint32(buf), binary.BigEndian.Uint64(buf[4:])
}

// makeRecordKey generates the primary key of a record.
// Format: prefix:cluster:position (packed)
func makeRecordKey(cluster uint32, position uint64) []byte {
	prefix := []byte(recordPrefix + ":")
	buf := make([]byte, len(prefix)+vertexKeyLen)
	offset := copy(buf, prefix)
	copy(buf[offset:], packVertex(cluster, position))
	return buf
}

// makeRecordClassPrefix generates the scan prefix for all records of a
// cluster.
func makeRecordClassPrefix(cluster uint32) []byte {
	prefix := []byte(recordPrefix + ":")
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], cluster)
	return buf
}

// makeEdgeOutKey generates the out-direction edge key.
// Format: prefix:type:outVertex:inVertex
func makeEdgeOutKey(edgeType string, out, in []byte) []byte {
	return concatKey([]byte(edgeOutPrefix+":"+edgeType+":"), out, in)
}

// makeEdgeInKey generates the in-direction (reverse) edge key.
// Format: prefix:type:inVertex:outVertex
func makeEdgeInKey(edgeType string, out, in []byte) []byte {
	return concatKey([]byte(edgeInPrefix+":"+edgeType+":"), in, out)
}

// makeEdgeOutScanPrefix generates the scan prefix for all typed edges
// leaving a vertex (or all edges of the type when vertex is nil).
func makeEdgeOutScanPrefix(edgeType string, out []byte) []byte {
	return concatKey([]byte(edgeOutPrefix+":"+edgeType+":"), out)
}

// makeEdgeInScanPrefix generates the scan prefix for all typed edges
// arriving at a vertex.
func makeEdgeInScanPrefix(edgeType string, in []byte) []byte {
	return concatKey([]byte(edgeInPrefix+":"+edgeType+":"), in)
}

// makeIndexKey generates a secondary index key.
// Format: prefix:name:key
func makeIndexKey(name string, key []byte) []byte {
	return concatKey([]byte(indexPrefix+":"+name+":"), key)
}

// makeSequenceKey generates the key of a cluster's position sequence.
func makeSequenceKey(cluster uint32) []byte {
	return []byte(fmt.Sprintf("%s:%d", seqPrefix, cluster))
}

func concatKey(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, total)
	offset := 0
	for _, p := range parts {
		offset += copy(buf[offset:], p)
	}
	return buf
}
