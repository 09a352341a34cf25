package badger

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// packID packs a record id into its fixed-width vertex key form.
func packID(id string) ([]byte, error) {
	cluster, pos, err := core.ParseID(id)
	if err != nil {
		return nil, err
	}
	return packVertex(cluster, pos), nil
}

// unpackID reverses packID.
func unpackID(buf []byte) string {
	cluster, pos := unpackVertex(buf)
	return core.FormatID(cluster, pos)
}

// CreateEdge creates the typed edge out->in. Returns false if it already
// existed. The existence check and the write happen in one transaction, so
// at most one edge of a type can exist per ordered pair.
func (g *Graph) CreateEdge(edgeType, out, in string) (bool, error) {
	outKey, err := packID(out)
	if err != nil {
		return false, err
	}
	inKey, err := packID(in)
	if err != nil {
		return false, err
	}

	created := false
	err = g.WithTx(func(tx *badger.Txn) error {
		forward := makeEdgeOutKey(edgeType, outKey, inKey)
		if _, err := tx.Get(forward); err == nil {
			return nil // edge exists, keep created false
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		value := store.MarshalEdgeValue(time.Now().UnixMilli())
		if err := tx.Set(forward, value); err != nil {
			return err
		}
		if err := tx.Set(makeEdgeInKey(edgeType, outKey, inKey), value); err != nil {
			return err
		}
		created = true
		return tx.Commit()
	}, true)
	if err != nil {
		return false, mapTxError(err)
	}
	return created, nil
}

// DeleteEdge removes the typed edge out->in. Returns false if absent.
func (g *Graph) DeleteEdge(edgeType, out, in string) (bool, error) {
	outKey, err := packID(out)
	if err != nil {
		return false, err
	}
	inKey, err := packID(in)
	if err != nil {
		return false, err
	}

	deleted := false
	err = g.WithTx(func(tx *badger.Txn) error {
		forward := makeEdgeOutKey(edgeType, outKey, inKey)
		if _, err := tx.Get(forward); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Delete(forward); err != nil {
			return err
		}
		if err := tx.Delete(makeEdgeInKey(edgeType, outKey, inKey)); err != nil {
			return err
		}
		deleted = true
		return tx.Commit()
	}, true)
	if err != nil {
		return false, mapTxError(err)
	}
	return deleted, nil
}

// HasEdge reports whether the typed edge out->in exists.
func (g *Graph) HasEdge(edgeType, out, in string) (bool, error) {
	outKey, err := packID(out)
	if err != nil {
		return false, err
	}
	inKey, err := packID(in)
	if err != nil {
		return false, err
	}

	found := false
	err = g.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeEdgeOutKey(edgeType, outKey, inKey))
		if err == nil {
			found = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}, false)
	return found, err
}

// EdgesFrom returns the in-endpoints of all typed edges leaving out.
func (g *Graph) EdgesFrom(edgeType, out string) ([]string, error) {
	var result []string
	err := g.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = edgesFromTx(tx, edgeType, out)
		return err
	}, false)
	return result, err
}

// EdgesTo returns the out-endpoints of all typed edges arriving at in.
func (g *Graph) EdgesTo(edgeType, in string) ([]string, error) {
	var result []string
	err := g.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = edgesToTx(tx, edgeType, in)
		return err
	}, false)
	return result, err
}

// ScanEdges visits every edge of a type.
func (g *Graph) ScanEdges(edgeType string, fn func(edge store.Edge) error) error {
	return g.WithTx(func(tx *badger.Txn) error {
		prefix := makeEdgeOutScanPrefix(edgeType, nil)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			rest := key[len(prefix):]
			edge := store.Edge{
				Type: edgeType,
				Out:  unpackID(rest[:vertexKeyLen]),
				In:   unpackID(rest[vertexKeyLen:]),
			}
			if err := fn(edge); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// DeleteVertexEdges removes all edges of every type touching id, in either
// direction.
func (g *Graph) DeleteVertexEdges(id string) error {
	vertex, err := packID(id)
	if err != nil {
		return err
	}

	err = g.WithTx(func(tx *badger.Txn) error {
		for _, edgeType := range store.EdgeTypes() {
			// outgoing edges
			others, err := scanEdgeNeighbours(tx, makeEdgeOutScanPrefix(edgeType, vertex))
			if err != nil {
				return err
			}
			for _, other := range others {
				if err := tx.Delete(makeEdgeOutKey(edgeType, vertex, other)); err != nil {
					return err
				}
				if err := tx.Delete(makeEdgeInKey(edgeType, vertex, other)); err != nil {
					return err
				}
			}
			// incoming edges
			others, err = scanEdgeNeighbours(tx, makeEdgeInScanPrefix(edgeType, vertex))
			if err != nil {
				return err
			}
			for _, other := range others {
				if err := tx.Delete(makeEdgeOutKey(edgeType, other, vertex)); err != nil {
					return err
				}
				if err := tx.Delete(makeEdgeInKey(edgeType, other, vertex)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	return mapTxError(err)
}

// PathExists reports whether a directed path of typed edges leads from one
// vertex to another. Breadth-first with a visited set, so a cycle cannot
// make the walk diverge.
func (g *Graph) PathExists(edgeType, from, to string) (bool, error) {
	if from == to {
		return false, nil
	}
	if _, err := packID(from); err != nil {
		return false, err
	}
	if _, err := packID(to); err != nil {
		return false, err
	}

	found := false
	err := g.WithTx(func(tx *badger.Txn) error {
		visited := map[string]bool{from: true}
		frontier := []string{from}

		for len(frontier) > 0 {
			current := frontier[0]
			frontier = frontier[1:]

			next, err := edgesFromTx(tx, edgeType, current)
			if err != nil {
				return err
			}
			for _, n := range next {
				if n == to {
					found = true
					return nil
				}
				if !visited[n] {
					visited[n] = true
					frontier = append(frontier, n)
				}
			}
		}
		return nil
	}, false)
	return found, err
}

// Traverse collects the vertices reachable from root along typed edges in
// the given direction. Root itself is never part of the result.
func (g *Graph) Traverse(edgeType, root string, dir store.Direction, transitive bool) ([]string, error) {
	if _, err := packID(root); err != nil {
		return nil, err
	}

	var result []string
	err := g.WithTx(func(tx *badger.Txn) error {
		step := func(id string) ([]string, error) {
			if dir == store.Out {
				return edgesFromTx(tx, edgeType, id)
			}
			return edgesToTx(tx, edgeType, id)
		}

		direct, err := step(root)
		if err != nil {
			return err
		}
		if !transitive {
			result = direct
			return nil
		}

		visited := map[string]bool{root: true}
		frontier := direct
		for len(frontier) > 0 {
			current := frontier[0]
			frontier = frontier[1:]
			if visited[current] {
				continue
			}
			visited[current] = true
			result = append(result, current)

			next, err := step(current)
			if err != nil {
				return err
			}
			frontier = append(frontier, next...)
		}
		return nil
	}, false)
	return result, err
}

// edgesFromTx lists in-endpoints of typed edges leaving out, within tx.
func edgesFromTx(tx *badger.Txn, edgeType, out string) ([]string, error) {
	vertex, err := packID(out)
	if err != nil {
		return nil, err
	}
	others, err := scanEdgeNeighbours(tx, makeEdgeOutScanPrefix(edgeType, vertex))
	if err != nil {
		return nil, err
	}
	return unpackAll(others), nil
}

// edgesToTx lists out-endpoints of typed edges arriving at in, within tx.
func edgesToTx(tx *badger.Txn, edgeType, in string) ([]string, error) {
	vertex, err := packID(in)
	if err != nil {
		return nil, err
	}
	others, err := scanEdgeNeighbours(tx, makeEdgeInScanPrefix(edgeType, vertex))
	if err != nil {
		return nil, err
	}
	return unpackAll(others), nil
}

// scanEdgeNeighbours collects the trailing vertex key of every edge key
// under the given prefix.
func scanEdgeNeighbours(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var result [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		other := make([]byte, vertexKeyLen)
		copy(other, key[len(prefix):])
		result = append(result, other)
	}
	return result, nil
}

func unpackAll(vertices [][]byte) []string {
	if len(vertices) == 0 {
		return nil
	}
	ids := make([]string, len(vertices))
	for i, v := range vertices {
		ids[i] = unpackID(v)
	}
	return ids
}
