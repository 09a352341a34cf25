package store

// Edge types of the graph schema. The set is closed; repositories never
// invent edge types at runtime.
const (
	// EdgeIsTagOf connects a parent tag (out) to a tagged child (in).
	EdgeIsTagOf = "IsTagOf"
	// EdgeIsCommentOf connects a comment (out) to its subject (in).
	EdgeIsCommentOf = "IsCommentOf"
	// EdgeIsFileOf connects a file (out) to its subject (in).
	EdgeIsFileOf = "IsFileOf"
)

// EdgeTypes lists all edge types.
func EdgeTypes() []string {
	return []string{EdgeIsTagOf, EdgeIsCommentOf, EdgeIsFileOf}
}

// Direction selects which endpoint of an edge a traversal follows.
type Direction int

const (
	// Out follows edges from their out endpoint to their in endpoint.
	Out Direction = iota
	// In follows edges from their in endpoint back to their out endpoint.
	In
)

// Class maps a vertex class name to its cluster number. Record ids embed the
// cluster, so the class of any record is recoverable from its id alone.
type Class struct {
	Name    string
	Cluster uint32
}

// Edge is one directed, typed connection between two vertices.
type Edge struct {
	Type string
	Out  string
	In   string
}

// Store is the schema-flexible graph/document store the mapping layer is
// built on. Implementations must be safe for concurrent use; every call is a
// blocking round-trip.
//
// Load returns (nil, nil) for a well-formed id with no record behind it and
// ErrInvalidID for a malformed id. Update performs a compare-and-swap on the
// record version and fails with ErrConflict on a stale write. DeleteRecord
// and DeleteEdge are idempotent.
type Store interface {
	// Classes returns the registered vertex classes.
	Classes() []Class

	// ClassForID derives the class name from a record id.
	// Fails with ErrUnknownClass for unregistered clusters.
	ClassForID(id string) (string, error)

	// Insert writes a new record, assigning its id and initial version.
	Insert(rec *Record) error

	// Load reads a record by id. Returns (nil, nil) if absent.
	Load(id string) (*Record, error)

	// Update rewrites an existing record if rec.Version matches the stored
	// version, bumping the version on success.
	Update(rec *Record) error

	// DeleteRecord removes the record. No-op if absent.
	DeleteRecord(id string) error

	// Scan visits every record of a class in id order.
	Scan(class string, fn func(rec *Record) error) error

	// Count returns the number of records of a class.
	Count(class string) (int64, error)

	// CreateEdge creates the typed edge out->in. Returns false if the edge
	// already existed; at most one edge of a type exists per ordered pair.
	CreateEdge(edgeType, out, in string) (bool, error)

	// DeleteEdge removes the typed edge out->in. Returns false if absent.
	DeleteEdge(edgeType, out, in string) (bool, error)

	// HasEdge reports whether the typed edge out->in exists.
	HasEdge(edgeType, out, in string) (bool, error)

	// EdgesFrom returns the in-endpoints of all typed edges leaving out.
	EdgesFrom(edgeType, out string) ([]string, error)

	// EdgesTo returns the out-endpoints of all typed edges arriving at in.
	EdgesTo(edgeType, in string) ([]string, error)

	// ScanEdges visits every edge of a type.
	ScanEdges(edgeType string, fn func(edge Edge) error) error

	// DeleteVertexEdges removes all edges of every type touching id, in
	// either direction.
	DeleteVertexEdges(id string) error

	// PathExists reports whether a directed path of typed edges leads from
	// one vertex to another. A vertex has no path to itself. The walk is a
	// breadth-first search with a visited set, so it terminates even on a
	// graph that contains a cycle.
	PathExists(edgeType, from, to string) (bool, error)

	// Traverse collects the vertices reachable from root along typed edges
	// in the given direction. With transitive false only direct neighbours
	// are returned; root itself never is.
	Traverse(edgeType, root string, dir Direction, transitive bool) ([]string, error)

	// SetIndex writes a secondary index entry name/key -> id.
	SetIndex(name string, key []byte, id string) error

	// SetIndexIfAbsent writes the entry only when no entry exists for the
	// key. Returns the id now stored under the key and whether this call
	// stored it. The check and the write are atomic.
	SetIndexIfAbsent(name string, key []byte, id string) (string, bool, error)

	// DeleteIndex removes a secondary index entry. No-op if absent.
	DeleteIndex(name string, key []byte) error

	// LookupIndex reads a secondary index entry.
	LookupIndex(name string, key []byte) (string, bool, error)

	// ScanIndex visits index entries under a key prefix.
	ScanIndex(name string, prefix []byte, fn func(key []byte, id string) error) error

	// Close releases the underlying resources.
	Close() error
}
