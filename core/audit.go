package core

// AuditFields record creation and modification of an entity. Timestamps are
// Unix milliseconds; creator and modifier are lazy back-references to User
// records and may be nil when the acting identity was anonymous.
type AuditFields struct {
	Created  int64
	Modified int64
	Creator  *UserHandle
	Modifier *UserHandle
}

// Audit exposes the embedded fields for repository bookkeeping.
func (a *AuditFields) Audit() *AuditFields { return a }

// Audited is satisfied by entities that carry audit fields.
type Audited interface {
	Audit() *AuditFields
}

// UserHandle is a lazy reference to a User record. The user is fetched on
// first access and memoized, including a miss: a handle to a since-deleted
// user keeps returning nil without hitting the store again.
type UserHandle struct {
	tuple    IdModelTuple
	user     *User
	resolved bool
}

// NewUserHandle builds an unresolved handle for a user record id.
func NewUserHandle(id string) *UserHandle {
	return &UserHandle{tuple: IdModelTuple{ID: id, Model: ModelUser}}
}

// Tuple returns the underlying polymorphic reference.
func (h *UserHandle) Tuple() IdModelTuple { return h.tuple }

// Get resolves the referenced user, or nil if it no longer exists.
func (h *UserHandle) Get(r Resolver) *User {
	if h == nil {
		return nil
	}
	if !h.resolved {
		if e := r.Resolve(h.tuple); e != nil {
			if u, ok := e.(*User); ok {
				h.user = u
			}
		}
		h.resolved = true
	}
	return h.user
}
