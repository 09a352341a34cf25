package repository

import (
	"time"

	"github.com/mkalus/segrada-sub000/core"
	"github.com/mkalus/segrada-sub000/store"
)

// stampAudit fills the audit fields before a save. Creation data is only set
// once; modification data is refreshed on every save. The anonymous identity
// leaves the user back-references empty.
func (b *Base[T]) stampAudit(e T) {
	a, ok := any(e).(core.Audited)
	if !ok {
		return
	}
	fields := a.Audit()
	now := time.Now().UnixMilli()

	if e.ID() == "" && fields.Created == 0 {
		fields.Created = now
		if b.factory.identity.Authenticated() {
			fields.Creator = core.NewUserHandle(b.factory.identity.UserID)
		}
	}
	fields.Modified = now
	if b.factory.identity.Authenticated() {
		fields.Modifier = core.NewUserHandle(b.factory.identity.UserID)
	} else {
		fields.Modifier = nil
	}
}

// adoptStoredAudit keeps the stored creation data when the in-memory entity
// never carried it. An entity handle constructed with an id instead of loaded
// must not reset created or creator on update.
func adoptStoredAudit(e core.Entity, rec *store.Record) {
	a, ok := e.(core.Audited)
	if !ok {
		return
	}
	fields := a.Audit()
	if fields.Created == 0 {
		fields.Created = rec.Int64("created")
	}
	if fields.Creator == nil {
		if id := rec.String("creator"); id != "" {
			fields.Creator = core.NewUserHandle(id)
		}
	}
}

// auditToRecord writes the audit fields into a record. Creator and modifier
// are stored as bare user record ids.
func auditToRecord(e core.Entity, rec *store.Record) {
	a, ok := e.(core.Audited)
	if !ok {
		return
	}
	fields := a.Audit()
	rec.Set("created", fields.Created)
	rec.Set("modified", fields.Modified)
	if fields.Creator != nil {
		rec.Set("creator", fields.Creator.Tuple().ID)
	} else {
		rec.Set("creator", nil)
	}
	if fields.Modifier != nil {
		rec.Set("modifier", fields.Modifier.Tuple().ID)
	} else {
		rec.Set("modifier", nil)
	}
}

// auditFromRecord restores the audit fields from a record. The user handles
// stay unresolved until someone asks for them.
func auditFromRecord(e core.Entity, rec *store.Record) {
	a, ok := e.(core.Audited)
	if !ok {
		return
	}
	fields := a.Audit()
	fields.Created = rec.Int64("created")
	fields.Modified = rec.Int64("modified")
	if id := rec.String("creator"); id != "" {
		fields.Creator = core.NewUserHandle(id)
	} else {
		fields.Creator = nil
	}
	if id := rec.String("modifier"); id != "" {
		fields.Modifier = core.NewUserHandle(id)
	} else {
		fields.Modifier = nil
	}
}
