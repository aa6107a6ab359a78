package item

import "github.com/google/uuid"

// InstanceID uniquely identifies a spawned item instance.
type InstanceID string

// NewInstanceID mints a fresh collision-resistant instance identifier.
func NewInstanceID() InstanceID {
	return InstanceID(uuid.NewString())
}

// Instance is a uniquely identified, ownable copy of an item definition.
// The Kind is denormalized from the catalog at spawn time so equip dispatch
// does not need a catalog lookup.
type Instance struct {
	instanceID InstanceID
	itemID     ID
	kind       Kind
}

// NewInstance binds a fresh instance id to the given definition id and kind.
func NewInstance(itemID ID, kind Kind) Instance {
	return Instance{
		instanceID: NewInstanceID(),
		itemID:     itemID,
		kind:       kind,
	}
}

// InstanceID returns the unique identifier of this instance.
func (i Instance) InstanceID() InstanceID { return i.instanceID }

// ItemID returns the definition id this instance was spawned from.
func (i Instance) ItemID() ID { return i.itemID }

// Kind returns the kind cached at spawn time.
func (i Instance) Kind() Kind { return i.kind }
