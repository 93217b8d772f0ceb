package domain

// Relation names the relationship an actor must hold to a resource before a
// mutating operation is allowed.
type Relation string

const (
	// RelationDonor requires the actor to own the underlying item.
	RelationDonor Relation = "donor"
	// RelationParty requires the actor to be either side of the exchange.
	RelationParty Relation = "party"
)

// Parties carries the user IDs on each side of a resource.
type Parties struct {
	Donor     string
	Requester string
}

// Authorize is the single capability check shared by every mutating
// operation: it verifies that actorID holds the required relation to the
// resource described by p.
func Authorize(actorID string, relation Relation, p Parties, reason string) error {
	if actorID == "" {
		return UnauthorizedError("missing user context")
	}
	switch relation {
	case RelationDonor:
		if actorID == p.Donor {
			return nil
		}
	case RelationParty:
		if actorID == p.Donor || actorID == p.Requester {
			return nil
		}
	}
	return ForbiddenError(reason)
}
