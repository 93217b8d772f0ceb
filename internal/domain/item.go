package domain

import "time"

// ItemStatus is the availability state of a listing. The sequence is forward
// only: available -> pending -> claimed -> delivered.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusClaimed   ItemStatus = "claimed"
	ItemStatusDelivered ItemStatus = "delivered"
)

// Item is a donor's free listing.
type Item struct {
	ID          string
	Title       string
	Description string
	Category    string
	Condition   string
	Weight      string
	Dimensions  string
	Location    string
	Images      []string
	DonorID     string
	Status      ItemStatus
	PickupOnly  bool
	PostedAt    time.Time
}

// DonorSummary is the public slice of a donor's profile attached to listings.
type DonorSummary struct {
	ID            string
	Name          string
	JoinedAt      time.Time
	DonationsMade int
	Rating        float64
}

// ItemWithDonor is a listing joined with its donor's public profile.
type ItemWithDonor struct {
	Item
	Donor DonorSummary
}

// ItemSort values accepted by the public listing view.
const (
	ItemSortNewest = "newest"
	ItemSortOldest = "oldest"
)

// ItemFilter narrows the public listing view. Only available items are ever
// listed publicly; that restriction lives in the repository, not here.
type ItemFilter struct {
	Category string
	Search   string
	Sort     string
}
