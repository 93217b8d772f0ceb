package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	parties := Parties{Donor: "donor-1", Requester: "requester-1"}

	tests := []struct {
		name     string
		actorID  string
		relation Relation
		wantErr  error
	}{
		{"donor passes donor check", "donor-1", RelationDonor, nil},
		{"requester fails donor check", "requester-1", RelationDonor, ErrForbidden},
		{"stranger fails donor check", "someone-else", RelationDonor, ErrForbidden},
		{"donor passes party check", "donor-1", RelationParty, nil},
		{"requester passes party check", "requester-1", RelationParty, nil},
		{"stranger fails party check", "someone-else", RelationParty, ErrForbidden},
		{"empty actor is unauthorized", "", RelationDonor, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actorID, tt.relation, parties, "denied")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAuthorize_ReasonSurfaces(t *testing.T) {
	err := Authorize("stranger", RelationDonor, Parties{Donor: "donor-1"}, "not authorized to update this request")
	require.EqualError(t, err, "not authorized to update this request")
}
