package ticketkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_Seeded(t *testing.T) {
	s := NewStore()
	active := s.ListOpen("all")
	require.Len(t, active, 2)

	_, err := s.UserByEmail("alice@company.com")
	require.NoError(t, err)
}

func TestStore_Search(t *testing.T) {
	s := NewStore()
	matches := s.Search("VPN")
	require.Len(t, matches, 1)
	assert.Equal(t, "T-AA1B2C", matches[0].ID)

	// Case-insensitive, matches description too
	matches = s.Search("inbox STUCK")
	require.Len(t, matches, 1)
	assert.Equal(t, "T-DD3E4F", matches[0].ID)

	assert.Empty(t, s.Search("printer"))
}

func TestStore_Create(t *testing.T) {
	s := NewEmptyStore()
	ticket := s.Create("Monitor flickering", "External monitor flickers on dock.", "bob@company.com", PriorityLow)
	assert.True(t, strings.HasPrefix(ticket.ID, "T-"), "ID %q must have T- prefix", ticket.ID)
	assert.Len(t, ticket.ID, 8)
	assert.Equal(t, StatusOpen, ticket.Status)
	assert.NotEmpty(t, ticket.CreatedAt)

	got, err := s.Get(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Title, got.Title)

	// IDs are unique across creations
	other := s.Create("Another", "desc", "bob@company.com", PriorityLow)
	assert.NotEqual(t, ticket.ID, other.ID)
}

func TestStore_UpdateStatus(t *testing.T) {
	s := NewStore()
	ticket, old, err := s.UpdateStatus("T-AA1B2C", StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, old)
	assert.Equal(t, StatusResolved, ticket.Status)

	// Resolved tickets drop out of the active list
	for _, active := range s.ListOpen("all") {
		assert.NotEqual(t, "T-AA1B2C", active.ID)
	}

	_, _, err = s.UpdateStatus("T-NOPE00", StatusResolved)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Contains(t, err.Error(), "T-NOPE00")
}

func TestStore_ListOpen_PriorityFilter(t *testing.T) {
	s := NewStore()
	high := s.ListOpen("high")
	require.Len(t, high, 1)
	assert.Equal(t, "T-DD3E4F", high[0].ID)

	assert.Len(t, s.ListOpen(""), 2, "empty filter behaves like all")
	assert.Empty(t, s.ListOpen("low"))
}

func TestStore_AddComment(t *testing.T) {
	s := NewStore()
	ticket, comment, err := s.AddComment("T-AA1B2C", "Rebooted the VPN concentrator.")
	require.NoError(t, err)
	assert.Equal(t, "Rebooted the VPN concentrator.", comment.Text)
	assert.NotEmpty(t, comment.Timestamp)
	require.Len(t, ticket.Comments, 1)

	_, _, err = s.AddComment("T-NOPE00", "x")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestStore_UserByEmail(t *testing.T) {
	s := NewStore()
	p, err := s.UserByEmail("  CAROL@company.com ")
	require.NoError(t, err)
	assert.Equal(t, "Carol White", p.Name)
	assert.Equal(t, SLACritical, p.SLATier)

	_, err = s.UserByEmail("nobody@company.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
