package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electric-backend/internal/models"
	"electric-backend/internal/timeutil"
)

var (
	admin = models.Party{ID: 1, Name: "Admin", Username: "admin", Role: models.RoleAdmin}
	ramu  = models.Party{ID: 2, Name: "Ramu", Username: "ramu", Role: models.RoleCustomer, Mobile: "9876543210", Area: "Sector 4"}
	shyam = models.Party{ID: 3, Name: "Shyam", Username: "shyam", Role: models.RoleCustomer, Mobile: "9876543211", Area: "Sector 9"}
)

func at(min int) time.Time {
	return time.Date(2024, 6, 10, 12, min, 0, 0, timeutil.IST)
}

func msg(id int64, from, to models.Party, body string, created time.Time, read bool) *models.Message {
	return &models.Message{
		ID: id, SenderID: from.ID, ReceiverID: to.ID,
		Sender: from, Receiver: to,
		Body: body, IsRead: read, CreatedAt: created,
	}
}

func TestAggregate_AdminView(t *testing.T) {
	t.Parallel()
	// Newest first, as the repository returns them.
	msgs := []*models.Message{
		msg(5, shyam, admin, "free tomorrow?", at(40), false),
		msg(4, admin, ramu, "will visit at 5", at(30), false),
		msg(3, ramu, admin, "fan not working", at(20), false),
		msg(2, ramu, admin, "hello", at(10), true),
		msg(1, admin, shyam, "quote sent", at(5), true),
	}

	convs := Aggregate(admin.ID, models.RoleAdmin, msgs)
	require.Len(t, convs, 2)

	// Sorted by latest activity, shyam first.
	assert.Equal(t, shyam.ID, convs[0].UserID)
	assert.Equal(t, "free tomorrow?", convs[0].LastMessage.Message)
	assert.False(t, convs[0].LastMessage.IsFromMe)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, "9876543211", convs[0].Mobile)
	assert.Equal(t, "Sector 9", convs[0].Area)

	assert.Equal(t, ramu.ID, convs[1].UserID)
	assert.Equal(t, "will visit at 5", convs[1].LastMessage.Message)
	assert.True(t, convs[1].LastMessage.IsFromMe)
	// Own outgoing unread messages never count.
	assert.Equal(t, 1, convs[1].UnreadCount)
}

func TestAggregate_CustomerViewHidesContactFields(t *testing.T) {
	t.Parallel()
	msgs := []*models.Message{
		msg(2, admin, ramu, "on my way", at(20), false),
		msg(1, ramu, admin, "please come", at(10), true),
	}

	convs := Aggregate(ramu.ID, models.RoleCustomer, msgs)
	require.Len(t, convs, 1)
	assert.Equal(t, admin.ID, convs[0].UserID)
	assert.Empty(t, convs[0].Mobile)
	assert.Empty(t, convs[0].Area)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.False(t, convs[0].LastMessage.IsFromMe)
}

func TestAggregate_SkipsWrongSideCounterparts(t *testing.T) {
	t.Parallel()
	// A stray customer-to-customer row must not surface for a customer viewer.
	msgs := []*models.Message{
		msg(2, shyam, ramu, "hi neighbour", at(20), false),
		msg(1, admin, ramu, "invoice attached", at(10), false),
	}

	convs := Aggregate(ramu.ID, models.RoleCustomer, msgs)
	require.Len(t, convs, 1)
	assert.Equal(t, admin.ID, convs[0].UserID)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Aggregate(admin.ID, models.RoleAdmin, nil))
}
