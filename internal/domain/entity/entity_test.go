package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDIsOrderIndependent(t *testing.T) {
	cases := []struct{ listing, a, b string }{
		{"L123", "alice", "bob"},
		{"L1", "zed", "amy"},
		{"x", "u_2", "u_10"},
	}

	for _, tc := range cases {
		ab := ConversationID(tc.listing, tc.a, tc.b)
		ba := ConversationID(tc.listing, tc.b, tc.a)
		assert.Equal(t, ab, ba)
	}

	assert.Equal(t, "L123_alice_bob", ConversationID("L123", "bob", "alice"))
}

func TestConversationIDDiffersPerListing(t *testing.T) {
	assert.NotEqual(t, ConversationID("L1", "a", "b"), ConversationID("L2", "a", "b"))
}

func TestCounterpart(t *testing.T) {
	c := &Conversation{Participants: []string{"a", "b"}}

	assert.Equal(t, "b", c.Counterpart("a"))
	assert.Equal(t, "a", c.Counterpart("b"))
	assert.Equal(t, "", c.Counterpart("stranger"))
}

func TestMessageSummaryUsesPhotoPlaceholder(t *testing.T) {
	assert.Equal(t, PhotoPlaceholder, (&Message{ImageURL: "https://img"}).Summary())
	assert.Equal(t, "hello", (&Message{Text: "hello", ImageURL: "https://img"}).Summary())
}

func TestListingIsHot(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, (&Listing{HotUntil: &future}).IsHot(now))
	assert.False(t, (&Listing{HotUntil: &past}).IsHot(now))
	assert.False(t, (&Listing{}).IsHot(now))
}

func TestUserAddRating(t *testing.T) {
	u := &User{}
	u.AddRating(5)
	u.AddRating(3)

	assert.Equal(t, 2, u.RatingCount)
	assert.InDelta(t, 4.0, u.RatingAverage, 0.0001)
}

func TestUserAddResponseTime(t *testing.T) {
	u := &User{}
	u.AddResponseTime(30)
	u.AddResponseTime(90)

	assert.Equal(t, 2, u.ResponseCount)
	assert.InDelta(t, 120.0, u.ResponseTotalMinutes, 0.0001)
	assert.InDelta(t, 60.0, u.AvgResponseMinutes, 0.0001)
}
