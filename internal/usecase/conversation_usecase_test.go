package usecase

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketly/internal/domain/entity"
	"marketly/internal/infrastructure/ratelimit"
	ws "marketly/internal/infrastructure/websocket"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
)

type convFixture struct {
	uc       *ConversationUseCase
	convs    *fakeConversationRepo
	listings *fakeListingRepo
	users    *fakeUserRepo
	push     *fakePush
	pub      *fakePublisher
	ai       *fakeAI
	clock    *testClock
}

func newConvFixture(t *testing.T) *convFixture {
	t.Helper()

	f := &convFixture{
		convs:    newFakeConversationRepo(),
		listings: newFakeListingRepo(),
		users: newFakeUserRepo(
			&entity.User{ID: "A", PushToken: "tokA"},
			&entity.User{ID: "B", PushToken: "tokB"},
			&entity.User{ID: "C"},
		),
		push:  newFakePush(),
		pub:   newFakePublisher(),
		ai:    &fakeAI{translation: "halo"},
		clock: newTestClock(),
	}

	notifications := NewNotificationUseCase(newFakeNotificationRepo(), f.users, f.push)
	f.uc = NewConversationUseCase(
		f.convs, f.listings, NewResponseTimeEstimator(f.users), notifications,
		f.ai, nil, f.pub, allowAll{}, worker.Inline{}, 20,
	)
	f.uc.now = f.clock.Now

	f.listings.put(&entity.Listing{
		ID:       "L123",
		SellerID: "B",
		Title:    "Road bike",
		Photos:   []string{"https://img/1.jpg"},
		Status:   entity.ListingStatusActive,
	})
	return f
}

func (f *convFixture) send(t *testing.T, convID, sender, text string) *entity.Message {
	t.Helper()
	msg, err := f.uc.SendMessage(context.Background(), SendMessageInput{
		ConversationID: convID,
		SenderID:       sender,
		Text:           text,
	})
	require.NoError(t, err)
	return msg
}

func TestGetOrCreateConversation_IdempotentAndOrderIndependent(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()
	meta := entity.ListingMeta{Title: "Road bike"}

	first, err := f.uc.GetOrCreateConversation(ctx, "A", "B", "L123", meta)
	require.NoError(t, err)
	second, err := f.uc.GetOrCreateConversation(ctx, "A", "B", "L123", meta)
	require.NoError(t, err)
	swapped, err := f.uc.GetOrCreateConversation(ctx, "B", "A", "L123", meta)
	require.NoError(t, err)

	assert.Equal(t, "L123_A_B", first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, swapped)
	assert.Len(t, f.convs.conversations, 1)
}

func TestGetOrCreateConversation_SecondCallKeepsCreatedAt(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	id, err := f.uc.GetOrCreateConversation(ctx, "A", "B", "L123", entity.ListingMeta{Title: "Road bike"})
	require.NoError(t, err)
	created := f.clock.Now()

	f.clock.Advance(time.Hour)
	_, err = f.uc.GetOrCreateConversation(ctx, "A", "B", "L123", entity.ListingMeta{Title: "Road bike v2"})
	require.NoError(t, err)

	conv, err := f.convs.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created, conv.CreatedAt)
	assert.Equal(t, "Road bike v2", conv.ListingTitle)
}

func TestGetOrCreateConversation_RejectsSelf(t *testing.T) {
	f := newConvFixture(t)

	_, err := f.uc.StartConversation(context.Background(), "B", "L123")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessage_FirstContactScenario(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)
	assert.Equal(t, "Road bike", conv.ListingTitle)
	assert.Equal(t, "https://img/1.jpg", conv.ListingPhoto)

	f.send(t, conv.ID, "A", "hello")

	got, err := f.convs.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, got.Participants)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, got.UnreadCount)
	assert.Equal(t, "hello", got.LastMessage)
	assert.Equal(t, "A", got.LastSenderID)

	require.Len(t, f.push.sent["tokB"], 1)
	assert.Equal(t, "hello", f.push.sent["tokB"][0].Body)
	assert.Empty(t, f.push.sent["tokA"])

	require.Len(t, f.pub.room, 1)
	assert.Equal(t, ws.EventNewMessage, f.pub.room[0].Type)
	assert.Equal(t, conv.ID, f.pub.room[0].Target)
}

func TestSendMessage_UnreadCounters(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	steps := []struct {
		sender string
		want   map[string]int
	}{
		{"A", map[string]int{"A": 0, "B": 1}},
		{"A", map[string]int{"A": 0, "B": 2}},
		{"B", map[string]int{"A": 1, "B": 0}},
		{"A", map[string]int{"A": 0, "B": 1}},
	}
	for i, step := range steps {
		f.send(t, conv.ID, step.sender, "msg")
		got, err := f.convs.GetByID(ctx, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, got.UnreadCount, "step %d", i)
	}
}

func TestSendMessage_PhotoOnlyUsesPlaceholder(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	msg, err := f.uc.SendMessage(ctx, SendMessageInput{
		ConversationID: conv.ID,
		SenderID:       "A",
		ImageURL:       "https://img/chat.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img/chat.jpg", msg.ImageURL)

	got, _ := f.convs.GetByID(ctx, conv.ID)
	assert.Equal(t, entity.PhotoPlaceholder, got.LastMessage)
}

func TestSendMessage_Validation(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	_, err = f.uc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "A", Text: "   "})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "C", Text: "hi"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = f.uc.SendMessage(ctx, SendMessageInput{ConversationID: "missing", SenderID: "A", Text: "hi"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessage_RateLimited(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	limiter := ratelimit.NewRateLimiter()
	limiter.SetPolicy(ratelimit.ActionSendMessage, ratelimit.Policy{Every: time.Hour, Burst: 1})
	f.uc.limiter = limiter

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	f.send(t, conv.ID, "A", "one")
	_, err = f.uc.SendMessage(ctx, SendMessageInput{ConversationID: conv.ID, SenderID: "A", Text: "two"})
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))
}

func TestSendMessage_RecordsResponseTimeOnlyForReplies(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	f.send(t, conv.ID, "A", "is it available?")
	assert.Equal(t, 0, f.users.get("A").ResponseCount)

	f.clock.Advance(30 * time.Minute)
	f.send(t, conv.ID, "B", "yes")

	f.clock.Advance(time.Minute)
	f.send(t, conv.ID, "B", "still there?")

	seller := f.users.get("B")
	assert.Equal(t, 1, seller.ResponseCount)
	assert.InDelta(t, 30.0, seller.AvgResponseMinutes, 0.001)

	f.clock.Advance(10 * time.Minute)
	f.send(t, conv.ID, "A", "great")

	buyer := f.users.get("A")
	assert.Equal(t, 1, buyer.ResponseCount)
	assert.InDelta(t, 10.0, buyer.AvgResponseMinutes, 0.001)
}

func TestListMessages_ChronologicalPagesWithCursor(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	senders := []string{"A", "B", "A", "B", "A"}
	for i, s := range senders {
		f.clock.Advance(time.Minute)
		f.send(t, conv.ID, s, []string{"m1", "m2", "m3", "m4", "m5"}[i])
	}

	page, next, err := f.uc.ListMessages(ctx, "B", conv.ID, nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []string{"m3", "m4", "m5"}, texts(page))
	assert.Equal(t, []string{"A", "B", "A"}, []string{page[0].SenderID, page[1].SenderID, page[2].SenderID})
	require.NotNil(t, next)
	assert.Equal(t, page[0].CreatedAt, *next)

	older, next, err := f.uc.ListMessages(ctx, "B", conv.ID, next, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, texts(older))
	assert.Nil(t, next)

	_, _, err = f.uc.ListMessages(ctx, "C", conv.ID, nil, 3)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func texts(messages []*entity.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Text)
	}
	return out
}

func TestSubscribeMessages_DeliversChronological(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		f.clock.Advance(time.Second)
		f.send(t, conv.ID, "A", text)
	}

	got := make(chan []*entity.Message, 1)
	unsubscribe := f.uc.SubscribeMessages(ctx, conv.ID, 2, func(messages []*entity.Message) {
		got <- messages
	})
	defer unsubscribe()

	select {
	case messages := <-got:
		assert.Equal(t, []string{"two", "three"}, texts(messages))
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestMarkAsRead_ResetsCounterAndFlagsMessages(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)
	f.send(t, conv.ID, "A", "one")
	f.send(t, conv.ID, "A", "two")

	require.NoError(t, f.uc.MarkAsRead(ctx, "B", conv.ID))

	got, _ := f.convs.GetByID(ctx, conv.ID)
	assert.Equal(t, 0, got.UnreadFor("B"))
	assert.Equal(t, f.clock.Now(), got.LastReadAt["B"])
	for _, m := range f.convs.messages[conv.ID] {
		assert.True(t, m.Read)
	}
}

func TestTranslateMessage_CachesResult(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)
	msg := f.send(t, conv.ID, "A", "hello")

	tr, err := f.uc.TranslateMessage(ctx, "B", conv.ID, msg.ID, "ID")
	require.NoError(t, err)
	assert.Equal(t, "halo", tr.Text)

	tr, err = f.uc.TranslateMessage(ctx, "B", conv.ID, msg.ID, "id")
	require.NoError(t, err)
	assert.Equal(t, "halo", tr.Text)
	assert.Equal(t, 1, f.ai.translations)
}

func TestTranslateMessage_FailureIsRetryable(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()
	f.ai.err = assert.AnError

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)
	msg := f.send(t, conv.ID, "A", "hello")

	_, err = f.uc.TranslateMessage(ctx, "B", conv.ID, msg.ID, "id")
	assert.True(t, errors.Is(err, "AI_NO_RESULT"))
}

type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, error) {
	u.uploads = append(u.uploads, folder)
	return "https://storage/" + folder + "/img", nil
}

func (u *fakeUploader) DeleteFile(ctx context.Context, fileURL string) error { return nil }

func (u *fakeUploader) GenerateSignedUploadURL(ctx context.Context, fileType, folder string, isPublic bool) (string, error) {
	return "", nil
}

func (u *fakeUploader) Close() error { return nil }

func TestUploadImage_AllowsOnlyRasterImages(t *testing.T) {
	f := newConvFixture(t)
	uploader := &fakeUploader{}
	f.uc.uploader = uploader
	ctx := context.Background()

	conv, err := f.uc.StartConversation(ctx, "A", "L123")
	require.NoError(t, err)

	for _, contentType := range []string{"image/svg+xml", "image/gif", "text/html", ""} {
		_, err := f.uc.UploadImage(ctx, "A", conv.ID, strings.NewReader("<svg/>"), contentType)
		assert.True(t, errors.Is(err, "BAD_REQUEST"), contentType)
	}
	assert.Empty(t, uploader.uploads)

	url, err := f.uc.UploadImage(ctx, "A", conv.ID, strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://storage/chat/"+conv.ID+"/img", url)

	_, err = f.uc.UploadImage(ctx, "C", conv.ID, strings.NewReader("png"), "image/png")
	assert.Error(t, err)
	assert.Len(t, uploader.uploads, 1)
}
