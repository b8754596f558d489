package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/firebase"
	"marketly/pkg/errors"
)

// In-memory doubles of the repository and service interfaces.

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	snapshots     chan []*entity.Conversation
	upserts       int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
		snapshots:     make(chan []*entity.Conversation, 8),
	}
}

func copyConversation(c *entity.Conversation) *entity.Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.UnreadCount = make(map[string]int, len(c.UnreadCount))
	for k, v := range c.UnreadCount {
		cp.UnreadCount[k] = v
	}
	cp.LastReadAt = make(map[string]time.Time, len(c.LastReadAt))
	for k, v := range c.LastReadAt {
		cp.LastReadAt[k] = v
	}
	return &cp
}

func (r *fakeConversationRepo) Upsert(ctx context.Context, c *entity.Conversation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++

	if existing, ok := r.conversations[c.ID]; ok {
		existing.Participants = append([]string(nil), c.Participants...)
		existing.BuyerID = c.BuyerID
		existing.SellerID = c.SellerID
		existing.ListingID = c.ListingID
		existing.ListingTitle = c.ListingTitle
		existing.ListingPhoto = c.ListingPhoto
		return false, nil
	}
	r.conversations[c.ID] = copyConversation(c)
	return true, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return copyConversation(c), nil
}

func (r *fakeConversationRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, copyConversation(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeConversationRepo) ApplyMessageSummary(ctx context.Context, id string, s repository.MessageSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	c.LastMessage = s.Text
	c.LastMessageAt = s.At
	c.LastSenderID = s.SenderID
	if c.UnreadCount == nil {
		c.UnreadCount = map[string]int{}
	}
	if c.LastReadAt == nil {
		c.LastReadAt = map[string]time.Time{}
	}
	c.UnreadCount[s.SenderID] = 0
	c.UnreadCount[s.RecipientID]++
	c.LastReadAt[s.SenderID] = s.At
	c.UpdatedAt = s.At
	return nil
}

func (r *fakeConversationRepo) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	c.UnreadCount[userID] = 0
	if c.LastReadAt == nil {
		c.LastReadAt = map[string]time.Time{}
	}
	c.LastReadAt[userID] = at
	return nil
}

func (r *fakeConversationRepo) WatchByUserID(ctx context.Context, userID string, fn func([]*entity.Conversation) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-r.snapshots:
			if err := fn(snap); err != nil {
				return err
			}
		}
	}
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *m
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], &cp)
	return nil
}

func (r *fakeConversationRepo) GetMessage(ctx context.Context, convID, msgID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[convID] {
		if m.ID == msgID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeConversationRepo) newestFirst(convID string) []*entity.Message {
	all := make([]*entity.Message, 0, len(r.messages[convID]))
	for _, m := range r.messages[convID] {
		cp := *m
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, convID string, before *time.Time, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Message
	for _, m := range r.newestFirst(convID) {
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) MarkMessagesRead(ctx context.Context, convID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.messages[convID] {
		if !m.Read && m.SenderID != readerID {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *fakeConversationRepo) SetTranslation(ctx context.Context, convID, msgID, lang string, t entity.Translation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[convID] {
		if m.ID == msgID {
			if m.Translations == nil {
				m.Translations = map[string]entity.Translation{}
			}
			m.Translations[lang] = t
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *fakeConversationRepo) WatchRecentMessages(ctx context.Context, convID string, limit int, fn func([]*entity.Message) error) error {
	r.mu.Lock()
	msgs := r.newestFirst(convID)
	r.mu.Unlock()

	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	if err := fn(msgs); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[string]*entity.Listing
	views    map[string]int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[string]*entity.Listing),
		views:    make(map[string]int),
	}
}

func copyListing(l *entity.Listing) *entity.Listing {
	cp := *l
	if l.OldPrice != nil {
		v := *l.OldPrice
		cp.OldPrice = &v
	}
	if l.HotUntil != nil {
		v := *l.HotUntil
		cp.HotUntil = &v
	}
	return &cp
}

func (r *fakeListingRepo) put(l *entity.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.TitleLower = strings.ToLower(l.Title)
	r.listings[l.ID] = copyListing(l)
}

func (r *fakeListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	r.put(l)
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return copyListing(l), nil
}

func (r *fakeListingRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[string]*entity.Listing{}
	for _, id := range ids {
		if l, ok := r.listings[id]; ok {
			out[id] = copyListing(l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, l *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.listings[l.ID]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	updated := copyListing(l)
	updated.LikeCount = stored.LikeCount
	updated.ViewCount = stored.ViewCount
	updated.HotUntil = stored.HotUntil
	updated.TitleLower = strings.ToLower(l.Title)
	r.listings[l.ID] = updated
	return nil
}

func (r *fakeListingRepo) SetStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	l.Status = status
	return nil
}

func (r *fakeListingRepo) SetHotUntil(ctx context.Context, id string, until *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	l.HotUntil = until
	return nil
}

func (r *fakeListingRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.listings[id]; ok {
		l.ViewCount++
	}
	return nil
}

func (r *fakeListingRepo) sorted(keep func(*entity.Listing) bool) []*entity.Listing {
	var out []*entity.Listing
	for _, l := range r.listings {
		if keep(l) {
			out = append(out, copyListing(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeListingRepo) ListRecent(ctx context.Context, before *time.Time, limit int) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.sorted(func(l *entity.Listing) bool {
		return l.Status == entity.ListingStatusActive && (before == nil || l.CreatedAt.Before(*before))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.sorted(func(l *entity.Listing) bool { return l.SellerID == sellerID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeListingRepo) SearchPrefix(ctx context.Context, prefix string, limit int) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := r.sorted(func(l *entity.Listing) bool {
		return l.Status == entity.ListingStatusActive && strings.HasPrefix(l.TitleLower, prefix)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].TitleLower < out[j].TitleLower })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeWishlistRepo struct {
	mu       sync.Mutex
	entries  map[string]*entity.WishlistItem
	listings *fakeListingRepo
}

func newFakeWishlistRepo(listings *fakeListingRepo) *fakeWishlistRepo {
	return &fakeWishlistRepo{
		entries:  make(map[string]*entity.WishlistItem),
		listings: listings,
	}
}

func (r *fakeWishlistRepo) add(userID, listingID string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := entity.WishlistID(userID, listingID)
	r.entries[id] = &entity.WishlistItem{ID: id, UserID: userID, ListingID: listingID, CreatedAt: at}
}

func (r *fakeWishlistRepo) Toggle(ctx context.Context, userID, listingID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listings.mu.Lock()
	defer r.listings.mu.Unlock()
	listing, ok := r.listings.listings[listingID]
	if !ok {
		return false, errors.NotFound("Listing", nil)
	}

	id := entity.WishlistID(userID, listingID)
	if _, exists := r.entries[id]; exists {
		delete(r.entries, id)
		listing.LikeCount--
		return false, nil
	}
	r.entries[id] = &entity.WishlistItem{ID: id, UserID: userID, ListingID: listingID, CreatedAt: now}
	listing.LikeCount++
	return true, nil
}

func (r *fakeWishlistRepo) IsInWishlist(ctx context.Context, userID, listingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[entity.WishlistID(userID, listingID)]
	return ok, nil
}

func (r *fakeWishlistRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.WishlistItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []*entity.WishlistItem
	for _, e := range r.entries {
		if e.UserID == userID {
			cp := *e
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.WishlistItem{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeWishlistRepo) CountSince(ctx context.Context, listingID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if e.ListingID == listingID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeWishlistRepo) ListUserIDsByListing(ctx context.Context, listingID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for _, e := range r.entries {
		if e.ListingID == listingID {
			ids = append(ids, e.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) get(id string) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (r *fakeUserRepo) CreateIfAbsent(ctx context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[u.ID]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u := r.get(id); u != nil {
		return u, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) with(id string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	fn(u)
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.with(user.ID, func(u *entity.User) {
		u.DisplayName = user.DisplayName
		u.PhotoURL = user.PhotoURL
		u.Bio = user.Bio
		u.Location = user.Location
	})
}

func (r *fakeUserRepo) SetPushToken(ctx context.Context, id, token string) error {
	return r.with(id, func(u *entity.User) { u.PushToken = token })
}

func (r *fakeUserRepo) SetKeywords(ctx context.Context, id string, keywords []string) error {
	return r.with(id, func(u *entity.User) { u.Keywords = keywords })
}

func (r *fakeUserRepo) FindByAnyKeyword(ctx context.Context, keywords []string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := map[string]bool{}
	for _, k := range keywords {
		want[k] = true
	}

	var out []*entity.User
	for _, u := range r.users {
		for _, k := range u.Keywords {
			if want[k] {
				cp := *u
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) RecordResponseTime(ctx context.Context, id string, minutes float64) error {
	return r.with(id, func(u *entity.User) { u.AddResponseTime(minutes) })
}

func (r *fakeUserRepo) IncrementListingsSold(ctx context.Context, id string) error {
	return r.with(id, func(u *entity.User) { u.ListingsSold++ })
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*entity.Review
	users   *fakeUserRepo
}

func newFakeReviewRepo(users *fakeUserRepo) *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*entity.Review), users: users}
}

func (r *fakeReviewRepo) CreateWithRating(ctx context.Context, review *entity.Review) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; ok {
		return nil, errors.Conflict("You have already reviewed this conversation")
	}

	var target *entity.User
	err := r.users.with(review.TargetID, func(u *entity.User) {
		u.AddRating(review.Rating)
		cp := *u
		target = &cp
	})
	if err != nil {
		return nil, err
	}

	cp := *review
	r.reviews[review.ID] = &cp
	return target, nil
}

func (r *fakeReviewRepo) ListByTarget(ctx context.Context, targetID string, limit int) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Review
	for _, rv := range r.reviews {
		if rv.TargetID == targetID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	snapshots     chan repository.NotificationSnapshot
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{snapshots: make(chan repository.NotificationSnapshot, 8)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if n.ID == "" {
		n.ID = fmt.Sprintf("n%d", r.seq)
	}
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) forUser(userID, kind string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (kind == "" || n.Type == kind) {
			out = append(out, n)
		}
	}
	return out
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	return r.forUser(userID, ""), nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) WatchUnread(ctx context.Context, userID string, fn func(repository.NotificationSnapshot) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-r.snapshots:
			if err := fn(snap); err != nil {
				return err
			}
		}
	}
}

type fakeSearchLogRepo struct {
	mu   sync.Mutex
	logs []*entity.SearchLog
}

func (r *fakeSearchLogRepo) Create(ctx context.Context, log *entity.SearchLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

type fakePush struct {
	mu   sync.Mutex
	sent map[string][]service.PushMessage
	err  error
}

func newFakePush() *fakePush {
	return &fakePush{sent: make(map[string][]service.PushMessage)}
}

func (p *fakePush) Send(ctx context.Context, token string, msg service.PushMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent[token] = append(p.sent[token], msg)
	return nil
}

type fakeAI struct {
	reply        string
	err          error
	translation  string
	translations int
}

func (a *fakeAI) GenerateFromImages(ctx context.Context, prompt string, images []service.ImageInput) (string, error) {
	return a.reply, a.err
}

func (a *fakeAI) Translate(ctx context.Context, text, lang string) (string, error) {
	a.translations++
	if a.err != nil {
		return "", a.err
	}
	return a.translation, nil
}

type fakeIndex struct {
	ids     []string
	err     error
	indexed map[string]bool
}

func (f *fakeIndex) IndexListing(ctx context.Context, l *entity.Listing) error {
	if f.indexed == nil {
		f.indexed = map[string]bool{}
	}
	f.indexed[l.ID] = true
	return nil
}

func (f *fakeIndex) RemoveListing(ctx context.Context, id string) error {
	if f.indexed != nil {
		delete(f.indexed, id)
	}
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	return f.ids, f.err
}

type publishedEvent struct {
	Target string
	Type   string
	Data   interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	user   []publishedEvent
	room   []publishedEvent
	notify chan publishedEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{notify: make(chan publishedEvent, 16)}
}

func (p *fakePublisher) Publish(userID, eventType string, data interface{}) {
	ev := publishedEvent{Target: userID, Type: eventType, Data: data}
	p.mu.Lock()
	p.user = append(p.user, ev)
	p.mu.Unlock()
	p.notify <- ev
}

func (p *fakePublisher) PublishToRoom(conversationID, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = append(p.room, publishedEvent{Target: conversationID, Type: eventType, Data: data})
}

type fakeAuth struct {
	users map[string]*firebase.AuthUser
}

func (a *fakeAuth) GetUser(ctx context.Context, uid string) (*firebase.AuthUser, error) {
	if u, ok := a.users[uid]; ok {
		return u, nil
	}
	return nil, errors.NotFound("Auth user", nil)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type allowAll struct{}

func (allowAll) Allow(string, string) (bool, time.Duration) { return true, 0 }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
