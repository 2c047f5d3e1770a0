package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
	"github.com/Ananth-NQI/medeasy-backend/internal/storage"
)

type loggedMessage struct {
	session string
	sender  models.Sender
	text    string
}

type recordingLog struct {
	mu      sync.Mutex
	entries []loggedMessage
}

func (r *recordingLog) Record(sessionKey string, sender models.Sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, loggedMessage{sessionKey, sender, text})
}

func (r *recordingLog) all() []loggedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]loggedMessage(nil), r.entries...)
}

type fakeUploads struct {
	path string
	err  error
}

func (f *fakeUploads) CreateUploadTarget(ctx context.Context, path string) (string, error) {
	f.path = path
	if f.err != nil {
		return "", f.err
	}
	return "https://files.example/" + path + "?token=t", nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	phone *string
}

func (n *recordingNotifier) NotifyHandover(ctx context.Context, sessionKey string, phone *string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, sessionKey)
	n.phone = phone
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type routerFixture struct {
	router    *Router
	store     *storage.MemoryStore
	sessions  *SessionManager
	completer *stubCompleter
	uploads   *fakeUploads
	log       *recordingLog
	notifier  *recordingNotifier
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		store:     storage.NewMemoryStore(),
		sessions:  NewSessionManager(),
		completer: &stubCompleter{text: "Shop 9 baje khulti hai bhai"},
		uploads:   &fakeUploads{},
		log:       &recordingLog{},
		notifier:  &recordingNotifier{},
	}
	f.router = NewRouter(RouterDeps{
		Flow:       NewCollectionFlow(f.sessions, f.store),
		Policy:     NewEscalationPolicy(DefaultEscalationRules),
		Handovers:  f.store,
		Uploads:    f.uploads,
		Completion: NewCompletionFallback(f.completer, time.Second),
		Messages:   f.log,
		Notifier:   f.notifier,
	})
	return f
}

func TestParseIntent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, IntentWelcome, ParseIntent("Default Welcome Intent"))
	assert.Equal(t, IntentWelcome, ParseIntent("welcome"))
	assert.Equal(t, IntentStartOrdering, ParseIntent("start.ordering"))
	assert.Equal(t, IntentStartOrdering, ParseIntent("start-ordering"))
	assert.Equal(t, IntentPrescriptionUpload, ParseIntent("prescription.upload"))
	assert.Equal(t, IntentTalkToPharmacist, ParseIntent("talk.to.pharmacist"))
	assert.Equal(t, IntentDefault, ParseIntent("Default Fallback Intent"))
	assert.Equal(t, IntentDefault, ParseIntent("something.new"))
	assert.Equal(t, IntentDefault, ParseIntent(""))
	assert.Equal(t, "talk-to-pharmacist", IntentTalkToPharmacist.String())
}

func TestRouteWelcome(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()

	reply := f.router.Route(context.Background(), IntentWelcome, "s1", "hi")
	assert.Equal(t, []string{WelcomeText}, reply.Texts)
	assert.Equal(t, WelcomeSuggestions, reply.Suggestions)
	assert.Equal(t, 0, f.sessions.Count())

	entries := f.log.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.SenderBot, entries[0].sender)
}

func TestRouteCollectionEndToEnd(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	ctx := context.Background()

	reply := f.router.Route(ctx, IntentStartOrdering, "s1", "order")
	assert.Equal(t, AskPhoneText, reply.Text())

	for _, input := range []string{"03001234567", "Ali Khan", "skip", "skip"} {
		f.router.Route(ctx, IntentDefault, "s1", input)
	}

	p, err := f.store.GetProfileByPhone(ctx, "03001234567")
	require.NoError(t, err)
	assert.Equal(t, "Ali Khan", p.FullName)
	assert.Nil(t, p.Email)
	assert.Nil(t, p.Address)
	assert.Equal(t, "Karachi", p.City)
	assert.Equal(t, 0, f.sessions.Count())
	assert.Equal(t, 0, f.completer.calls)
}

func TestRouteSessionWinsOverEscalation(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Route(ctx, IntentStartOrdering, "s1", "")
	f.router.Route(ctx, IntentDefault, "s1", "03001234567")
	reply := f.router.Route(ctx, IntentDefault, "s1", "pharmacist")

	assert.Equal(t, NameSavedText("pharmacist"), reply.Text())
	_, err := f.store.GetHandoverFlag(ctx, "s1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0, f.notifier.count())
}

func TestRouteEscalationWithoutSession(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	ctx := context.Background()

	reply := f.router.Route(ctx, IntentDefault, "s1", "mujhe bohot pain ho raha hai")

	assert.Equal(t, HandoverText, reply.Text())
	assert.Equal(t, 0, f.completer.calls)

	flag, err := f.store.GetHandoverFlag(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, flag.NeedsHuman)
	assert.Nil(t, flag.Phone)

	assert.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRouteTalkToPharmacistUsesSessionPhone(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Route(ctx, IntentStartOrdering, "s1", "")
	f.router.Route(ctx, IntentDefault, "s1", "0333-123-4567")
	reply := f.router.Route(ctx, IntentTalkToPharmacist, "s1", "")

	assert.Equal(t, HandoverText, reply.Text())
	flag, err := f.store.GetHandoverFlag(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, flag.Phone)
	assert.Equal(t, "03331234567", *flag.Phone)

	// a second escalation overwrites the same flag
	f.router.Route(ctx, IntentTalkToPharmacist, "s1", "")
	pending, err := f.store.GetPendingHandovers(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRouteCompletionFailureStillReplies(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	f.completer.err = errors.New("upstream 500")

	reply := f.router.Route(context.Background(), IntentDefault, "s1", "shop kab khulti hai")
	assert.Equal(t, CompletionFailed, reply.Text())

	entries := f.log.all()
	require.Len(t, entries, 2)
	assert.Equal(t, loggedMessage{"s1", models.SenderUser, "shop kab khulti hai"}, entries[0])
	assert.Equal(t, loggedMessage{"s1", models.SenderBot, CompletionFailed}, entries[1])
}

func TestRouteUnknownIntentSkipsCompletion(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()

	reply := f.router.Route(context.Background(), Intent(99), "s1", "shop kab khulti hai")
	assert.Equal(t, CompletionFailed, reply.Text())
	assert.Equal(t, 0, f.completer.calls)

	entries := f.log.all()
	require.Len(t, entries, 1)
	assert.Equal(t, loggedMessage{"s1", models.SenderBot, CompletionFailed}, entries[0])
}

func TestRouteCompletion(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()

	reply := f.router.Route(context.Background(), IntentDefault, "s1", "shop kab khulti hai")
	assert.Equal(t, "Shop 9 baje khulti hai bhai", reply.Text())
	assert.Equal(t, 1, f.completer.calls)
}

func TestRoutePrescriptionUpload(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()

	reply := f.router.Route(context.Background(), IntentPrescriptionUpload, "s1", "")
	assert.True(t, strings.HasPrefix(f.uploads.path, "s1/"))
	assert.True(t, strings.HasSuffix(f.uploads.path, ".jpg"))
	assert.Contains(t, reply.Text(), "https://files.example/"+f.uploads.path)

	f.uploads.err = errors.New("bucket missing")
	reply = f.router.Route(context.Background(), IntentPrescriptionUpload, "s1", "")
	assert.Equal(t, UploadFailedText, reply.Text())
}

func TestRouteStartOrderingRestarts(t *testing.T) {
	t.Parallel()
	f := newRouterFixture()
	ctx := context.Background()

	f.router.Route(ctx, IntentStartOrdering, "s1", "")
	f.router.Route(ctx, IntentDefault, "s1", "03001234567")
	f.router.Route(ctx, IntentStartOrdering, "s1", "")

	reply := f.router.Route(ctx, IntentDefault, "s1", "Ali")
	assert.Equal(t, InvalidPhoneText, reply.Text())
}
