package inquiry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/interfaces"
	"github.com/wrenlabs/slate/internal/models"
	"github.com/wrenlabs/slate/internal/storage/badgerdb"
)

// mailSpy records sends and can be told to fail.
type mailSpy struct {
	mu    sync.Mutex
	sends []spySend
	fail  bool
}

type spySend struct {
	to      string
	subject string
	html    string
}

func (m *mailSpy) Send(_ context.Context, _, to, subject, html string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("provider unavailable")
	}
	m.sends = append(m.sends, spySend{to: to, subject: subject, html: html})
	return "msg_spy", nil
}

func (m *mailSpy) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sends)
}

func (m *mailSpy) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sends {
		out = append(out, s.to)
	}
	return out
}

// failingStore wraps a real store and fails every Create.
type failingStore struct {
	interfaces.InquiryStore
	creates int
}

func (f *failingStore) Create(context.Context, *models.Inquiry) error {
	f.creates++
	return errors.New("store down")
}

func newTestStore(t *testing.T) interfaces.InquiryStore {
	t.Helper()
	m, err := badgerdb.NewManager(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m.InquiryStore()
}

func testNotifyConfig() *common.NotifyConfig {
	return &common.NotifyConfig{
		From:         "Slate <noreply@slate.agency>",
		AdminAddress: "hello@slate.agency",
	}
}

func TestSubmit_DefaultsApplied(t *testing.T) {
	store := newTestStore(t)
	spy := &mailSpy{}
	svc := NewService(store, spy, testNotifyConfig(), common.NewSilentLogger())
	ctx := context.Background()

	// Development inquiry with all optional fields omitted
	result, err := svc.Submit(ctx, models.InquiryVariantDevelopment, &Payload{
		Name:        "Ana",
		Email:       "ana@x.com",
		Company:     "Acme",
		ProjectType: "Website",
		Message:     "Hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "", result.Record.Phone)
	assert.Equal(t, models.DefaultBudget, result.Record.Budget)
	assert.False(t, result.Record.CreatedAt.IsZero())

	// SMM inquiry with all optional fields omitted
	result, err = svc.Submit(ctx, models.InquiryVariantSMM, &Payload{
		Name:  "Ben",
		Email: "ben@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "", result.Record.Phone)
	assert.Equal(t, "", result.Record.Goals)
	assert.Equal(t, "", result.Record.Message)
	require.NotNil(t, result.Record.Platforms)
	assert.Empty(t, result.Record.Platforms)

	// Persisted records carry the same defaults
	stored, err := store.Get(ctx, result.Record.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.Platforms)
}

func TestSubmit_MissingRequiredFieldWritesNothing(t *testing.T) {
	spy := &mailSpy{}
	failing := &failingStore{InquiryStore: newTestStore(t)}
	svc := NewService(failing, spy, testNotifyConfig(), common.NewSilentLogger())
	ctx := context.Background()

	cases := []struct {
		variant string
		payload *Payload
		field   string
	}{
		{models.InquiryVariantContact, &Payload{Email: "a@x.com", Company: "Acme", ProjectType: "Website", Message: "m"}, "name"},
		{models.InquiryVariantContact, &Payload{Name: "Ana", Company: "Acme", ProjectType: "Website", Message: "m"}, "email"},
		{models.InquiryVariantContact, &Payload{Name: "Ana", Email: "a@x.com", Company: "Acme", ProjectType: "Website"}, "message"},
		{models.InquiryVariantDevelopment, &Payload{Name: "Ana", Email: "a@x.com", ProjectType: "Website", Message: "m"}, "company"},
		{models.InquiryVariantDevelopment, &Payload{Name: "Ana", Email: "a@x.com", Company: "Acme", Message: "m"}, "projectType"},
		{models.InquiryVariantSMM, &Payload{Email: "a@x.com"}, "name"},
	}
	for _, tc := range cases {
		_, err := svc.Submit(ctx, tc.variant, tc.payload)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "%s/%s", tc.variant, tc.field)
		assert.Equal(t, tc.field, vErr.Field)
	}

	// Validation failures never reach the store or the mailer
	assert.Equal(t, 0, failing.creates)
	assert.Equal(t, 0, spy.count())
}

func TestSubmit_NotificationFailureStillSucceeds(t *testing.T) {
	store := newTestStore(t)
	spy := &mailSpy{fail: true}
	svc := NewService(store, spy, testNotifyConfig(), common.NewSilentLogger())

	result, err := svc.Submit(context.Background(), models.InquiryVariantContact, &Payload{
		Name: "Ana", Email: "ana@x.com", Company: "Acme", ProjectType: "Website", Message: "Hi",
	})
	require.NoError(t, err)
	assert.False(t, result.EmailsSent.Admin)
	assert.False(t, result.EmailsSent.User)

	// The record was still persisted
	stored, err := store.Get(context.Background(), result.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name)
}

func TestSubmit_StoreFailureSkipsNotifications(t *testing.T) {
	spy := &mailSpy{}
	failing := &failingStore{InquiryStore: newTestStore(t)}
	svc := NewService(failing, spy, testNotifyConfig(), common.NewSilentLogger())

	_, err := svc.Submit(context.Background(), models.InquiryVariantContact, &Payload{
		Name: "Ana", Email: "ana@x.com", Company: "Acme", ProjectType: "Website", Message: "Hi",
	})
	require.Error(t, err)
	assert.Equal(t, 1, failing.creates)
	assert.Equal(t, 0, spy.count(), "no notification may be attempted after a store failure")
}

func TestSubmit_BothNotificationsSent(t *testing.T) {
	store := newTestStore(t)
	spy := &mailSpy{}
	cfg := testNotifyConfig()
	svc := NewService(store, spy, cfg, common.NewSilentLogger())

	result, err := svc.Submit(context.Background(), models.InquiryVariantSMM, &Payload{
		Name:      "Cara",
		Email:     "cara@x.com",
		Platforms: []string{models.PlatformInstagram, models.PlatformTikTok},
	})
	require.NoError(t, err)
	assert.True(t, result.EmailsSent.Admin)
	assert.True(t, result.EmailsSent.User)

	require.Equal(t, 2, spy.count())
	assert.ElementsMatch(t, []string{cfg.AdminAddress, "cara@x.com"}, spy.recipients())
}

func TestSubmit_RedirectAllTo(t *testing.T) {
	store := newTestStore(t)
	spy := &mailSpy{}
	cfg := testNotifyConfig()
	cfg.RedirectAllTo = "qa@slate.agency"
	svc := NewService(store, spy, cfg, common.NewSilentLogger())

	_, err := svc.Submit(context.Background(), models.InquiryVariantContact, &Payload{
		Name: "Ana", Email: "ana@x.com", Company: "Acme", ProjectType: "Website", Message: "Hi",
	})
	require.NoError(t, err)

	spy.mu.Lock()
	defer spy.mu.Unlock()
	var userSend *spySend
	for i := range spy.sends {
		if spy.sends[i].to != cfg.AdminAddress {
			userSend = &spy.sends[i]
		}
	}
	require.NotNil(t, userSend, "user confirmation should have been sent")
	assert.Equal(t, "qa@slate.agency", userSend.to)
	assert.Contains(t, userSend.subject, "[intended for ana@x.com]")
}

func TestSubmit_UnknownPlatformRejected(t *testing.T) {
	spy := &mailSpy{}
	failing := &failingStore{InquiryStore: newTestStore(t)}
	svc := NewService(failing, spy, testNotifyConfig(), common.NewSilentLogger())

	_, err := svc.Submit(context.Background(), models.InquiryVariantSMM, &Payload{
		Name: "Ana", Email: "a@x.com", Platforms: []string{"myspace"},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "platforms", vErr.Field)
	assert.Equal(t, 0, failing.creates)
}

func TestRenderEmails(t *testing.T) {
	record := &models.Inquiry{
		ID:          "inq_test",
		Variant:     models.InquiryVariantDevelopment,
		Name:        "Ana <script>",
		Email:       "ana@x.com",
		Company:     "Acme",
		ProjectType: "Website",
		Budget:      models.DefaultBudget,
		Message:     "Hello there",
	}

	admin := renderAdminEmail(record)
	assert.Contains(t, admin, "Acme")
	assert.Contains(t, admin, models.DefaultBudget)
	assert.NotContains(t, admin, "<script>", "HTML in field values must be escaped")

	user := renderUserEmail(record)
	assert.Contains(t, user, "development inquiry")
	assert.True(t, strings.Contains(user, "Hello there"))
}
