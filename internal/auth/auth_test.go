package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities(t *testing.T) {
	admin := Principal{UserID: 1, Role: "admin"}
	cashier := Principal{UserID: 2, Role: "cashier"}
	staff := Principal{UserID: 3, Role: "staff"}
	unknown := Principal{UserID: 4, Role: "janitor"}

	for _, c := range []Capability{ViewDashboard, RecordSales, ManageProducts, ViewReports, ViewAudit, RegisterAdmins} {
		assert.True(t, admin.Can(c), c)
	}

	assert.True(t, cashier.Can(RecordSales))
	assert.True(t, cashier.Can(ManageCustomers))
	assert.False(t, cashier.Can(ManageProducts))
	assert.False(t, cashier.Can(ViewReports))

	assert.True(t, staff.Can(ViewDashboard))
	assert.False(t, staff.Can(RecordSales))

	assert.False(t, unknown.Can(ViewDashboard))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	want := Principal{UserID: 9, Username: "amina", Role: "cashier"}
	got, ok := FromContext(WithPrincipal(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret")
	want := Principal{UserID: 5, Username: "juma", Role: "admin"}

	signed, err := tokens.Issue(want)
	require.NoError(t, err)

	got, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokenRejections(t *testing.T) {
	tokens := NewTokens("secret")
	signed, err := tokens.Issue(Principal{UserID: 5, Role: "admin"})
	require.NoError(t, err)

	_, err = NewTokens("other").Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * TokenTTL) }
	old, err := expired.Issue(Principal{UserID: 5, Role: "admin"})
	require.NoError(t, err)
	_, err = tokens.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestSessionCookie(t *testing.T) {
	s := NewSessions("session-key")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, s.Save(rec, req, "tok"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	assert.Equal(t, "tok", s.Token(next))

	assert.Empty(t, s.Token(httptest.NewRequest(http.MethodGet, "/dashboard", nil)))
}
