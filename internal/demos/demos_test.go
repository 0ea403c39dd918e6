package demos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/robo"
	"github.com/anggasct/robo/internal/demos"
)

func run(t *testing.T, d demos.Demo, events ...string) robo.Handle {
	t.Helper()

	h := d.Start(nil)
	for _, ev := range events {
		require.NoError(t, demos.Dispatch(h, demos.ParseEvent(ev)))
		h.Wait()
	}
	return h
}

func TestAll(t *testing.T) {
	var names []string
	for _, d := range demos.All() {
		names = append(names, d.Name())
		assert.NotEmpty(t, d.Description())
		assert.NotEmpty(t, d.Script())
		assert.NotEmpty(t, d.Describe().States)
	}
	assert.Equal(t, []string{"checkout", "counter", "login", "stoplight", "users"}, names)
}

func TestLookup(t *testing.T) {
	d, err := demos.Lookup("login")
	require.NoError(t, err)
	assert.Equal(t, "login", d.Name())

	_, err = demos.Lookup("nope")
	assert.Error(t, err)
}

func TestParseEvent(t *testing.T) {
	assert.Equal(t, "next", demos.ParseEvent("next"))

	msg, ok := demos.ParseEvent("login=alice").(robo.Message)
	require.True(t, ok)
	assert.Equal(t, "login", msg.EventType())
	assert.Equal(t, "alice", msg.Data)
}

func TestStoplight(t *testing.T) {
	d := demos.Stoplight()
	h := run(t, d, d.Script()...)

	assert.Equal(t, "red", h.Current())
	assert.Equal(t, 1, h.ContextValue())
}

func TestCounter(t *testing.T) {
	d := demos.Counter()
	h := run(t, d, d.Script()...)

	assert.Equal(t, demos.CounterContext{Count: 0, Max: 10}, h.ContextValue())

	h = run(t, d, "inc", "inc", "inc")
	assert.Equal(t, 3, h.ContextValue().(demos.CounterContext).Count)
}

func TestLogin(t *testing.T) {
	d := demos.Login()

	h := run(t, d, "submit")
	assert.Equal(t, "form", h.Current())
	assert.Equal(t, "login and password are required", h.ContextValue().(demos.Credentials).Error)

	h = run(t, d, d.Script()...)
	assert.Equal(t, "complete", h.Current())
	assert.Equal(t, demos.Credentials{Login: "alice", Password: "secret"}, h.ContextValue())
}

func TestUsers(t *testing.T) {
	d := demos.Users()

	h := run(t, d, "fetch")
	assert.Equal(t, "failed", h.Current())
	assert.Equal(t, "service unavailable", h.ContextValue().(demos.UsersContext).Err)

	require.NoError(t, h.Send("retry"))
	h.Wait()
	assert.Equal(t, "loaded", h.Current())

	c := h.ContextValue().(demos.UsersContext)
	assert.Len(t, c.Users, 3)
	assert.Equal(t, 2, c.Attempts)
	assert.Empty(t, c.Err)
}

func TestCheckout(t *testing.T) {
	d := demos.Checkout()

	var changes int
	h := d.Start(func(robo.Handle) { changes++ })
	for _, ev := range []string{"add", "add", "checkout"} {
		require.NoError(t, demos.Dispatch(h, ev))
	}
	assert.Equal(t, "paying > pending", demos.Path(h))

	require.NoError(t, demos.Dispatch(h, "authorize"))
	h.Wait()

	assert.Equal(t, "confirmed", demos.Path(h))
	assert.Equal(t, demos.Order{Items: 2, Amount: 5000, Paid: true}, h.ContextValue())
	assert.Positive(t, changes)
}

func TestCheckout_DeclinedPaymentReturnsToCart(t *testing.T) {
	d := demos.Checkout()
	h := run(t, d, "add", "add", "add", "add", "add", "checkout", "authorize")

	assert.Equal(t, "paying > declined", demos.Path(h))

	require.NoError(t, demos.Dispatch(h, "cancel"))
	assert.Equal(t, "cart", demos.Path(h))
	assert.False(t, h.ContextValue().(demos.Order).Paid)
}

func TestCheckout_AbandonSupersedesPayment(t *testing.T) {
	d := demos.Checkout()
	h := run(t, d, "add", "checkout")

	payment := h.Child()
	require.NotNil(t, payment)

	require.NoError(t, demos.Dispatch(h, "abandon"))
	assert.Equal(t, "cart", demos.Path(h))

	require.NoError(t, payment.Send("authorize"))
	h.Wait()
	assert.Equal(t, "approved", payment.Current())
	assert.Equal(t, "cart", h.Current())
}

func TestDispatch_UnhandledGoesToRoot(t *testing.T) {
	d := demos.Checkout()
	h := d.Start(nil, robo.WithStrict())

	err := demos.Dispatch(h, "bogus")
	assert.True(t, robo.IsUnmatchedEventError(err))
}
