package demos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anggasct/robo"
)

// Stoplight cycles red, green, yellow on "next" and counts full cycles.
func Stoplight() Demo {
	return &demo[int]{
		name:        "stoplight",
		description: "traffic light cycling on 'next'",
		script:      []string{"next", "next", "next"},
		machine: robo.MustCreateMachine("", robo.States(
			robo.Define("red", robo.State(robo.Transition[int]("next", "green"))),
			robo.Define("green", robo.State(robo.Transition[int]("next", "yellow"))),
			robo.Define("yellow", robo.State(
				robo.Transition("next", "red", robo.Reduce(func(cycles int, _ robo.Event) int {
					return cycles + 1
				})),
			)),
		), nil, robo.WithName("stoplight")),
	}
}

// CounterContext is the context of the counter demo.
type CounterContext struct {
	Count int
	Max   int
}

// Counter increments and decrements within [0, Max].
func Counter() Demo {
	inc := robo.Transition("inc", "idle",
		robo.Guard(func(c CounterContext, _ robo.Event) bool { return c.Count < c.Max }),
		robo.Reduce(func(c CounterContext, _ robo.Event) CounterContext {
			c.Count++
			return c
		}),
	)
	dec := robo.Transition("dec", "idle",
		robo.Guard(func(c CounterContext, _ robo.Event) bool { return c.Count > 0 }),
		robo.Reduce(func(c CounterContext, _ robo.Event) CounterContext {
			c.Count--
			return c
		}),
	)

	return &demo[CounterContext]{
		name:        "counter",
		description: "bounded counter with guarded 'inc' and 'dec'",
		script:      []string{"inc", "inc", "dec", "dec", "dec"},
		machine: robo.MustCreateMachine("", robo.States(
			robo.Define("idle", robo.State(inc, dec)),
		), func(any, robo.Event) CounterContext {
			return CounterContext{Max: 10}
		}, robo.WithName("counter")),
	}
}

// Credentials is the context of the login demo.
type Credentials struct {
	Login    string
	Password string
	Error    string
}

// Login is a form that validates through immediates when submitted.
func Login() Demo {
	set := func(field string) robo.Modifier[Credentials] {
		return robo.Reduce(func(c Credentials, ev robo.Event) Credentials {
			v, _ := robo.DataOf(ev).(string)
			switch field {
			case "login":
				c.Login = v
			case "password":
				c.Password = v
			}
			return c
		})
	}
	canSubmit := robo.Guard(func(c Credentials, _ robo.Event) bool {
		return c.Login != "" && c.Password != ""
	})
	hasError := robo.Guard(func(c Credentials, _ robo.Event) bool { return c.Error != "" })

	return &demo[Credentials]{
		name:        "login",
		description: "login form validated by immediate transitions",
		script:      []string{"submit", "login=alice", "password=secret", "submit"},
		machine: robo.MustCreateMachine("", robo.States(
			robo.Define("form", robo.State(
				robo.Transition("login", "input", set("login")),
				robo.Transition("password", "input", set("password")),
				robo.Transition[Credentials]("submit", "validate"),
			)),
			robo.Define("input", robo.State(
				robo.Immediate("form", hasError, robo.Reduce(func(c Credentials, _ robo.Event) Credentials {
					c.Error = ""
					return c
				})),
				robo.Immediate[Credentials]("form"),
			)),
			robo.Define("validate", robo.State(
				robo.Immediate("complete", canSubmit),
				robo.Immediate("form", robo.Reduce(func(c Credentials, _ robo.Event) Credentials {
					c.Error = "login and password are required"
					return c
				})),
			)),
			robo.Define("complete", robo.Final[Credentials]()),
		), nil, robo.WithName("login")),
	}
}

// User is one record loaded by the users demo.
type User struct {
	ID   int
	Name string
}

// UsersContext is the context of the users demo.
type UsersContext struct {
	Users    []User
	Attempts int
	Err      string
}

// LoadUsers simulates a remote call. The first attempt fails.
func LoadUsers(ctx context.Context, c UsersContext, _ robo.Event) ([]User, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(20 * time.Millisecond):
	}
	if c.Attempts < 2 {
		return nil, errors.New("service unavailable")
	}
	return []User{{1, "Wilbur"}, {2, "Matthew"}, {3, "Anne"}}, nil
}

// Users fetches a list through an invoked task, with a retry on failure.
func Users() Demo {
	attempt := robo.Reduce(func(c UsersContext, _ robo.Event) UsersContext {
		c.Attempts++
		return c
	})

	return &demo[UsersContext]{
		name:        "users",
		description: "task invocation with error route and retry",
		script:      []string{"fetch", "retry"},
		machine: robo.MustCreateMachine("", robo.States(
			robo.Define("idle", robo.State(robo.Transition("fetch", "loading", attempt))),
			robo.Define("loading", robo.Invoke(LoadUsers,
				robo.Transition("done", "loaded", robo.Reduce(func(c UsersContext, ev robo.Event) UsersContext {
					c.Users, _ = robo.DataOf(ev).([]User)
					c.Err = ""
					return c
				})),
				robo.Transition("error", "failed", robo.Reduce(func(c UsersContext, ev robo.Event) UsersContext {
					c.Err = fmt.Sprint(robo.ErrorOf(ev))
					return c
				})),
			)),
			robo.Define("failed", robo.State(robo.Transition("retry", "loading", attempt))),
			robo.Define("loaded", robo.Final[UsersContext]()),
		), nil, robo.WithName("users")),
	}
}

// Order is the context of the checkout demo.
type Order struct {
	Items  int
	Amount int
	Paid   bool
}

// Payment is the context of the payment machine invoked by checkout.
type Payment struct {
	Amount   int
	Attempts int
	Approved bool
}

// PaymentLimit is the largest amount the simulated processor approves.
const PaymentLimit = 10000

func authorize(ctx context.Context, p Payment, _ robo.Event) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}
	if p.Amount > PaymentLimit {
		return "", fmt.Errorf("amount %d exceeds limit %d", p.Amount, PaymentLimit)
	}
	return fmt.Sprintf("auth-%d", p.Attempts), nil
}

// PaymentMachine authorizes an amount taken from the parent Order.
func PaymentMachine() *robo.Machine[Payment] {
	attempt := robo.Reduce(func(p Payment, _ robo.Event) Payment {
		p.Attempts++
		return p
	})

	return robo.MustCreateMachine("", robo.States(
		robo.Define("pending", robo.State(robo.Transition("authorize", "authorizing", attempt))),
		robo.Define("authorizing", robo.Invoke(authorize,
			robo.Transition("done", "approved", robo.Reduce(func(p Payment, _ robo.Event) Payment {
				p.Approved = true
				return p
			})),
			robo.Transition[Payment]("error", "declined"),
		)),
		robo.Define("declined", robo.State(
			robo.Transition("retry", "authorizing", attempt),
			robo.Transition[Payment]("cancel", "cancelled"),
		)),
		robo.Define("approved", robo.Final[Payment]()),
		robo.Define("cancelled", robo.Final[Payment]()),
	), func(seed any, _ robo.Event) Payment {
		order, _ := seed.(Order)
		return Payment{Amount: order.Amount}
	}, robo.WithName("payment"))
}

// Checkout fills a cart and pays through a nested payment machine.
func Checkout() Demo {
	return &demo[Order]{
		name:        "checkout",
		description: "cart paid through an invoked payment machine",
		script:      []string{"add", "add", "checkout", "authorize"},
		machine: robo.MustCreateMachine("", robo.States(
			robo.Define("cart", robo.State(
				robo.Transition("add", "cart", robo.Reduce(func(o Order, _ robo.Event) Order {
					o.Items++
					o.Amount += 2500
					return o
				})),
				robo.Transition("checkout", "paying", robo.Guard(func(o Order, _ robo.Event) bool {
					return o.Items > 0
				})),
			)),
			robo.Define("paying", robo.InvokeMachine(PaymentMachine(),
				robo.Transition("done", "settle", robo.Reduce(func(o Order, ev robo.Event) Order {
					p, _ := robo.DataOf(ev).(Payment)
					o.Paid = p.Approved
					return o
				})),
				robo.Transition[Order]("abandon", "cart"),
			)),
			robo.Define("settle", robo.State(
				robo.Immediate("confirmed", robo.Guard(func(o Order, _ robo.Event) bool { return o.Paid })),
				robo.Immediate[Order]("cart"),
			)),
			robo.Define("confirmed", robo.Final[Order]()),
		), nil, robo.WithName("checkout")),
	}
}
