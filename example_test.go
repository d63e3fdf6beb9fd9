package mediator_test

import (
	"context"
	"fmt"
	"iter"

	"github.com/bjaus/mediator"
)

// GetUserQuery asks for a single user by ID.
type GetUserQuery struct {
	mediator.Query
	UserID string
}

// User is the query response.
type User struct {
	ID   string
	Name string
}

// GetUserHandler resolves users from an in-memory map.
type GetUserHandler struct {
	users map[string]string
}

func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*User, error) {
	name, ok := h.users[q.UserID]
	if !ok {
		return nil, fmt.Errorf("user %s not found", q.UserID)
	}
	return &User{ID: q.UserID, Name: name}, nil
}

func Example() {
	reg := mediator.NewRegistry()
	mediator.RegisterHandler(reg, &GetUserHandler{
		users: map[string]string{"42": "Ada"},
	})

	m := mediator.New(reg)

	user, err := mediator.Send[*User](context.Background(), m, GetUserQuery{UserID: "42"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(user.Name)

	// Output:
	// Ada
}

func Example_handlerFunc() {
	reg := mediator.NewRegistry()

	// Register with a function instead of a struct
	mediator.RegisterHandlerFunc(reg, func(ctx context.Context, q struct{ A, B int }) (int, error) {
		return q.A + q.B, nil
	})

	m := mediator.New(reg)
	sum, _ := mediator.Send[int](context.Background(), m, struct{ A, B int }{A: 2, B: 3})
	fmt.Println("Sum:", sum)

	// Output:
	// Sum: 5
}

func Example_middleware() {
	reg := mediator.NewRegistry()
	mediator.RegisterHandlerFunc(reg, func(ctx context.Context, q struct{ Name string }) (string, error) {
		return "Hello, " + q.Name, nil
	})

	m := mediator.New(reg)

	// Lower order runs first (outermost)
	m.Use(mediator.MiddlewareFunc(func(ctx context.Context, request any, next mediator.Next) (any, error) {
		fmt.Println("outer: before")
		response, err := next(ctx)
		fmt.Println("outer: after")
		return response, err
	}), mediator.WithOrder(1))

	m.Use(mediator.MiddlewareFunc(func(ctx context.Context, request any, next mediator.Next) (any, error) {
		fmt.Println("inner: before")
		response, err := next(ctx)
		fmt.Println("inner: after")
		return response, err
	}), mediator.WithOrder(2))

	greeting, _ := mediator.Send[string](context.Background(), m, struct{ Name string }{Name: "World"})
	fmt.Println(greeting)

	// Output:
	// outer: before
	// inner: before
	// inner: after
	// outer: after
	// Hello, World
}

func Example_notifications() {
	type OrderShipped struct {
		OrderID string
	}

	reg := mediator.NewRegistry()
	mediator.RegisterNotificationHandlerFunc(reg, func(ctx context.Context, n OrderShipped) error {
		fmt.Println("email: order", n.OrderID, "shipped")
		return nil
	})

	m := mediator.New(reg)

	// Subscribers join at runtime alongside registry handlers
	mediator.Subscribe(m, mediator.NotificationHandlerFunc[OrderShipped](func(ctx context.Context, n OrderShipped) error {
		fmt.Println("audit: order", n.OrderID, "shipped")
		return nil
	}))

	_ = m.Publish(context.Background(), OrderShipped{OrderID: "A-1"})

	// Output:
	// email: order A-1 shipped
	// audit: order A-1 shipped
}

func Example_streaming() {
	type CountQuery struct {
		Limit int
	}

	reg := mediator.NewRegistry()
	mediator.RegisterStreamHandlerFunc(reg, func(ctx context.Context, q CountQuery) iter.Seq2[int, error] {
		return func(yield func(int, error) bool) {
			for i := 1; i <= q.Limit; i++ {
				if !yield(i, nil) {
					return
				}
			}
		}
	})

	m := mediator.New(reg)
	for n, err := range mediator.SendStream[int](context.Background(), m, CountQuery{Limit: 3}) {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(n)
	}

	// Output:
	// 1
	// 2
	// 3
}

func Example_stats() {
	type ListOrdersQuery struct{}
	type ShipOrderCommand struct{}

	reg := mediator.NewRegistry()
	mediator.RegisterHandlerFunc(reg, func(ctx context.Context, q ListOrdersQuery) ([]string, error) {
		return nil, nil
	})
	mediator.RegisterHandlerFunc(reg, func(ctx context.Context, c ShipOrderCommand) (string, error) {
		return "shipped", nil
	})

	m := mediator.New(reg)

	_, _ = m.Send(context.Background(), ListOrdersQuery{})
	_, _ = m.Send(context.Background(), ListOrdersQuery{})
	_, _ = m.Send(context.Background(), ShipOrderCommand{})

	fmt.Println("queries:", m.Stats().QueryCount())
	fmt.Println("commands:", m.Stats().CommandCount())

	// Output:
	// queries: 1
	// commands: 1
}
