package middleware

import (
	"context"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/bjaus/mediator"
)

// Validatable is the interface for self-validating requests. Requests
// that implement it are validated with their own Validate method
// instead of struct tags.
type Validatable interface {
	Validate() error
}

// Validation rejects invalid requests before they reach the handler.
// Requests implementing Validatable use their own Validate method;
// plain structs are checked against their `validate` tags. Non-struct
// requests are skipped via the conditional predicate.
type Validation struct {
	validate *validator.Validate
}

// NewValidation creates a validation stage with a fresh validator.
func NewValidation() *Validation {
	return &Validation{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// StaticOrder implements mediator.StaticOrderer.
func (*Validation) StaticOrder() int { return OrderValidation }

// ShouldExecute implements mediator.Conditional: only requests that can
// actually be validated pass through the stage.
func (*Validation) ShouldExecute(request any) bool {
	if _, ok := request.(Validatable); ok {
		return true
	}
	t := reflect.TypeOf(request)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// Execute implements mediator.Middleware. Validation failures are
// returned without invoking the rest of the pipeline.
func (v *Validation) Execute(ctx context.Context, request any, next mediator.Next) (any, error) {
	if err := v.check(ctx, request); err != nil {
		return nil, err
	}
	return next(ctx)
}

// ExecuteNotification implements mediator.NotificationMiddleware.
func (v *Validation) ExecuteNotification(ctx context.Context, notification any, next mediator.NotificationNext) error {
	if err := v.check(ctx, notification); err != nil {
		return err
	}
	return next(ctx)
}

func (v *Validation) check(ctx context.Context, request any) error {
	if validatable, ok := request.(Validatable); ok {
		return validatable.Validate()
	}
	return v.validate.StructCtx(ctx, request)
}
