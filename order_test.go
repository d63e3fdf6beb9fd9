package mediator

import (
	"context"
	"reflect"
	"testing"
)

// staticOrdered declares a type-level order.
type staticOrdered struct {
	order int // ignored: StaticOrder must not depend on instance state
}

func (*staticOrdered) StaticOrder() int { return 42 }

func (*staticOrdered) Execute(ctx context.Context, request any, next Next) (any, error) {
	return next(ctx)
}

// instanceOrdered declares an instance-level order.
type instanceOrdered struct {
	order int
}

func (m *instanceOrdered) Order() int { return m.order }

func (*instanceOrdered) Execute(ctx context.Context, request any, next Next) (any, error) {
	return next(ctx)
}

// plain has no order declaration at all.
type plain struct{}

func (*plain) Execute(ctx context.Context, request any, next Next) (any, error) {
	return next(ctx)
}

// bothOrdered exposes static and instance orders; static must win.
type bothOrdered struct {
	order int
}

func (*bothOrdered) StaticOrder() int { return 7 }
func (m *bothOrdered) Order() int { return m.order }
func (*bothOrdered) Execute(ctx context.Context, request any, next Next) (any, error) {
	return next(ctx)
}

func TestOrderResolution(t *testing.T) {
	t.Run("static order wins regardless of instance state", func(t *testing.T) {
		p := newPipeline()
		p.Use(&staticOrdered{order: 999})

		infos := p.DetailedInfo(nil)
		if got := infos[0].Order; got != 42 {
			t.Fatalf("order = %d, want 42", got)
		}
	})

	t.Run("static order beats instance order", func(t *testing.T) {
		p := newPipeline()
		p.Use(&bothOrdered{order: 1000})

		infos := p.DetailedInfo(NewRegistry())
		if got := infos[0].Order; got != 7 {
			t.Fatalf("order = %d, want 7", got)
		}
	})

	t.Run("declared order beats instance order", func(t *testing.T) {
		p := newPipeline()
		p.Use(&instanceOrdered{order: 500}, WithOrder(3))

		infos := p.DetailedInfo(NewRegistry())
		if got := infos[0].Order; got != 3 {
			t.Fatalf("order = %d, want 3", got)
		}
	})

	t.Run("non-zero instance order used at resolution time", func(t *testing.T) {
		p := newPipeline()
		mw := &instanceOrdered{order: 11}
		p.Use(mw)

		infos := p.DetailedInfo(NewRegistry())
		if got := infos[0].Order; got != 11 {
			t.Fatalf("order = %d, want 11", got)
		}
	})

	t.Run("zero instance order treated as unset", func(t *testing.T) {
		p := newPipeline()
		p.Use(&instanceOrdered{order: 0})

		infos := p.DetailedInfo(NewRegistry())
		if got := infos[0].Order; got != 1 {
			t.Fatalf("order = %d, want fallback 1", got)
		}
	})

	t.Run("fallback counter is monotonic per pipeline", func(t *testing.T) {
		p := newPipeline()
		p.Use(&plain{})
		p.Use(&staticOrdered{})
		p.Use(&instanceOrdered{order: 0})

		infos := p.DetailedInfo(nil)
		if got := infos[0].Order; got != 1 {
			t.Fatalf("first fallback = %d, want 1", got)
		}
		if got := infos[2].Order; got != 2 {
			t.Fatalf("second fallback = %d, want 2", got)
		}
	})

	t.Run("separate pipelines have separate fallback counters", func(t *testing.T) {
		p1 := newPipeline()
		p2 := newPipeline()
		p1.Use(&plain{})
		p2.Use(&plain{})

		if got := p1.DetailedInfo(nil)[0].Order; got != 1 {
			t.Fatalf("p1 fallback = %d, want 1", got)
		}
		if got := p2.DetailedInfo(nil)[0].Order; got != 1 {
			t.Fatalf("p2 fallback = %d, want 1", got)
		}
	})
}

func TestDetailedInfo(t *testing.T) {
	t.Run("without resolver reports cached orders", func(t *testing.T) {
		p := newPipeline()
		p.Use(&instanceOrdered{order: 25})

		// The instance tier needs a resolver; the cached value is the
		// fallback.
		infos := p.DetailedInfo(nil)
		if got := infos[0].Order; got != 1 {
			t.Fatalf("cached order = %d, want fallback 1", got)
		}
	})

	t.Run("resolver-built instance overrides cached order", func(t *testing.T) {
		p := newPipeline()
		p.Use(&instanceOrdered{order: 0})

		reg := NewRegistry()
		reg.Provide(reflect.TypeOf(&instanceOrdered{}), &instanceOrdered{order: 33})

		infos := p.DetailedInfo(reg)
		if got := infos[0].Order; got != 33 {
			t.Fatalf("order = %d, want 33 from resolver instance", got)
		}
	})

	t.Run("reports configuration verbatim", func(t *testing.T) {
		type config struct{ Threshold int }
		p := newPipeline()
		p.Use(&plain{}, WithConfig(config{Threshold: 9}))

		infos := p.DetailedInfo(nil)
		cfg, ok := infos[0].Config.(config)
		if !ok || cfg.Threshold != 9 {
			t.Fatalf("config = %#v, want {Threshold:9}", infos[0].Config)
		}
	})

	t.Run("registered returns types in registration order", func(t *testing.T) {
		p := newPipeline()
		p.Use(&plain{})
		p.Use(&staticOrdered{})

		types := p.Registered()
		if len(types) != 2 {
			t.Fatalf("len = %d, want 2", len(types))
		}
		if types[0] != reflect.TypeOf(&plain{}) || types[1] != reflect.TypeOf(&staticOrdered{}) {
			t.Fatalf("unexpected type order: %v", types)
		}
	})
}
